// Package blobstore is the write-once object storage port used by document
// intake. Keys are deterministic per transaction, document type, and image
// side, so a re-upload lands on the same object.
package blobstore

import (
	"context"
	"fmt"
	"strings"

	"vouch/internal/transaction/models"
)

// Store accepts a key, bytes, and content type. Uploads are write-once from
// the caller's perspective; overwriting an existing key is a re-upload.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// ObjectKey derives the storage key for one uploaded image:
// {txnId}/{type}/{side}.{ext}, preserving the original file extension in
// lower case. Files without an extension fall back to "bin".
func ObjectKey(txnID string, docType models.DocumentType, side models.ImageSide, filename string) string {
	ext := "bin"
	if i := strings.LastIndex(filename, "."); i >= 0 && i < len(filename)-1 {
		ext = strings.ToLower(filename[i+1:])
	}
	return fmt.Sprintf("%s/%s/%s.%s", txnID, docType, side, ext)
}
