// Package handler exposes the document-intake endpoints. It owns multipart
// decoding and presence validation; size ceilings, existence checks, and
// state transitions belong to the verification service.
package handler

import (
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"vouch/internal/platform/middleware"
	"vouch/internal/verification"
	dErrors "vouch/pkg/domain-errors"
	"vouch/pkg/platform/httputil"
)

// parseMemoryLimit bounds how much of a multipart body is held in memory
// before spilling to disk. Files above verification.MaxFileSize are still
// rejected per-file by the service.
const parseMemoryLimit = 8 << 20

// Service defines the intake operation the handler delegates to.
type Service interface {
	Intake(ctx context.Context, req verification.IntakeRequest) (*verification.IntakeResult, error)
}

// Handler handles document-intake endpoints, one route per document type.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts one intake route per document-type definition. The legacy
// /kyc/documents form, where the transaction id travels as a form field or
// query parameter, is kept for callers predating path-based ids.
func (h *Handler) Register(r chi.Router) {
	for _, def := range verification.Definitions() {
		def := def
		handle := func(w http.ResponseWriter, r *http.Request) {
			h.handleIntake(w, r, def)
		}
		r.Post("/kyc/transactions/{txnId}/documents/"+def.Route, handle)
		r.Post("/kyc/documents/"+def.Route, handle)
	}
}

func (h *Handler) handleIntake(w http.ResponseWriter, r *http.Request, def verification.Definition) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if err := r.ParseMultipartForm(parseMemoryLimit); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.KindBadRequest, dErrors.CodeInvalidRequest,
			"request body must be multipart form data"))
		return
	}

	txnID := resolveTxnID(r)
	if txnID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.KindBadRequest, dErrors.CodeMissingTxnID,
			"Transaction ID is required"))
		return
	}

	uploads, err := collectUploads(r, def)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	directive, derr := verification.ParseDirective(r.FormValue("simulateFailure"), def)
	if derr != nil {
		httputil.WriteError(w, dErrors.New(dErrors.KindBadRequest, dErrors.CodeInvalidRequest, derr.Error()))
		return
	}

	result, err := h.service.Intake(ctx, verification.IntakeRequest{
		TxnID:     txnID,
		Type:      def.Type,
		Uploads:   uploads,
		Directive: directive,
	})
	if err != nil {
		if dErrors.Is(err, dErrors.KindInternal) {
			h.logger.ErrorContext(ctx, "document intake failed",
				"request_id", requestID,
				"transaction_id", txnID,
				"document_type", def.Type,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, intakeResponse(def, result))
}

// resolveTxnID accepts the transaction id from the path, a form field, or a
// query parameter. Older callers used the txnId form field; the path form is
// canonical.
func resolveTxnID(r *http.Request) string {
	if id := strings.TrimSpace(chi.URLParam(r, "txnId")); id != "" {
		return id
	}
	if id := strings.TrimSpace(r.FormValue("txnId")); id != "" {
		return id
	}
	return strings.TrimSpace(r.URL.Query().Get("txnId"))
}

// collectUploads validates presence of every required image, reporting the
// definition's per-field code for the first missing one.
func collectUploads(r *http.Request, def verification.Definition) ([]verification.Upload, error) {
	uploads := make([]verification.Upload, 0, len(def.Images))
	for _, spec := range def.Images {
		headers := r.MultipartForm.File[spec.Field]
		if len(headers) == 0 {
			return nil, dErrors.New(dErrors.KindBadRequest, spec.MissingCode,
				spec.Field+" is required")
		}
		header := headers[0]
		uploads = append(uploads, verification.Upload{
			Side:        spec.Side,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Open:        openHeader(header),
		})
	}
	return uploads, nil
}

func openHeader(header *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}
