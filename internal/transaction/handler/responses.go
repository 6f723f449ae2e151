package handler

import (
	"time"

	"vouch/internal/transaction/lifecycle"
	"vouch/internal/transaction/models"
)

type createBody struct {
	Message       string                                        `json:"message"`
	TransactionID string                                        `json:"transactionId"`
	PersonalInfo  models.PersonalInfo                           `json:"personalInfo"`
	Status        map[models.DocumentType]models.DocumentStatus `json:"status"`
	CreatedAt     time.Time                                     `json:"createdAt"`
}

func createResponse(tx *models.Transaction) createBody {
	return createBody{
		Message:       "Transaction created successfully.",
		TransactionID: tx.ID,
		PersonalInfo:  tx.PersonalInfo,
		Status:        tx.Status,
		CreatedAt:     tx.CreatedAt,
	}
}

// documentView is the per-type projection in status responses. Score and keys
// appear only after the first upload for that type.
type documentView struct {
	Status models.DocumentStatus       `json:"status"`
	Score  *float64                    `json:"score,omitempty"`
	Keys   map[models.ImageSide]string `json:"keys,omitempty"`
}

type statusBody struct {
	TransactionID string                               `json:"transactionId"`
	Status        models.DocumentStatus                `json:"status"`
	Documents     map[models.DocumentType]documentView `json:"documents"`
	UpdatedAt     time.Time                            `json:"updatedAt"`
}

// statusResponse computes the overall status fresh on every read. Types with
// no upload yet report PENDING with no score or keys.
func statusResponse(tx *models.Transaction) statusBody {
	docs := make(map[models.DocumentType]documentView, len(models.TrackedTypes))
	for _, dt := range models.TrackedTypes {
		view := documentView{Status: tx.StatusOf(dt)}
		if rec := tx.Document(dt); rec != nil {
			score := rec.Score
			view.Score = &score
			view.Keys = rec.Keys
		}
		docs[dt] = view
	}
	return statusBody{
		TransactionID: tx.ID,
		Status:        lifecycle.Overall(tx),
		Documents:     docs,
		UpdatedAt:     tx.UpdatedAt,
	}
}
