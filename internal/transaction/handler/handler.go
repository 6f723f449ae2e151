// Package handler exposes transaction creation and status queries.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"vouch/internal/platform/middleware"
	"vouch/internal/transaction/models"
	"vouch/internal/transaction/service"
	dErrors "vouch/pkg/domain-errors"
	"vouch/pkg/platform/httputil"
)

// Service defines the transaction operations the handler delegates to.
type Service interface {
	Create(ctx context.Context, req service.CreateRequest) (*models.Transaction, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
}

// Handler handles transaction endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register registers the transaction routes with the chi router. The query
// form of the status endpoint is kept for callers predating path-based ids.
func (h *Handler) Register(r chi.Router) {
	r.Post("/kyc/transactions", h.handleCreate)
	r.Get("/kyc/transactions/{txnId}/status", h.handleStatus)
	r.Get("/kyc/status", h.handleStatus)
}

type createRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth"`
	Country     string `json:"country,omitempty"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.KindBadRequest, dErrors.CodeInvalidRequest,
			"request body must be valid JSON"))
		return
	}

	tx, err := h.service.Create(ctx, service.CreateRequest{
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		Country:     req.Country,
	})
	if err != nil {
		if dErrors.Is(err, dErrors.KindInternal) {
			h.logger.ErrorContext(ctx, "transaction creation failed",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, createResponse(tx))
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	txnID := strings.TrimSpace(chi.URLParam(r, "txnId"))
	if txnID == "" {
		txnID = strings.TrimSpace(r.URL.Query().Get("txnId"))
	}

	tx, err := h.service.Get(ctx, txnID)
	if err != nil {
		if dErrors.Is(err, dErrors.KindInternal) {
			h.logger.ErrorContext(ctx, "status query failed",
				"request_id", requestID,
				"transaction_id", txnID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, statusResponse(tx))
}
