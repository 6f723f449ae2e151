// Package service implements transaction creation and status reads.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"vouch/internal/audit"
	"vouch/internal/platform/metrics"
	"vouch/internal/transaction/lifecycle"
	"vouch/internal/transaction/models"
	"vouch/internal/transaction/store"
	dErrors "vouch/pkg/domain-errors"
)

const dobLayout = "2006-01-02"

// CreateRequest carries the applicant fields for a new transaction. Country
// is optional; the remaining contact fields only ever arrive via verified
// document uploads.
type CreateRequest struct {
	Name        string
	DateOfBirth string
	Country     string
}

// Service owns the transaction lifecycle outside of document intake.
type Service struct {
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor *audit.Recorder
	now     func() time.Time
	newID   func() string
}

func New(st store.Store, logger *slog.Logger, m *metrics.Metrics, auditor *audit.Recorder) *Service {
	return &Service{
		store:   st,
		logger:  logger,
		metrics: m,
		auditor: auditor,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// WithClock overrides time and id generation. Test hook.
func (s *Service) WithClock(now func() time.Time, newID func() string) *Service {
	s.now = now
	s.newID = newID
	return s
}

// Create validates the applicant fields, persists a new all-PENDING
// transaction, and returns it.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Transaction, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, dErrors.New(dErrors.KindBadRequest, dErrors.CodeMissingName, "Name is required")
	}
	if !govalidator.RuneLength(name, "1", "200") {
		return nil, dErrors.New(dErrors.KindBadRequest, dErrors.CodeMissingName,
			"Name must be at most 200 characters")
	}

	dob := strings.TrimSpace(req.DateOfBirth)
	now := s.now()
	if err := validateDOB(dob, now); err != nil {
		return nil, err
	}

	info := models.PersonalInfo{
		Name:        name,
		DateOfBirth: dob,
		Country:     strings.TrimSpace(req.Country),
	}
	tx := lifecycle.New(s.newID(), info, now)
	if err := s.store.Put(ctx, tx); err != nil {
		return nil, dErrors.Internal("error creating transaction", err)
	}

	s.logger.InfoContext(ctx, "transaction created", "transaction_id", tx.ID)
	s.metrics.IncrementTransactionsCreated()
	s.auditor.Record(ctx, audit.Event{
		TransactionID: tx.ID,
		Action:        audit.ActionTransactionCreated,
	})
	return tx, nil
}

// Get loads one transaction by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Transaction, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, dErrors.New(dErrors.KindBadRequest, dErrors.CodeMissingTxnID, "Transaction ID is required")
	}
	tx, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.KindNotFound, dErrors.CodeTxnNotFound, "Transaction not found")
		}
		return nil, dErrors.Internal("error fetching transaction", err)
	}
	s.metrics.IncrementStatusQueries()
	return tx, nil
}

// validateDOB requires an exact YYYY-MM-DD date strictly before today.
// Comparison is at day granularity so the time of day never decides
// whether a birth date is acceptable.
func validateDOB(dob string, now time.Time) error {
	invalid := dErrors.New(dErrors.KindBadRequest, dErrors.CodeInvalidDOB,
		"Valid date of birth is required (YYYY-MM-DD, in the past)")
	if dob == "" {
		return invalid
	}
	t, err := time.Parse(dobLayout, dob)
	if err != nil || t.Format(dobLayout) != dob {
		return invalid
	}
	nowUTC := now.UTC()
	today := time.Date(nowUTC.Year(), nowUTC.Month(), nowUTC.Day(), 0, 0, 0, 0, time.UTC)
	if !t.Before(today) {
		return invalid
	}
	return nil
}
