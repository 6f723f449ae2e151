package verification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"vouch/internal/audit"
	"vouch/internal/blobstore"
	"vouch/internal/platform/metrics"
	"vouch/internal/transaction/lifecycle"
	"vouch/internal/transaction/models"
	"vouch/internal/transaction/store"
	dErrors "vouch/pkg/domain-errors"
)

// Upload is one image payload handed to the service. Open defers reading so
// buffering can run concurrently with the transaction existence check.
type Upload struct {
	Side        models.ImageSide
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// IntakeRequest is one validated-for-presence intake call. Size ceilings and
// transaction existence are enforced here, not in the handler.
type IntakeRequest struct {
	TxnID     string
	Type      models.DocumentType
	Uploads   []Upload
	Directive *Directive
}

// IntakeResult carries the outcome plus the pre-update transaction, whose
// creation-time personal info some responses echo.
type IntakeResult struct {
	Status      models.DocumentStatus
	Record      *models.DocumentRecord
	Result      Result
	Transaction *models.Transaction
}

// Service orchestrates document intake: concurrent existence check and byte
// buffering, parallel blob writes, verification, and the single combined
// record update.
type Service struct {
	txns     store.Store
	blobs    blobstore.Store
	verifier DocumentVerifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	auditor  *audit.Recorder
	tracer   trace.Tracer
	now      func() time.Time
}

func NewService(
	txns store.Store,
	blobs blobstore.Store,
	verifier DocumentVerifier,
	logger *slog.Logger,
	m *metrics.Metrics,
	auditor *audit.Recorder,
) *Service {
	return &Service{
		txns:     txns,
		blobs:    blobs,
		verifier: verifier,
		logger:   logger,
		metrics:  m,
		auditor:  auditor,
		tracer:   otel.Tracer("vouch/verification"),
		now:      time.Now,
	}
}

// Intake runs the shared document-intake contract for one request.
func (s *Service) Intake(ctx context.Context, req IntakeRequest) (*IntakeResult, error) {
	start := s.now()
	ctx, span := s.tracer.Start(ctx, "verification.intake", trace.WithAttributes(
		attribute.String("kyc.transaction_id", req.TxnID),
		attribute.String("kyc.document_type", string(req.Type)),
	))
	defer span.End()

	def, ok := DefinitionFor(req.Type)
	if !ok {
		return nil, dErrors.Internal("error processing document verification",
			fmt.Errorf("unknown document type %s", req.Type))
	}

	// Phase 1: the existence check runs concurrently with buffering the
	// upload bytes. Both must complete before any store mutation.
	var tx *models.Transaction
	buffers := make([][]byte, len(req.Uploads))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := s.txns.Get(gctx, req.TxnID)
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.KindNotFound, dErrors.CodeInvalidTxnID,
				"Invalid transaction ID. Please initiate a new transaction.")
		}
		if err != nil {
			return dErrors.Internal("error processing document verification", err)
		}
		tx = found
		return nil
	})
	for i := range req.Uploads {
		g.Go(func() error {
			data, err := s.buffer(def, req.Uploads[i])
			if err != nil {
				return err
			}
			buffers[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Phase 2: blob writes for one document type proceed in parallel; any
	// failure aborts before the record update.
	keys := make(map[models.ImageSide]string, len(req.Uploads))
	for _, up := range req.Uploads {
		keys[up.Side] = blobstore.ObjectKey(req.TxnID, req.Type, up.Side, up.Filename)
	}
	g2, gctx2 := errgroup.WithContext(ctx)
	for i, up := range req.Uploads {
		key := keys[up.Side]
		data := buffers[i]
		contentType := up.ContentType
		g2.Go(func() error {
			if err := s.blobs.Put(gctx2, key, data, contentType); err != nil {
				return dErrors.Internal("error processing document verification",
					fmt.Errorf("store %s: %w", key, err))
			}
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return nil, err
	}

	// Aadhar never exercises the failure path.
	directive := req.Directive
	if !def.AllowFailure {
		directive = nil
	}
	result, err := s.verifier.Verify(ctx, def, directive)
	if err != nil {
		return nil, dErrors.Internal("error processing document verification", err)
	}

	record := &models.DocumentRecord{
		Keys:              keys,
		Fields:            result.Fields,
		ValidationDetails: result.ValidationDetails,
		Score:             result.Score,
		UpdatedAt:         s.now(),
	}
	update := lifecycle.DocumentUpdate{
		Type:      req.Type,
		Record:    record,
		Status:    result.Status,
		UpdatedAt: record.UpdatedAt,
	}
	if result.Status == models.StatusVerified {
		update.Contact = result.Contact
	}
	if err := s.txns.UpdateDocument(ctx, req.TxnID, update); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.KindNotFound, dErrors.CodeInvalidTxnID,
				"Invalid transaction ID. Please initiate a new transaction.")
		}
		return nil, dErrors.Internal("error processing document verification", err)
	}

	s.logger.InfoContext(ctx, "document intake completed",
		"transaction_id", req.TxnID,
		"document_type", req.Type,
		"status", result.Status,
	)
	s.metrics.IncrementDocumentOutcome(string(req.Type), string(result.Status))
	s.metrics.ObserveIntakeLatency(string(req.Type), s.now().Sub(start))

	action := audit.ActionDocumentVerified
	if result.Status == models.StatusFailed {
		action = audit.ActionDocumentFailed
	}
	s.auditor.Record(ctx, audit.Event{
		TransactionID: req.TxnID,
		Action:        action,
		DocumentType:  string(req.Type),
		Status:        string(result.Status),
	})

	return &IntakeResult{
		Status:      result.Status,
		Record:      record,
		Result:      result,
		Transaction: tx,
	}, nil
}

// buffer reads one upload fully, enforcing the per-file ceiling with the
// side-specific error code.
func (s *Service) buffer(def Definition, up Upload) ([]byte, error) {
	spec, ok := def.Image(up.Side)
	if !ok {
		return nil, dErrors.Internal("error processing document verification",
			fmt.Errorf("unexpected image side %s for %s", up.Side, def.Type))
	}
	rc, err := up.Open()
	if err != nil {
		return nil, dErrors.Internal("error processing document verification", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxFileSize+1))
	if err != nil {
		return nil, dErrors.Internal("error processing document verification", err)
	}
	if len(data) > MaxFileSize {
		return nil, dErrors.New(dErrors.KindBadRequest, spec.SizeCode,
			fmt.Sprintf("%s file size exceeds 5MB limit", up.Side))
	}
	return data, nil
}
