// Package lifecycle owns the transaction state model: how a transaction is
// minted, which per-document transitions an intake may apply, and how the
// overall status is rolled up from the per-type statuses. Handlers and stores
// delegate every state decision here so the rules exist in exactly one place.
package lifecycle

import (
	"fmt"
	"time"

	"vouch/internal/transaction/models"
)

// New mints the initial transaction record: every tracked type PENDING, no
// documents, timestamps aligned.
func New(id string, info models.PersonalInfo, now time.Time) *models.Transaction {
	status := make(map[models.DocumentType]models.DocumentStatus, len(models.TrackedTypes))
	for _, dt := range models.TrackedTypes {
		status[dt] = models.StatusPending
	}
	return &models.Transaction{
		ID:           id,
		PersonalInfo: info,
		Status:       status,
		Documents:    make(map[models.DocumentType]*models.DocumentRecord),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Rollup computes the aggregate status from per-type statuses with the
// precedence FAILED > PENDING > VERIFIED. It is a pure function and is never
// persisted, so reads cannot observe a stale aggregate.
func Rollup(statuses ...models.DocumentStatus) models.DocumentStatus {
	overall := models.StatusVerified
	for _, s := range statuses {
		switch s {
		case models.StatusFailed:
			return models.StatusFailed
		case models.StatusVerified:
		default:
			overall = models.StatusPending
		}
	}
	if len(statuses) == 0 {
		return models.StatusPending
	}
	return overall
}

// Overall rolls up the three tracked document types of a transaction,
// defaulting unset types to PENDING.
func Overall(tx *models.Transaction) models.DocumentStatus {
	statuses := make([]models.DocumentStatus, 0, len(models.TrackedTypes))
	for _, dt := range models.TrackedTypes {
		statuses = append(statuses, tx.StatusOf(dt))
	}
	return Rollup(statuses...)
}

// StatusFromValidation derives the per-document status from a validation map:
// FAILED iff any check is false, VERIFIED otherwise. A nil map means no
// failure directive ran, which is a VERIFIED outcome in this mocked system.
func StatusFromValidation(details map[string]bool) models.DocumentStatus {
	for _, ok := range details {
		if !ok {
			return models.StatusFailed
		}
	}
	return models.StatusVerified
}

// ContactMerge carries the contact fields a verified upload may merge into
// personalInfo. Name and date of birth are deliberately absent: they belong to
// the creation step and are never overwritten by an intake.
type ContactMerge struct {
	Country    string
	City       string
	State      string
	PostalCode string
	Address1   string
	Address2   string
}

// DocumentUpdate is the one combined partial update an intake applies: the
// document record, its per-type status, an optional contact merge, and the
// refreshed updatedAt. All other document types and fields stay untouched.
type DocumentUpdate struct {
	Type      models.DocumentType
	Record    *models.DocumentRecord
	Status    models.DocumentStatus
	Contact   *ContactMerge
	UpdatedAt time.Time
}

// Validate enforces the transition rules before any store applies the update:
// an upload can only land on VERIFIED or FAILED (never back to PENDING), and
// the status must agree with the record's validation details.
func (u DocumentUpdate) Validate() error {
	if u.Type == "" {
		return fmt.Errorf("document type is required")
	}
	if u.Record == nil {
		return fmt.Errorf("document record is required")
	}
	if u.Status != models.StatusVerified && u.Status != models.StatusFailed {
		return fmt.Errorf("upload cannot transition %s to %s", u.Type, u.Status)
	}
	if derived := StatusFromValidation(u.Record.ValidationDetails); derived != u.Status {
		return fmt.Errorf("status %s disagrees with validation details (%s)", u.Status, derived)
	}
	return nil
}

// Apply mutates tx in place according to the update. In-memory and Redis
// stores use it directly; the Postgres store mirrors the same semantics in a
// single UPDATE.
func (u DocumentUpdate) Apply(tx *models.Transaction) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if tx.Documents == nil {
		tx.Documents = make(map[models.DocumentType]*models.DocumentRecord)
	}
	if tx.Status == nil {
		tx.Status = make(map[models.DocumentType]models.DocumentStatus)
	}
	tx.Documents[u.Type] = u.Record
	tx.Status[u.Type] = u.Status
	if u.Contact != nil {
		mergeContact(&tx.PersonalInfo, u.Contact)
	}
	tx.UpdatedAt = u.UpdatedAt
	return nil
}

func mergeContact(info *models.PersonalInfo, c *ContactMerge) {
	if c.Country != "" {
		info.Country = c.Country
	}
	if c.City != "" {
		info.City = c.City
	}
	if c.State != "" {
		info.State = c.State
	}
	if c.PostalCode != "" {
		info.PostalCode = c.PostalCode
	}
	if c.Address1 != "" {
		info.Address1 = c.Address1
	}
	if c.Address2 != "" {
		info.Address2 = c.Address2
	}
}
