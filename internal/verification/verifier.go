package verification

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vouch/internal/transaction/lifecycle"
	"vouch/internal/transaction/models"
)

// Directive is a parsed simulated-failure instruction. "all" marks every
// checkable field false; otherwise a single check is selected by ordinal.
type Directive struct {
	All   bool
	Check int
}

// ParseDirective parses the simulateFailure form value. Empty input means no
// directive. Unrecognized values are rejected so request shapes stay explicit.
func ParseDirective(raw string, def Definition) (*Directive, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.EqualFold(raw, "all") {
		return &Directive{All: true}, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n >= len(def.Checks) {
		return nil, fmt.Errorf("unrecognized failure directive %q", raw)
	}
	return &Directive{Check: n}, nil
}

// Result is the outcome of verifying one document.
type Result struct {
	Status models.DocumentStatus
	// Fields are the extracted document fields. In this system they are
	// literal stand-ins, not real extraction.
	Fields map[string]string
	// Contact carries the fields a verified upload merges into personalInfo.
	Contact *lifecycle.ContactMerge
	// ValidationDetails is set only when a directive ran.
	ValidationDetails map[string]bool
	Score             float64
}

// DocumentVerifier is the pluggable verification capability. The default
// implementation returns canned results; a real analyzer can replace it
// without touching the intake flow.
type DocumentVerifier interface {
	Verify(ctx context.Context, def Definition, directive *Directive) (Result, error)
}

// SimulatedVerifier returns hardcoded sample results per document type.
type SimulatedVerifier struct{}

func NewSimulatedVerifier() *SimulatedVerifier {
	return &SimulatedVerifier{}
}

func (v *SimulatedVerifier) Verify(_ context.Context, def Definition, directive *Directive) (Result, error) {
	if directive != nil && def.AllowFailure {
		details := make(map[string]bool, len(def.Checks))
		for i, check := range def.Checks {
			details[check] = !(directive.All || directive.Check == i)
		}
		return Result{
			Status:            lifecycle.StatusFromValidation(details),
			ValidationDetails: details,
			Score:             failedScore,
		}, nil
	}

	res, ok := verifiedResults[def.Type]
	if !ok {
		return Result{}, fmt.Errorf("no simulated result for document type %s", def.Type)
	}
	return res, nil
}

const failedScore = 0.40

// Canned verified outcomes. The sample values mirror what the document
// analyzer is expected to extract once a real implementation exists.
var verifiedResults = map[models.DocumentType]Result{
	models.DocumentTypePassport: {
		Status: models.StatusVerified,
		Fields: map[string]string{
			"passportNumber": "A1234567",
			"name":           "John Doe",
			"dateOfBirth":    "1990-01-01",
		},
		Contact: &lifecycle.ContactMerge{
			City:       "New York",
			State:      "New York",
			Country:    "USA",
			PostalCode: "10001",
			Address1:   "123 Main Street",
			Address2:   "Apt 4B",
		},
		Score: 0.95,
	},
	models.DocumentTypeVisa: {
		Status: models.StatusVerified,
		Fields: map[string]string{
			"visaNumber": "V9876543",
			"country":    "USA",
			"validUntil": "2027-12-31",
		},
		Score: 0.92,
	},
	models.DocumentTypeFlightTicket: {
		Status: models.StatusVerified,
		Fields: map[string]string{
			"ticketNumber": "FT123456",
			"airline":      "Acme Air",
			"travelDate":   "2026-03-01",
		},
		Score: 0.90,
	},
	models.DocumentTypeAadhar: {
		Status: models.StatusVerified,
		Fields: map[string]string{
			"aadharNumber": "A1234567",
		},
		Score: 0.90,
	},
}
