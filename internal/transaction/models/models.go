// Package models defines the canonical transaction record. Earlier revisions
// of this system carried divergent shapes (flat document fields, txnId vs
// transactionId); this package is the single schema the rest of the code
// speaks.
package models

import "time"

// DocumentType identifies one independently tracked document flow.
type DocumentType string

const (
	DocumentTypePassport     DocumentType = "passport"
	DocumentTypeVisa         DocumentType = "visa"
	DocumentTypeFlightTicket DocumentType = "flightTicket"
	DocumentTypeAadhar       DocumentType = "aadhar"
)

// TrackedTypes are the document types that participate in the overall status
// rollup. Aadhar is accepted but does not gate the transaction outcome.
var TrackedTypes = []DocumentType{
	DocumentTypePassport,
	DocumentTypeVisa,
	DocumentTypeFlightTicket,
}

// DocumentStatus is the per-type verification state.
type DocumentStatus string

const (
	StatusPending  DocumentStatus = "PENDING"
	StatusVerified DocumentStatus = "VERIFIED"
	StatusFailed   DocumentStatus = "FAILED"
)

// ImageSide distinguishes the uploads belonging to one document type.
type ImageSide string

const (
	SideFront ImageSide = "front"
	SideBack  ImageSide = "back"
	SideMain  ImageSide = "image"
)

// PersonalInfo holds the applicant fields. Name and DateOfBirth are set at
// creation and never overwritten by intake steps; contact fields may be merged
// in by a verified document upload.
type PersonalInfo struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth"`
	Country     string `json:"country,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	Address1    string `json:"address1,omitempty"`
	Address2    string `json:"address2,omitempty"`
}

// DocumentRecord is written on each successful intake for a document type.
// A re-upload replaces the whole record.
type DocumentRecord struct {
	// Keys maps image side to the blob store key holding the upload.
	Keys map[ImageSide]string `json:"keys"`
	// Fields holds the extracted (in this system, simulated) document fields.
	Fields map[string]string `json:"fields,omitempty"`
	// ValidationDetails is present only when a failure directive ran; any
	// false entry forces the document status to FAILED.
	ValidationDetails map[string]bool `json:"validationDetails,omitempty"`
	Score             float64         `json:"score"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// Transaction is one applicant's end-to-end verification session.
type Transaction struct {
	ID           string                           `json:"transactionId"`
	PersonalInfo PersonalInfo                     `json:"personalInfo"`
	Status       map[DocumentType]DocumentStatus  `json:"status"`
	Documents    map[DocumentType]*DocumentRecord `json:"documents"`
	CreatedAt    time.Time                        `json:"createdAt"`
	UpdatedAt    time.Time                        `json:"updatedAt"`
}

// StatusOf returns the tracked status for a type, defaulting to PENDING so
// callers never observe a missing entry.
func (t *Transaction) StatusOf(dt DocumentType) DocumentStatus {
	if t == nil || t.Status == nil {
		return StatusPending
	}
	if s, ok := t.Status[dt]; ok && s != "" {
		return s
	}
	return StatusPending
}

// Document returns the record for a type, or nil before its first upload.
func (t *Transaction) Document(dt DocumentType) *DocumentRecord {
	if t == nil || t.Documents == nil {
		return nil
	}
	return t.Documents[dt]
}

// Clone returns a deep copy so in-memory stores never leak shared maps.
func (t *Transaction) Clone() *Transaction {
	if t == nil {
		return nil
	}
	out := *t
	out.Status = make(map[DocumentType]DocumentStatus, len(t.Status))
	for k, v := range t.Status {
		out.Status[k] = v
	}
	out.Documents = make(map[DocumentType]*DocumentRecord, len(t.Documents))
	for k, v := range t.Documents {
		out.Documents[k] = v.clone()
	}
	return &out
}

func (d *DocumentRecord) clone() *DocumentRecord {
	if d == nil {
		return nil
	}
	out := *d
	out.Keys = make(map[ImageSide]string, len(d.Keys))
	for k, v := range d.Keys {
		out.Keys[k] = v
	}
	if d.Fields != nil {
		out.Fields = make(map[string]string, len(d.Fields))
		for k, v := range d.Fields {
			out.Fields[k] = v
		}
	}
	if d.ValidationDetails != nil {
		out.ValidationDetails = make(map[string]bool, len(d.ValidationDetails))
		for k, v := range d.ValidationDetails {
			out.ValidationDetails[k] = v
		}
	}
	return &out
}
