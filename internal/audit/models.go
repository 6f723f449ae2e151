// Package audit captures structured events for every transaction mutation.
// Events flow through a channel-fed worker into a sink (in-memory store or
// Kafka) so request handling never blocks on the audit path.
package audit

import "time"

// Action names what happened to a transaction.
type Action string

const (
	ActionTransactionCreated Action = "transaction_created"
	ActionDocumentVerified   Action = "document_verified"
	ActionDocumentFailed     Action = "document_failed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp     time.Time `json:"timestamp"`
	TransactionID string    `json:"transactionId"`
	Action        Action    `json:"action"`
	DocumentType  string    `json:"documentType,omitempty"`
	Status        string    `json:"status,omitempty"`
}
