package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (wrapped)
// so services can translate them into domain errors without knowing which
// backend produced them.
//
// These name factual states about a resource, not validation failures:
// - ErrNotFound: the record does not exist in the store
// - ErrConflict: a concurrent write already claimed the record
// - ErrUnavailable: the backing service is temporarily unreachable
//
// For bad input, use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
