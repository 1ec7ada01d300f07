package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in store
// - ErrConflict: write lost to a concurrent transition or duplicate anchor
// - ErrAlreadyUsed: one-time resource (seed reference) already consumed
// - ErrUnavailable: backing store temporarily unreachable
//
// Verdicts on transitions themselves live in the validator error taxonomy.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
