package validator

import (
	"errors"
	"fmt"
)

// Code identifies one terminal rejection reason. Verdicts are final and
// auditable; retry policy belongs to the caller.
type Code string

const (
	CodeMalformedTransition     Code = "malformed_transition"
	CodeImmutableFieldViolation Code = "immutable_field_violation"
	CodeSupplyMismatch          Code = "supply_mismatch"
	CodeInsufficientQuorum      Code = "insufficient_quorum"
	CodePriceBoundExceeded      Code = "price_bound_exceeded"
	CodeTrackingFieldMismatch   Code = "tracking_field_mismatch"
	CodeMultipleTokenKinds      Code = "multiple_token_kinds"
	CodeSeedNotConsumed         Code = "seed_not_consumed"
	CodeInvalidGenesisState     Code = "invalid_genesis_state"
	CodeUnsupportedSchema       Code = "unsupported_schema"
)

// Error is a rejection verdict. Field, Expected and Observed carry enough
// context to reconstruct the decision externally; they may be empty when a
// rule has no single offending field.
type Error struct {
	Code     Code
	Field    string
	Expected string
	Observed string
	Detail   string
}

func (e *Error) Error() string {
	s := string(e.Code)
	if e.Field != "" {
		s += fmt.Sprintf(": field %s", e.Field)
	}
	if e.Expected != "" || e.Observed != "" {
		s += fmt.Sprintf(": expected %q, observed %q", e.Expected, e.Observed)
	}
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	return s
}

// As unwraps err into a rejection verdict, if it is one.
func As(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsCode reports whether err is a rejection with the given code.
func IsCode(err error, code Code) bool {
	ve, ok := As(err)
	return ok && ve.Code == code
}

func reject(code Code, detail string) *Error {
	return &Error{Code: code, Detail: detail}
}

func rejectField(code Code, field, expected, observed string) *Error {
	return &Error{Code: code, Field: field, Expected: expected, Observed: observed}
}
