// Package audit defines the events emitted for every admission verdict.
// Verdicts are financial decisions and must be reconstructible after the
// fact, so rejections carry the offending field with expected and observed
// values. Keep the event transport-agnostic so sinks can fan out.
package audit

import (
	"context"
	"sync"
	"time"
)

// EventCategory classifies audit events by their primary purpose, enabling
// per-category topics and retention policies.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance:
	// accepted supply changes and record initializations.
	CategoryCompliance EventCategory = "compliance"
	// CategorySecurity covers rejected transitions: tampering attempts,
	// quorum failures, price-bound violations.
	CategorySecurity EventCategory = "security"
	// CategoryOperations covers routine visibility: asset registrations,
	// display-only updates.
	CategoryOperations EventCategory = "operations"
)

const (
	ActionAssetRegistered    = "asset_registered"
	ActionRecordInitialized  = "record_initialized"
	ActionTransitionAccepted = "transition_accepted"
	ActionTransitionRejected = "transition_rejected"
)

type Event struct {
	ID        string        `json:"id"`
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	Anchor    string        `json:"anchor"`
	Action    string        `json:"action"`

	// Rejection context, empty on accepts.
	Code     string `json:"code,omitempty"`
	Field    string `json:"field,omitempty"`
	Expected string `json:"expected,omitempty"`
	Observed string `json:"observed,omitempty"`

	MintedDelta int64  `json:"minted_delta"`
	Supply      uint64 `json:"supply"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// MemoryPublisher collects events in memory for tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

func (p *MemoryPublisher) Publish(_ context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}
