package models

// Signature is one attester's signature over the transition message, paired
// with the public key it claims to verify under. Membership in the
// configured attester set is checked by the quorum evaluator, not here.
type Signature struct {
	PublicKey []byte `json:"public_key"`
	Bytes     []byte `json:"bytes"`
}

// TransitionRequest is the complete, already-resolved input for one
// admission decision. It is ephemeral and never stored. All network-bound
// resolution (reserve values, signature collection, seed status) happens
// upstream; the validator only reads these fields.
type TransitionRequest struct {
	// Prior is the current record, nil when no record exists yet.
	Prior *RegistryRecord
	// Proposed is the record the transition wants to write.
	Proposed *RegistryRecord
	// MintedDelta is the declared signed quantity change of the record's
	// own token class: positive mint, negative burn, zero no-op.
	MintedDelta int64

	// Reserve inputs, aggregate variant only. Non-negative by construction
	// of the upstream transaction; trusted as given.
	TotalReserveValue  uint64
	ReserveValueChange uint64

	// EvidenceFingerprint identifies the external transfer event justifying
	// a mint, aggregate variant only.
	EvidenceFingerprint []byte

	// Signatures presented for this transition and the message they sign.
	Signatures []Signature
	Message    []byte

	// SeedConsumed reports that the designated one-time seed reference is
	// consumed by the enclosing transition. Initialization only.
	SeedConsumed bool

	// TokenClasses lists the distinct token-name classes of the record's
	// own policy minted or burned in the enclosing transaction.
	TokenClasses []string
}

// TransitionKind is the routing decision, made once per request.
type TransitionKind int

const (
	KindInvalid TransitionKind = iota
	// KindExempt covers requests touching no record at all: holders of
	// zero units reclaiming incidental holdings.
	KindExempt
	KindInitialization
	KindStateChange
)

func (r *TransitionRequest) Kind() TransitionKind {
	switch {
	case r.Prior == nil && r.Proposed == nil:
		return KindExempt
	case r.Prior == nil:
		return KindInitialization
	case r.Proposed == nil:
		// Records are never destroyed.
		return KindInvalid
	default:
		return KindStateChange
	}
}
