// Package validator decides whether a proposed registry-record transition is
// admissible. It is a pure synchronous predicate: no I/O, no clock, no
// shared state, so the same request yields the same verdict wherever it is
// evaluated. A nil return means accept; every rejection is an *Error.
package validator

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	"mintguard/internal/registry/models"
	"mintguard/internal/registry/pricing"
	"mintguard/internal/registry/quorum"
)

// Config is the immutable per-asset configuration fixed at asset
// registration. Validators hold no other state.
type Config struct {
	Variant models.Variant
	// TokenClass is the single token-name class this record governs.
	TokenClass string
	// Identity holds the compile-time constant identity fields a genesis
	// record must carry and later transitions must preserve.
	Identity models.Identity
	// AttesterKeys is the fixed oracle key set.
	AttesterKeys [][]byte
	Policy       quorum.Policy
	// InitialPrice applies to aggregate-variant mints before a baseline
	// exists.
	InitialPrice uint64
	// SeedRef is the designated one-time seed reference whose consumption
	// authorizes initialization.
	SeedRef string
	// Verifier checks attester signatures; defaults to Ed25519.
	Verifier quorum.Verifier
}

// Validator evaluates transitions for one asset.
type Validator struct {
	cfg      Config
	strategy pricing.Strategy
}

func New(cfg Config) (*Validator, error) {
	if cfg.TokenClass == "" {
		return nil, fmt.Errorf("token class is required")
	}
	if cfg.SeedRef == "" {
		return nil, fmt.Errorf("seed reference is required")
	}
	if len(cfg.AttesterKeys) == 0 {
		return nil, fmt.Errorf("attester key set is required")
	}
	switch cfg.Policy {
	case quorum.PolicySimpleMajority, quorum.PolicyStrictMajority:
	default:
		return nil, fmt.Errorf("unknown quorum policy %q", cfg.Policy)
	}
	if cfg.Verifier == nil {
		cfg.Verifier = quorum.Ed25519{}
	}

	var strategy pricing.Strategy
	switch cfg.Variant {
	case models.VariantOneToOne:
		strategy = pricing.BurnOnly{}
	case models.VariantWrappedCap:
		strategy = pricing.FixedCap{}
	case models.VariantAggregateReserve:
		if cfg.InitialPrice == 0 {
			return nil, fmt.Errorf("aggregate variant requires a nonzero initial price")
		}
		strategy = pricing.Reserve{InitialPrice: cfg.InitialPrice}
	default:
		return nil, fmt.Errorf("unknown variant %q", cfg.Variant)
	}
	return &Validator{cfg: cfg, strategy: strategy}, nil
}

func (v *Validator) Config() Config { return v.cfg }

// Validate runs the admission predicate. Routing between initialization and
// state change is decided once, here.
func (v *Validator) Validate(req *models.TransitionRequest) error {
	if req == nil {
		return reject(CodeMalformedTransition, "empty request")
	}
	if err := v.checkTokenKinds(req); err != nil {
		return err
	}
	switch req.Kind() {
	case models.KindExempt:
		// Holders of zero units of the record's own token class reclaiming
		// incidental holdings: trivially admissible.
		if req.MintedDelta != 0 {
			return reject(CodeMalformedTransition, "exempt transition declares a quantity change")
		}
		return nil
	case models.KindInitialization:
		return v.validateGenesis(req)
	case models.KindStateChange:
		return v.validateStateChange(req)
	default:
		return reject(CodeMalformedTransition, "prior record present without a proposed successor")
	}
}

// checkTokenKinds enforces the cross-cutting rule: at most one token-name
// class of the record's own kind is minted or burned per transition, and it
// must be the configured one.
func (v *Validator) checkTokenKinds(req *models.TransitionRequest) error {
	distinct := make(map[string]struct{}, len(req.TokenClasses))
	for _, class := range req.TokenClasses {
		distinct[class] = struct{}{}
	}
	if len(distinct) > 1 {
		return reject(CodeMultipleTokenKinds,
			fmt.Sprintf("%d distinct token classes in one transition", len(distinct)))
	}
	for class := range distinct {
		if class != v.cfg.TokenClass {
			return rejectField(CodeMalformedTransition, "token_class", v.cfg.TokenClass, class)
		}
	}
	if req.MintedDelta != 0 && len(distinct) == 0 {
		return reject(CodeMalformedTransition, "quantity change without a token class")
	}
	return nil
}

func (v *Validator) validateStateChange(req *models.TransitionRequest) error {
	prior, proposed := req.Prior, req.Proposed

	if err := checkSchema(proposed); err != nil {
		return err
	}

	changes := models.Diff(prior, proposed)
	if identity := changes.ByClass(models.ClassIdentity); len(identity) > 0 {
		c := identity[0]
		return rejectField(CodeImmutableFieldViolation, c.Field, c.Prior, c.Proposed)
	}

	delta, ok := supplyDelta(prior.Supply, proposed.Supply)
	if !ok || delta != req.MintedDelta {
		return rejectField(CodeSupplyMismatch, "supply",
			expectedSupply(prior.Supply, req.MintedDelta),
			strconv.FormatUint(proposed.Supply, 10))
	}

	switch {
	case delta > 0:
		return v.validateMint(req, changes)
	default:
		// Burns and pure display updates need no quorum and no price
		// check, but must leave tracking state untouched.
		if tracking := changes.ByClass(models.ClassTracking); len(tracking) > 0 {
			c := tracking[0]
			return rejectField(CodeTrackingFieldMismatch, c.Field, c.Prior, c.Proposed)
		}
		return nil
	}
}

func (v *Validator) validateMint(req *models.TransitionRequest, changes models.FieldChanges) error {
	count := quorum.CountValid(v.cfg.Verifier, req.Signatures, v.cfg.AttesterKeys, req.Message)
	k := len(v.cfg.AttesterKeys)
	if !quorum.HasQuorum(v.cfg.Policy, count, k) {
		return rejectField(CodeInsufficientQuorum, "signatures",
			strconv.Itoa(v.cfg.Policy.Threshold(k)), strconv.Itoa(count))
	}

	if ok, detail := v.strategy.Admit(pricing.MintInputs{
		Units:               uint64(req.MintedDelta),
		CurrentSupply:       req.Prior.Supply,
		ProposedSupply:      req.Proposed.Supply,
		SupplyAfterLastMint: req.Prior.Tracking.SupplyAfterLastMint,
		TotalReserveValue:   req.TotalReserveValue,
		ReserveValueChange:  req.ReserveValueChange,
	}); !ok {
		return reject(CodePriceBoundExceeded, detail)
	}

	return v.checkMintTracking(req, changes)
}

// checkMintTracking verifies the tracking-field update accompanying a mint.
// The aggregate variant snapshots the new supply and the declared evidence
// fingerprint; the other variants keep tracking at zero forever.
func (v *Validator) checkMintTracking(req *models.TransitionRequest, changes models.FieldChanges) error {
	proposed := req.Proposed
	if v.cfg.Variant != models.VariantAggregateReserve {
		if tracking := changes.ByClass(models.ClassTracking); len(tracking) > 0 {
			c := tracking[0]
			return rejectField(CodeTrackingFieldMismatch, c.Field, c.Prior, c.Proposed)
		}
		return nil
	}
	if proposed.Tracking.SupplyAfterLastMint != proposed.Supply {
		return rejectField(CodeTrackingFieldMismatch, "supply_after_last_mint",
			strconv.FormatUint(proposed.Supply, 10),
			strconv.FormatUint(proposed.Tracking.SupplyAfterLastMint, 10))
	}
	if !bytes.Equal(proposed.Tracking.LastMintTransferID, req.EvidenceFingerprint) {
		return rejectField(CodeTrackingFieldMismatch, "last_mint_transfer_id",
			hex.EncodeToString(req.EvidenceFingerprint),
			hex.EncodeToString(proposed.Tracking.LastMintTransferID))
	}
	return nil
}

func checkSchema(rec *models.RegistryRecord) error {
	if rec.Version != models.SchemaVersion {
		return rejectField(CodeUnsupportedSchema, "version",
			strconv.Itoa(models.SchemaVersion), strconv.Itoa(rec.Version))
	}
	if rec.Extra != models.ExtraUnused {
		return rejectField(CodeUnsupportedSchema, "extra", models.ExtraUnused, rec.Extra)
	}
	return nil
}

// supplyDelta computes proposed - prior without overflow; ok is false when
// the difference does not fit a signed 64-bit delta.
func supplyDelta(prior, proposed uint64) (int64, bool) {
	if proposed >= prior {
		d := proposed - prior
		if d > math.MaxInt64 {
			return 0, false
		}
		return int64(d), true
	}
	d := prior - proposed
	if d > math.MaxInt64 {
		return 0, false
	}
	return -int64(d), true
}

func expectedSupply(prior uint64, delta int64) string {
	if delta >= 0 {
		return strconv.FormatUint(prior+uint64(delta), 10)
	}
	burn := uint64(-delta)
	if burn > prior {
		return "0"
	}
	return strconv.FormatUint(prior-burn, 10)
}
