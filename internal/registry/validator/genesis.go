package validator

import (
	"strconv"

	"mintguard/internal/registry/models"
)

// validateGenesis is the one-time initialization check: the designated seed
// reference must be consumed by the enclosing transition and the fresh
// record must match the configured constants exactly, with supply and
// tracking at zero. Display fields are unconstrained.
func (v *Validator) validateGenesis(req *models.TransitionRequest) error {
	if !req.SeedConsumed {
		return rejectField(CodeSeedNotConsumed, "seed_ref", v.cfg.SeedRef, "")
	}

	rec := req.Proposed
	if err := checkSchema(rec); err != nil {
		return err
	}

	if rec.Identity != v.cfg.Identity {
		field, expected, observed := firstIdentityMismatch(v.cfg.Identity, rec.Identity)
		return rejectField(CodeInvalidGenesisState, field, expected, observed)
	}
	if rec.Supply != 0 {
		return rejectField(CodeInvalidGenesisState, "supply", "0",
			strconv.FormatUint(rec.Supply, 10))
	}
	if !rec.Tracking.IsZero() {
		return rejectField(CodeInvalidGenesisState, "tracking", "zero", "nonzero")
	}
	if req.MintedDelta != 0 {
		return rejectField(CodeInvalidGenesisState, "minted_delta", "0",
			strconv.FormatInt(req.MintedDelta, 10))
	}
	return nil
}

func firstIdentityMismatch(want, got models.Identity) (field, expected, observed string) {
	switch {
	case want.Kind != got.Kind:
		return "kind", want.Kind, got.Kind
	case want.Venue != got.Venue:
		return "venue", want.Venue, got.Venue
	case want.Underlying != got.Underlying:
		return "underlying", want.Underlying, got.Underlying
	case want.Ticker != got.Ticker:
		return "ticker", want.Ticker, got.Ticker
	default:
		return "decimals", strconv.Itoa(int(want.Decimals)), strconv.Itoa(int(got.Decimals))
	}
}
