// Package pricing implements the per-variant mint price bounds. Strategies
// are pure: they read already-resolved reserve inputs and never fetch or
// re-derive them.
package pricing

import (
	"fmt"
	"math/big"
)

// MintInputs carries everything a strategy may read for one mint decision.
type MintInputs struct {
	// Units is the number of new units requested, always > 0 here.
	Units uint64
	// CurrentSupply is the outstanding supply before this mint (N0).
	CurrentSupply uint64
	// ProposedSupply is the supply after this mint (N1).
	ProposedSupply uint64
	// SupplyAfterLastMint is the supply snapshot at the last mint (Nlast).
	SupplyAfterLastMint uint64
	// TotalReserveValue is the declared reserve value (R).
	TotalReserveValue uint64
	// ReserveValueChange is the declared reserve delta of this batch (Δ).
	ReserveValueChange uint64
}

// Strategy decides whether a mint is within the variant's price bound.
// Admit returns ok=false with a rendered detail for the audit trail.
type Strategy interface {
	Admit(in MintInputs) (ok bool, detail string)
}

// BurnOnly has no price bound; mints are gated by quorum alone.
type BurnOnly struct{}

func (BurnOnly) Admit(MintInputs) (bool, string) { return true, "" }

// FixedCap bounds the proposed supply by the attester-declared cap carried
// in TotalReserveValue.
type FixedCap struct{}

func (FixedCap) Admit(in MintInputs) (bool, string) {
	if in.ProposedSupply <= in.TotalReserveValue {
		return true, ""
	}
	return false, fmt.Sprintf("proposed supply %d exceeds declared cap %d",
		in.ProposedSupply, in.TotalReserveValue)
}

// Reserve is the anti-manipulation bound of the aggregate variant: the
// admissible price is the smaller of the per-unit reserve value implied by
// the pre-batch snapshot and by the current totals, so inflating either
// snapshot alone cannot raise it.
type Reserve struct {
	// InitialPrice applies until a mint baseline exists.
	InitialPrice uint64
}

// MaxPrice returns the maximum admissible value per minted unit.
// With no baseline (N0 == 0 or Nlast == 0) it is the configured initial
// price; otherwise min((R-Δ)/Nlast, R/N0), computed exactly.
func (s Reserve) MaxPrice(r, delta, n0, nlast uint64) *big.Rat {
	if n0 == 0 || nlast == 0 {
		return new(big.Rat).SetUint64(s.InitialPrice)
	}
	preBatch := new(big.Int).Sub(
		new(big.Int).SetUint64(r),
		new(big.Int).SetUint64(delta),
	)
	if preBatch.Sign() < 0 {
		// A declared change exceeding the total would imply a negative
		// pre-batch reserve; clamp so any positive mint fails the bound.
		preBatch.SetInt64(0)
	}
	atLastMint := new(big.Rat).SetFrac(preBatch, new(big.Int).SetUint64(nlast))
	now := new(big.Rat).SetFrac(
		new(big.Int).SetUint64(r),
		new(big.Int).SetUint64(n0),
	)
	if atLastMint.Cmp(now) <= 0 {
		return atLastMint
	}
	return now
}

func (s Reserve) Admit(in MintInputs) (bool, string) {
	price := s.MaxPrice(in.TotalReserveValue, in.ReserveValueChange,
		in.CurrentSupply, in.SupplyAfterLastMint)
	cost := new(big.Rat).Mul(new(big.Rat).SetUint64(in.Units), price)
	reserve := new(big.Rat).SetUint64(in.TotalReserveValue)
	if cost.Cmp(reserve) <= 0 {
		return true, ""
	}
	return false, fmt.Sprintf("mint of %d units at max price %s is worth %s, above reserve %d",
		in.Units, price.RatString(), cost.RatString(), in.TotalReserveValue)
}
