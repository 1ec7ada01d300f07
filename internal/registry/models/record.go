// Package models defines the registry record and the transition request the
// validator decides on. Everything here is a plain value type; mutation rules
// live in the validator.
package models

// Variant selects the pricing rule and mutability profile of an asset.
type Variant string

const (
	// VariantOneToOne backs each unit with exactly one unit of the
	// underlying; mints are gated by quorum alone.
	VariantOneToOne Variant = "one_to_one"
	// VariantWrappedCap bounds total supply by an attester-declared cap.
	VariantWrappedCap Variant = "wrapped_cap"
	// VariantAggregateReserve prices mints against two reserve-value
	// snapshots and tracks mint evidence on the record.
	VariantAggregateReserve Variant = "aggregate_reserve"
)

// SchemaVersion is the only record schema this build reads or writes.
const SchemaVersion = 1

// ExtraUnused is the single recognized value of the reserved extension field.
const ExtraUnused = ""

// Identity fields are fixed at initialization and never legally change.
type Identity struct {
	Kind       string `json:"kind"`
	Venue      string `json:"venue"`
	Underlying string `json:"underlying"`
	Ticker     string `json:"ticker"`
	Decimals   uint8  `json:"decimals"`
}

// Display fields are mutable and unconstrained.
type Display struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
	URL         string `json:"url"`
}

// Tracking records supply and evidence state as of the last mint. Only the
// aggregate variant populates it; the other variants keep it at zero.
type Tracking struct {
	SupplyAfterLastMint uint64 `json:"supply_after_last_mint"`
	LastMintTransferID  []byte `json:"last_mint_transfer_id,omitempty"`
}

func (t Tracking) IsZero() bool {
	return t.SupplyAfterLastMint == 0 && len(t.LastMintTransferID) == 0
}

// RegistryRecord is the long-lived state object for one tokenized asset.
type RegistryRecord struct {
	Version  int      `json:"version"`
	Extra    string   `json:"extra"`
	Identity Identity `json:"identity"`
	Display  Display  `json:"display"`
	Supply   uint64   `json:"supply"`
	Tracking Tracking `json:"tracking"`
}

// Clone returns a deep copy so stores never alias caller memory.
func (r *RegistryRecord) Clone() *RegistryRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.Tracking.LastMintTransferID != nil {
		out.Tracking.LastMintTransferID = append([]byte(nil), r.Tracking.LastMintTransferID...)
	}
	return &out
}
