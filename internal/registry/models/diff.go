package models

import (
	"bytes"
	"encoding/hex"
	"strconv"
)

// FieldClass tags each record field with the mutation rule that governs it.
type FieldClass string

const (
	ClassIdentity FieldClass = "identity"
	ClassDisplay  FieldClass = "display"
	ClassTracking FieldClass = "tracking"
	ClassSupply   FieldClass = "supply"
	ClassMeta     FieldClass = "meta"
)

// FieldChange reports one field differing between two records. Prior and
// Proposed hold rendered values for audit output.
type FieldChange struct {
	Field    string
	Class    FieldClass
	Prior    string
	Proposed string
}

type FieldChanges []FieldChange

// ByClass filters changes down to one mutability class.
func (cs FieldChanges) ByClass(class FieldClass) FieldChanges {
	var out FieldChanges
	for _, c := range cs {
		if c.Class == class {
			out = append(out, c)
		}
	}
	return out
}

// Diff classifies every differing field between prior and proposed. Both
// records must be non-nil. The order is fixed so the first reported
// violation is deterministic.
func Diff(prior, proposed *RegistryRecord) FieldChanges {
	var out FieldChanges
	add := func(field string, class FieldClass, a, b string) {
		if a != b {
			out = append(out, FieldChange{Field: field, Class: class, Prior: a, Proposed: b})
		}
	}

	add("version", ClassMeta, strconv.Itoa(prior.Version), strconv.Itoa(proposed.Version))
	add("extra", ClassMeta, prior.Extra, proposed.Extra)

	add("kind", ClassIdentity, prior.Identity.Kind, proposed.Identity.Kind)
	add("venue", ClassIdentity, prior.Identity.Venue, proposed.Identity.Venue)
	add("underlying", ClassIdentity, prior.Identity.Underlying, proposed.Identity.Underlying)
	add("ticker", ClassIdentity, prior.Identity.Ticker, proposed.Identity.Ticker)
	add("decimals", ClassIdentity,
		strconv.Itoa(int(prior.Identity.Decimals)), strconv.Itoa(int(proposed.Identity.Decimals)))

	add("name", ClassDisplay, prior.Display.Name, proposed.Display.Name)
	add("description", ClassDisplay, prior.Display.Description, proposed.Display.Description)
	add("icon_url", ClassDisplay, prior.Display.IconURL, proposed.Display.IconURL)
	add("url", ClassDisplay, prior.Display.URL, proposed.Display.URL)

	add("supply", ClassSupply,
		strconv.FormatUint(prior.Supply, 10), strconv.FormatUint(proposed.Supply, 10))

	add("supply_after_last_mint", ClassTracking,
		strconv.FormatUint(prior.Tracking.SupplyAfterLastMint, 10),
		strconv.FormatUint(proposed.Tracking.SupplyAfterLastMint, 10))
	if !bytes.Equal(prior.Tracking.LastMintTransferID, proposed.Tracking.LastMintTransferID) {
		out = append(out, FieldChange{
			Field:    "last_mint_transfer_id",
			Class:    ClassTracking,
			Prior:    hex.EncodeToString(prior.Tracking.LastMintTransferID),
			Proposed: hex.EncodeToString(proposed.Tracking.LastMintTransferID),
		})
	}
	return out
}
