// Package domain holds the identifier types shared across the service.
package domain

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// AssetID is the admin-facing surrogate identifier assigned when an asset
// definition is registered. Persistence and validation key on the Anchor.
type AssetID uuid.UUID

func NewAssetID() AssetID { return AssetID(uuid.New()) }

func (id AssetID) String() string { return uuid.UUID(id).String() }

// Anchor is the stable reference addressing one registry record, derived
// deterministically from the asset's policy/venue/ticker triple. Two assets
// share an anchor only if all three parts match exactly.
type Anchor string

// DeriveAnchor hashes the triple with length-prefixed parts so that
// ("ab","c") and ("a","bc") cannot collide.
func DeriveAnchor(policy, venue, ticker string) Anchor {
	h, _ := blake2b.New256(nil)
	for _, part := range []string{policy, venue, ticker} {
		fmt.Fprintf(h, "%d:", len(part))
		h.Write([]byte(part))
	}
	return Anchor(hex.EncodeToString(h.Sum(nil)))
}

// Fingerprint condenses opaque transfer evidence into the fixed-size form
// stored on the record's tracking fields.
func Fingerprint(evidence []byte) []byte {
	sum := blake2b.Sum256(evidence)
	return sum[:]
}
