// Package quorum counts valid attester signatures against a threshold. It is
// generic over the signature scheme: callers supply a Verifier and the
// package only does set membership, deduplication, and threshold math.
package quorum

import (
	"crypto/ed25519"

	"mintguard/internal/registry/models"
)

// Verifier checks one signature. Implementations must be pure.
type Verifier interface {
	Verify(publicKey, message, signature []byte) bool
}

// Ed25519 is the default verifier.
type Ed25519 struct{}

func (Ed25519) Verify(publicKey, message, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature)
}

// Policy selects the threshold formula. The two forms agree for odd-sized
// attester sets and differ by one signer for even sizes; they stay separate
// because unifying them would change admission behavior.
type Policy string

const (
	// PolicySimpleMajority requires count >= (k+1)/2 with integer division.
	PolicySimpleMajority Policy = "simple_majority"
	// PolicyStrictMajority requires count > k/2, i.e. count >= k/2+1.
	PolicyStrictMajority Policy = "strict_majority"
)

// Threshold returns the minimum count of distinct valid signers for an
// attester set of size k.
func (p Policy) Threshold(k int) int {
	if p == PolicyStrictMajority {
		return k/2 + 1
	}
	return (k + 1) / 2
}

// CountValid returns the number of distinct attesters from keys whose
// signature over message verifies. Duplicate signers count once; signatures
// from keys outside the set are ignored.
func CountValid(v Verifier, sigs []models.Signature, keys [][]byte, message []byte) int {
	members := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		members[string(k)] = struct{}{}
	}
	seen := make(map[string]struct{}, len(sigs))
	count := 0
	for _, sig := range sigs {
		key := string(sig.PublicKey)
		if _, ok := members[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		if !v.Verify(sig.PublicKey, message, sig.Bytes) {
			continue
		}
		seen[key] = struct{}{}
		count++
	}
	return count
}

// HasQuorum reports whether count meets the policy threshold for an
// attester set of size k.
func HasQuorum(p Policy, count, k int) bool {
	return count >= p.Threshold(k)
}
