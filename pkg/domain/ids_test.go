package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveAnchorDeterministic(t *testing.T) {
	a := DeriveAnchor("policy-1", "ethereum", "wBTC")
	b := DeriveAnchor("policy-1", "ethereum", "wBTC")
	assert.Equal(t, a, b)
	assert.Len(t, string(a), 64)
}

func TestDeriveAnchorSeparatesParts(t *testing.T) {
	// Length prefixing keeps re-split triples apart.
	a := DeriveAnchor("ab", "c", "t")
	b := DeriveAnchor("a", "bc", "t")
	assert.NotEqual(t, a, b)
}

func TestDeriveAnchorDistinctTickers(t *testing.T) {
	a := DeriveAnchor("policy-1", "ethereum", "wBTC")
	b := DeriveAnchor("policy-1", "ethereum", "wETH")
	assert.NotEqual(t, a, b)
}

func TestFingerprintStable(t *testing.T) {
	ev := []byte("transfer:0xabc:42")
	assert.Equal(t, Fingerprint(ev), Fingerprint(ev))
	assert.Len(t, Fingerprint(ev), 32)
	assert.NotEqual(t, Fingerprint(ev), Fingerprint([]byte("transfer:0xabc:43")))
}

func TestAssetIDString(t *testing.T) {
	id := NewAssetID()
	assert.NotEmpty(t, id.String())
	assert.NotEqual(t, id.String(), NewAssetID().String())
}
