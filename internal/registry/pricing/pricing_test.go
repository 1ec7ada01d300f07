package pricing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"mintguard/pkg/testutil"
)

func TestReserveMaxPrice(t *testing.T) {
	s := Reserve{InitialPrice: 1200}

	testutil.Given(t, "supplies with a mint baseline", func(t *testing.T) {
		// priceAtLastMint = (1,100,000-100,000)/1000 = 1000
		// priceNow        = 1,100,000/1000           = 1100
		price := s.MaxPrice(1_100_000, 100_000, 1000, 1000)
		assert.Zero(t, price.Cmp(big.NewRat(1000, 1)))
	})

	testutil.Given(t, "a current snapshot cheaper than the pre-batch one", func(t *testing.T) {
		// priceAtLastMint = (900,000-0)/500 = 1800, priceNow = 900,000/1000 = 900
		price := s.MaxPrice(900_000, 0, 1000, 500)
		assert.Zero(t, price.Cmp(big.NewRat(900, 1)))
	})

	testutil.Given(t, "no prior mint baseline", func(t *testing.T) {
		assert.Zero(t, s.MaxPrice(1_000_000, 0, 0, 0).Cmp(big.NewRat(1200, 1)))
		// Nlast == 0 with N0 > 0 is reachable right after initialization.
		assert.Zero(t, s.MaxPrice(1_000_000, 0, 10, 0).Cmp(big.NewRat(1200, 1)))
	})

	testutil.Given(t, "a declared change above the total reserve", func(t *testing.T) {
		price := s.MaxPrice(100, 200, 1000, 1000)
		assert.Zero(t, price.Sign())
	})
}

// MaxPrice must be non-increasing as the declared reserve change grows with
// R fixed; a bigger claimed batch delta can never raise the bound.
func TestReserveMaxPriceMonotoneInDelta(t *testing.T) {
	s := Reserve{InitialPrice: 1}
	const r = 1_100_000
	prev := s.MaxPrice(r, 0, 1000, 1000)
	for delta := uint64(10_000); delta <= 200_000; delta += 10_000 {
		cur := s.MaxPrice(r, delta, 1000, 1000)
		assert.LessOrEqual(t, cur.Cmp(prev), 0, "delta=%d", delta)
		prev = cur
	}
}

func TestReserveAdmit(t *testing.T) {
	s := Reserve{InitialPrice: 1200}
	base := MintInputs{
		CurrentSupply:       1000,
		SupplyAfterLastMint: 1000,
		TotalReserveValue:   1_100_000,
		ReserveValueChange:  100_000,
	}

	testutil.When(t, "the mint value stays within the reserve", func(t *testing.T) {
		in := base
		in.Units, in.ProposedSupply = 90, 1090
		ok, detail := s.Admit(in)
		assert.True(t, ok)
		assert.Empty(t, detail)
	})

	testutil.When(t, "the mint value exceeds the reserve", func(t *testing.T) {
		in := base
		in.Units, in.ProposedSupply = 1200, 2200
		ok, detail := s.Admit(in)
		assert.False(t, ok)
		assert.Contains(t, detail, "above reserve")
	})

	testutil.When(t, "the bound lands exactly on the reserve", func(t *testing.T) {
		in := base
		in.Units, in.ProposedSupply = 1100, 2100 // 1100*1000 == 1,100,000
		ok, _ := s.Admit(in)
		assert.True(t, ok)
	})
}

func TestFixedCap(t *testing.T) {
	ok, _ := FixedCap{}.Admit(MintInputs{ProposedSupply: 500, TotalReserveValue: 500})
	assert.True(t, ok)

	ok, detail := FixedCap{}.Admit(MintInputs{ProposedSupply: 501, TotalReserveValue: 500})
	assert.False(t, ok)
	assert.Contains(t, detail, "declared cap")
}

func TestBurnOnlyNeverBounds(t *testing.T) {
	ok, _ := BurnOnly{}.Admit(MintInputs{Units: 1 << 60, ProposedSupply: 1 << 61})
	assert.True(t, ok)
}
