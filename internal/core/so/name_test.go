package so

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenName(t *testing.T) {
	sale := &SaleState{
		ID:            SaleID{Name: "GSO"},
		BaseDecimals:  6,
		QuoteDecimals: 6,
	}
	// Equal decimals: one quote atom per base atom is one token per token.
	assert.Equal(t, "DUAL-GSO-1.00e+00", sale.TokenName(1))
	assert.Equal(t, "DUAL-GSO-2.50e+02", sale.TokenName(250))
}

func TestTokenNameTruncatesLongNames(t *testing.T) {
	sale := &SaleState{
		ID:            SaleID{Name: "a-very-long-sale-name-indeed"},
		BaseDecimals:  6,
		QuoteDecimals: 6,
	}
	assert.Equal(t, "DUAL-a-very-long-sale-n-1.00e+00", sale.TokenName(1))
}

func TestTokenNameRescalesDecimals(t *testing.T) {
	// Base has 9 decimals, quote 6: one atom per atom is 10^3 quote units
	// per whole base token.
	sale := &SaleState{
		ID:            SaleID{Name: "GSO"},
		BaseDecimals:  9,
		QuoteDecimals: 6,
	}
	assert.Equal(t, "DUAL-GSO-1.00e+03", sale.TokenName(1))
}

func TestSplitFeeExact(t *testing.T) {
	for _, total := range []uint64{0, 1, 9_999, 10_000, 10_001, 60_000, 123_456_789} {
		fee, net := splitFee(total)
		assert.Equal(t, total, fee+net, "total %d", total)
		assert.Equal(t, total*FeeBps/10_000, fee, "total %d", total)
	}
}
