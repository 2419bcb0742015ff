package so

import (
	"fmt"
	"math"
)

// TokenSymbol is the display symbol shared by all option token classes.
const TokenSymbol = "DUAL-SO"

// nameDisplayLen bounds the sale-name portion of a token name.
const nameDisplayLen = 18

// TokenName renders the display name of the option token class for a
// strike: the sale name truncated to 18 characters and the strike expressed
// in quote units per whole base token, in scientific notation.
func (s *SaleState) TokenName(strike uint64) string {
	name := s.ID.Name
	if len(name) > nameDisplayLen {
		name = name[:nameDisplayLen]
	}
	// strike is quote atoms per base atom; rescale to whole tokens on both
	// legs for display.
	perToken := float64(strike) *
		math.Pow10(int(s.BaseDecimals)) / math.Pow10(int(s.QuoteDecimals))
	return fmt.Sprintf("DUAL-%s-%.2e", name, perToken)
}
