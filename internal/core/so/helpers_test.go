package so_test

import (
	"testing"
	"time"

	"github.com/dual-finance/soengine/internal/core/so"
	"github.com/dual-finance/soengine/internal/identity"
	sotesting "github.com/dual-finance/soengine/internal/testing"
	"github.com/stretchr/testify/require"
)

// fixture is a configured sale with a funded authority and buyer.
type fixture struct {
	env       *sotesting.Env
	id        so.SaleID
	authority identity.AccountID
	buyer     identity.AccountID
	base      identity.AssetID
	quote     identity.AssetID
}

const (
	fundBase  = 10_000_000 // authority's initial base atoms
	numTokens = 1_000_000  // collateral escrowed at configure time
	lotSize   = 100
	fundQuote = 100_000_000 // buyer's initial quote atoms
)

func defaultParams(env *sotesting.Env, f *fixture) so.ConfigParams {
	return so.ConfigParams{
		Name:                  "GSO-TEST",
		Period:                1,
		Base:                  f.base,
		Quote:                 f.quote,
		BaseDecimals:          6,
		QuoteDecimals:         6,
		Authority:             f.authority,
		QuoteProceeds:         f.authority,
		OptionExpiration:      env.In(2 * time.Hour),
		SubscriptionPeriodEnd: env.In(time.Hour),
		NumTokens:             numTokens,
		LotSize:               lotSize,
	}
}

// newFixture configures a sale (reversible or not) and funds both parties.
func newFixture(t *testing.T, reversible bool) *fixture {
	t.Helper()
	env := sotesting.NewEnv(t)
	f := &fixture{
		env:       env,
		authority: env.Account("authority"),
		buyer:     env.Account("buyer"),
		base:      env.Asset("base"),
		quote:     env.Asset("quote"),
	}
	env.Fund(f.base, f.authority, fundBase)
	env.Fund(f.quote, f.buyer, fundQuote)

	params := defaultParams(env, f)
	var err error
	if reversible {
		f.id, err = env.Engine.ConfigReversible(params)
	} else {
		f.id, err = env.Engine.Config(params)
	}
	require.NoError(t, err)
	return f
}

// issueTo registers a strike and issues amount base atoms worth of options
// to the destination.
func (f *fixture) issueTo(t *testing.T, strike, amount uint64, dest identity.AccountID) {
	t.Helper()
	require.NoError(t, f.env.Engine.InitStrike(f.id, f.authority, strike))
	require.NoError(t, f.env.Engine.Issue(f.id, f.authority, strike, amount, dest))
}
