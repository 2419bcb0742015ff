package so_test

import (
	"testing"
	"time"

	"github.com/dual-finance/soengine/internal/core/keylet"
	"github.com/dual-finance/soengine/internal/core/so"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// successorParams configures a fresh period-2 sale after the fixture's sale
// has expired.
func successorParams(f *fixture, numTokens uint64) so.ConfigParams {
	params := defaultParams(f.env, f)
	params.Period = 2
	params.NumTokens = numTokens
	return params
}

func TestRolloverConservation(t *testing.T) {
	f := newFixture(t, false)
	const successorTokens = 250_000

	f.env.Clock.Advance(2 * time.Hour) // old sale expires

	newID, err := f.env.Engine.Config(successorParams(f, successorTokens))
	require.NoError(t, err)

	rolled, err := f.env.Engine.Rollover(f.id, newID, f.authority)
	require.NoError(t, err)
	assert.Equal(t, uint64(numTokens), rolled)

	newVault := keylet.VaultAccount(newID.Keylet().Key)
	assert.Equal(t, uint64(numTokens+successorTokens), f.env.Balance(f.base, newVault))

	successor, err := f.env.Engine.Sale(newID)
	require.NoError(t, err)
	assert.Equal(t, uint64(numTokens+successorTokens), successor.OptionsAvailable,
		"rolled collateral is issuable in the new period")

	_, err = f.env.Engine.Sale(f.id)
	assert.ErrorIs(t, err, so.ErrSaleNotFound)

	oldVault := keylet.VaultAccount(f.id.Keylet().Key)
	assert.Zero(t, f.env.Balance(f.base, oldVault))
}

func TestRolloverBeforeExpiration(t *testing.T) {
	f := newFixture(t, false)

	params := successorParams(f, 250_000)
	newID, err := f.env.Engine.Config(params)
	require.NoError(t, err)

	_, err = f.env.Engine.Rollover(f.id, newID, f.authority)
	assert.ErrorIs(t, err, so.ErrSaleNotYetExpired)
}

func TestRolloverMismatchedSuccessor(t *testing.T) {
	f := newFixture(t, false)
	other := f.env.Account("other-authority")
	f.env.Fund(f.base, other, fundBase)

	f.env.Clock.Advance(2 * time.Hour)

	params := successorParams(f, 250_000)
	params.Authority = other
	params.QuoteProceeds = other
	newID, err := f.env.Engine.Config(params)
	require.NoError(t, err)

	_, err = f.env.Engine.Rollover(f.id, newID, f.authority)
	assert.ErrorIs(t, err, so.ErrRolloverMismatch)
}

func TestRolloverIntoClosedSubscription(t *testing.T) {
	f := newFixture(t, false)
	f.env.Clock.Advance(2 * time.Hour)

	newID, err := f.env.Engine.Config(successorParams(f, 250_000))
	require.NoError(t, err)

	// Let the successor's own subscription window close too.
	f.env.Clock.Advance(time.Hour)
	_, err = f.env.Engine.Rollover(f.id, newID, f.authority)
	assert.ErrorIs(t, err, so.ErrSubscriptionClosed)
}

func TestRolloverReversibleSale(t *testing.T) {
	f := newFixture(t, true)
	f.env.Clock.Advance(2 * time.Hour)

	newID, err := f.env.Engine.Config(successorParams(f, 250_000))
	require.NoError(t, err)

	_, err = f.env.Engine.Rollover(f.id, newID, f.authority)
	assert.ErrorIs(t, err, so.ErrRolloverReversible)
}

func TestRolloverUnauthorized(t *testing.T) {
	f := newFixture(t, false)
	f.env.Clock.Advance(2 * time.Hour)

	newID, err := f.env.Engine.Config(successorParams(f, 250_000))
	require.NoError(t, err)

	_, err = f.env.Engine.Rollover(f.id, newID, f.buyer)
	assert.ErrorIs(t, err, so.ErrUnauthorized)
}
