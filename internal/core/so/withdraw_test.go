package so_test

import (
	"testing"
	"time"

	"github.com/dual-finance/soengine/internal/core/so"
	sotesting "github.com/dual-finance/soengine/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vestingFixture configures a sale with the 50s/100s schedule and a
// 9*10^8 atom remainder.
func vestingFixture(t *testing.T) *fixture {
	t.Helper()
	env := sotesting.NewEnv(t)
	f := &fixture{
		env:       env,
		authority: env.Account("authority"),
		base:      env.Asset("base"),
		quote:     env.Asset("quote"),
	}
	const remainder = 900_000_000
	env.Fund(f.base, f.authority, remainder)

	params := defaultParams(env, f)
	params.SubscriptionPeriodEnd = env.In(50 * time.Second)
	params.OptionExpiration = env.In(100 * time.Second)
	params.NumTokens = remainder
	var err error
	f.id, err = env.Engine.Config(params)
	require.NoError(t, err)
	return f
}

func TestWithdrawBeforeVestingStarts(t *testing.T) {
	f := vestingFixture(t)
	_, err := f.env.Engine.Withdraw(f.id, f.authority)
	assert.ErrorIs(t, err, so.ErrVestingNotStarted)
}

func TestWithdrawLinearSchedule(t *testing.T) {
	f := vestingFixture(t)
	const remainder = uint64(900_000_000)

	// At exactly the subscription boundary nothing has unlocked yet.
	f.env.Clock.Advance(50 * time.Second)
	released, err := f.env.Engine.Withdraw(f.id, f.authority)
	require.NoError(t, err)
	assert.Zero(t, released)

	// Halfway through the window half the remainder is unlocked.
	f.env.Clock.Advance(25 * time.Second)
	released, err = f.env.Engine.Withdraw(f.id, f.authority)
	require.NoError(t, err)
	assert.Equal(t, remainder/2, released)
	assert.Equal(t, remainder/2, f.env.Balance(f.base, f.authority))

	// Same timestamp, nothing further.
	released, err = f.env.Engine.Withdraw(f.id, f.authority)
	require.NoError(t, err)
	assert.Zero(t, released)

	// At expiration the rest comes out and the sale is gone.
	f.env.Clock.Advance(25 * time.Second)
	released, err = f.env.Engine.Withdraw(f.id, f.authority)
	require.NoError(t, err)
	assert.Equal(t, remainder/2, released)
	assert.Equal(t, remainder, f.env.Balance(f.base, f.authority))

	_, err = f.env.Engine.Sale(f.id)
	assert.ErrorIs(t, err, so.ErrSaleNotFound)
}

func TestWithdrawIncrementalDeltas(t *testing.T) {
	f := vestingFixture(t)
	const remainder = uint64(900_000_000)

	f.env.Clock.Advance(60 * time.Second) // 10s into a 50s window
	first, err := f.env.Engine.Withdraw(f.id, f.authority)
	require.NoError(t, err)
	assert.Equal(t, remainder/5, first)

	f.env.Clock.Advance(10 * time.Second) // 20s in
	second, err := f.env.Engine.Withdraw(f.id, f.authority)
	require.NoError(t, err)
	assert.Equal(t, remainder/5, second, "only the incremental unlock is released")
}

func TestWithdrawUnauthorized(t *testing.T) {
	f := vestingFixture(t)
	f.env.Clock.Advance(2 * time.Hour)

	_, err := f.env.Engine.Withdraw(f.id, f.env.Account("stranger"))
	assert.ErrorIs(t, err, so.ErrUnauthorized)
}

func TestWithdrawLeavesIssuedCollateral(t *testing.T) {
	f := vestingFixture(t)
	const issued = 100_000_000 // backs 1_000_000 lots

	require.NoError(t, f.env.Engine.InitStrike(f.id, f.authority, 3))
	require.NoError(t, f.env.Engine.Issue(f.id, f.authority, 3, issued, f.env.Account("buyer")))

	// Issuance shrinks the unsold remainder the schedule runs over.
	f.env.Clock.Advance(75 * time.Second)
	released, err := f.env.Engine.Withdraw(f.id, f.authority)
	require.NoError(t, err)
	assert.Equal(t, uint64(900_000_000-issued)/2, released)

	require.NoError(t, f.env.Engine.VerifySale(f.id))
}
