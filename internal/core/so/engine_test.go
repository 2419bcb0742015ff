package so_test

import (
	"testing"
	"time"

	"github.com/dual-finance/soengine/internal/core/keylet"
	"github.com/dual-finance/soengine/internal/core/so"
	sotesting "github.com/dual-finance/soengine/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedOp struct {
	op     string
	sale   string
	actor  string
	amount uint64
}

type fakeRecorder struct {
	entries []recordedOp
}

func (r *fakeRecorder) Record(at time.Time, op, sale, actor string, amount uint64) error {
	r.entries = append(r.entries, recordedOp{op: op, sale: sale, actor: actor, amount: amount})
	return nil
}

func TestJournalRecordsCommittedOperationsOnly(t *testing.T) {
	rec := &fakeRecorder{}
	env := sotesting.NewEnv(t, so.WithJournal(rec))
	f := &fixture{
		env:       env,
		authority: env.Account("authority"),
		buyer:     env.Account("buyer"),
		base:      env.Asset("base"),
		quote:     env.Asset("quote"),
	}
	env.Fund(f.base, f.authority, fundBase)

	var err error
	f.id, err = env.Engine.Config(defaultParams(env, f))
	require.NoError(t, err)
	require.NoError(t, env.Engine.InitStrike(f.id, f.authority, 3))

	// A rejected operation leaves no journal entry.
	err = env.Engine.Issue(f.id, f.buyer, 3, lotSize, f.buyer)
	require.ErrorIs(t, err, so.ErrUnauthorized)

	ops := make([]string, 0, len(rec.entries))
	for _, e := range rec.entries {
		ops = append(ops, e.op)
	}
	assert.Equal(t, []string{"deposit", "config", "init_strike"}, ops)

	cfg := rec.entries[1]
	assert.Equal(t, f.id.String(), cfg.sale)
	assert.Equal(t, f.authority.String(), cfg.actor)
	assert.Equal(t, uint64(numTokens), cfg.amount)
}

func TestSaleCacheInvalidation(t *testing.T) {
	cache, err := so.NewSaleCache(16)
	require.NoError(t, err)
	env := sotesting.NewEnv(t, so.WithCache(cache))
	f := &fixture{
		env:       env,
		authority: env.Account("authority"),
		base:      env.Asset("base"),
		quote:     env.Asset("quote"),
	}
	env.Fund(f.base, f.authority, fundBase)
	f.id, err = env.Engine.Config(defaultParams(env, f))
	require.NoError(t, err)

	before, err := env.Engine.Sale(f.id)
	require.NoError(t, err)
	assert.Empty(t, before.Strikes)
	assert.Equal(t, 1, cache.Len())

	require.NoError(t, env.Engine.InitStrike(f.id, f.authority, 3))

	after, err := env.Engine.Sale(f.id)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, after.Strikes, "commit invalidated the cached record")
	assert.Empty(t, before.Strikes, "earlier snapshot is unaffected")
}

func TestRejectedOperationIsAtomic(t *testing.T) {
	f := newFixture(t, false)
	const strike = 3
	f.issueTo(t, strike, 50_000, f.buyer)

	// Burn the buyer's quote funds down so the payment leg must fail after
	// the option burn would have succeeded.
	broke := f.env.Account("sink")
	saleKey := f.id.Keylet().Key
	vault := keylet.VaultAccount(saleKey)
	optionAsset := keylet.OptionAsset(saleKey, strike)

	beforeOptions := f.env.Balance(optionAsset, f.buyer)
	beforeVault := f.env.Balance(f.base, vault)
	beforeQuote := f.env.Balance(f.quote, broke)

	err := f.env.Engine.Exercise(f.id, broke, strike, 1)
	require.ErrorIs(t, err, so.ErrInsufficientOptionTokens)

	assert.Equal(t, beforeOptions, f.env.Balance(optionAsset, f.buyer))
	assert.Equal(t, beforeVault, f.env.Balance(f.base, vault))
	assert.Equal(t, beforeQuote, f.env.Balance(f.quote, broke))

	supply, err := f.env.Engine.Supply(optionAsset)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), supply)
}

func TestSalesScan(t *testing.T) {
	f := newFixture(t, false)

	params := defaultParams(f.env, f)
	params.Period = 2
	_, err := f.env.Engine.Config(params)
	require.NoError(t, err)

	sales, err := f.env.Engine.Sales()
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, uint64(1), sales[0].ID.Period)
	assert.Equal(t, uint64(2), sales[1].ID.Period)
}

func TestVerifySaleHealthy(t *testing.T) {
	f := newFixture(t, false)
	f.issueTo(t, 3, 50_000, f.buyer)
	require.NoError(t, f.env.Engine.VerifySale(f.id))
}
