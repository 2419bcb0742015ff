// Package testing provides a self-contained engine environment for tests:
// an in-memory ledger, a manual clock and named principals.
package testing

import (
	"context"
	"testing"
	"time"

	"github.com/dual-finance/soengine/internal/core/so"
	"github.com/dual-finance/soengine/internal/identity"
	"github.com/dual-finance/soengine/internal/storage/keyvaluedb"
	"github.com/stretchr/testify/require"
)

// Env manages a test engine environment: an engine over an in-memory
// ledger, driven by a manual clock, with principals and assets derived from
// human-readable names.
type Env struct {
	T      *testing.T
	Clock  *ManualClock
	Engine *so.Engine
	DB     *keyvaluedb.Memory
}

// NewEnv creates a fresh environment. The database closes when the test
// finishes.
func NewEnv(t *testing.T, opts ...so.Option) *Env {
	t.Helper()

	db := keyvaluedb.NewMemory()
	t.Cleanup(func() { db.Close() })

	clock := NewManualClock()
	view := so.NewKVView(context.Background(), db)
	opts = append([]so.Option{so.WithClock(clock)}, opts...)

	return &Env{
		T:      t,
		Clock:  clock,
		Engine: so.NewEngine(view, opts...),
		DB:     db,
	}
}

// Account derives a principal from a human-readable name.
func (e *Env) Account(name string) identity.AccountID {
	return identity.AccountIDFromPublicKey([]byte(name))
}

// Asset derives an asset from a human-readable name.
func (e *Env) Asset(name string) identity.AssetID {
	return identity.AssetIDFromPublicKey([]byte(name))
}

// Fund credits a holder with atoms of an asset, failing the test on error.
func (e *Env) Fund(asset identity.AssetID, holder identity.AccountID, amount uint64) {
	e.T.Helper()
	require.NoError(e.T, e.Engine.Deposit(asset, holder, amount))
}

// Balance reads a committed balance, failing the test on error.
func (e *Env) Balance(asset identity.AssetID, holder identity.AccountID) uint64 {
	e.T.Helper()
	balance, err := e.Engine.Balance(asset, holder)
	require.NoError(e.T, err)
	return balance
}

// Now returns the clock reading as unix seconds, the unit the engine's
// schedules use.
func (e *Env) Now() uint64 {
	return uint64(e.Clock.Now().Unix())
}

// In returns a unix timestamp d from now on the manual clock.
func (e *Env) In(d time.Duration) uint64 {
	return uint64(e.Clock.Now().Add(d).Unix())
}
