// Package so implements the staking-options lifecycle engine: sale
// configuration, strike registration, option issuance, exercise (plain and
// reversible), time-gated vesting withdrawal and rollover, all as atomic
// transitions over a keyed ledger view.
//
// The engine performs no internal locking and no I/O of its own. The host
// serializes operations per sale; concurrent operations against different
// sales are independent. Each operation reads the clock exactly once and
// either commits in full or leaves the ledger untouched.
package so

import (
	"time"

	"github.com/dual-finance/soengine/internal/identity"
)

// Clock supplies the single time reading each operation uses.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Recorder receives one entry per committed operation. A nil recorder
// disables journaling. Rejected operations are never recorded.
type Recorder interface {
	Record(at time.Time, op, sale, actor string, amount uint64) error
}

// Engine applies staking-options operations to a ledger view.
type Engine struct {
	view    LedgerView
	clock   Clock
	cache   *SaleCache
	journal Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock, primarily for tests.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithCache attaches an LRU cache used by the read APIs.
func WithCache(c *SaleCache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithJournal attaches an operation journal.
func WithJournal(r Recorder) Option {
	return func(e *Engine) { e.journal = r }
}

// NewEngine creates an engine over the given ledger view.
func NewEngine(view LedgerView, opts ...Option) *Engine {
	e := &Engine{view: view, clock: SystemClock{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// run executes one operation: a fresh overlay, a single clock reading, and a
// commit only when the operation body succeeds.
func (e *Engine) run(op, actor string, id SaleID, fn func(t *applyTable, now uint64) (uint64, error)) error {
	at := e.clock.Now()
	t := newApplyTable(e.view)

	amount, err := fn(t, uint64(at.Unix()))
	if err != nil {
		return err
	}
	if err := t.Apply(); err != nil {
		return err
	}
	if e.cache != nil {
		e.cache.Invalidate(id)
	}
	if e.journal != nil {
		// State is committed at this point; a journal failure surfaces to
		// the caller but does not undo the operation.
		return e.journal.Record(at, op, id.String(), actor, amount)
	}
	return nil
}

func loadSale(v LedgerView, id SaleID) (*SaleState, error) {
	data, err := v.Read(id.Keylet())
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrSaleNotFound
	}
	var sale SaleState
	if err := decodeRecord(data, recSale, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

func storeSale(v LedgerView, sale *SaleState) error {
	data, err := encodeRecord(recSale, sale)
	if err != nil {
		return err
	}
	return v.Update(sale.ID.Keylet(), data)
}

func insertSale(v LedgerView, sale *SaleState) error {
	data, err := encodeRecord(recSale, sale)
	if err != nil {
		return err
	}
	return v.Insert(sale.ID.Keylet(), data)
}

// Balance reports a holder's committed balance of an asset. Vault and fee
// collector balances are reachable through the keylet-derived principals.
func (e *Engine) Balance(asset identity.AssetID, holder identity.AccountID) (uint64, error) {
	return readBalance(e.view, asset, holder)
}

// Supply reports the committed outstanding supply of a derived asset.
func (e *Engine) Supply(asset identity.AssetID) (uint64, error) {
	return readSupply(e.view, asset)
}
