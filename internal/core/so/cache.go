package so

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// SaleCache is an LRU cache of sale records keyed by their ledger address.
// Only the committed read APIs consult it; operations always read through
// their overlay and invalidate the entry on commit.
type SaleCache struct {
	entries *lru.Cache[[32]byte, SaleState]
}

// NewSaleCache creates a cache holding up to size sale records.
func NewSaleCache(size int) (*SaleCache, error) {
	entries, err := lru.New[[32]byte, SaleState](size)
	if err != nil {
		return nil, err
	}
	return &SaleCache{entries: entries}, nil
}

func (c *SaleCache) get(id SaleID) (*SaleState, bool) {
	state, ok := c.entries.Get(id.Keylet().Key)
	if !ok {
		return nil, false
	}
	return copySale(&state), true
}

func (c *SaleCache) put(sale *SaleState) {
	c.entries.Add(sale.ID.Keylet().Key, *copySale(sale))
}

// Invalidate drops the cached record for a sale.
func (c *SaleCache) Invalidate(id SaleID) {
	c.entries.Remove(id.Keylet().Key)
}

// Len reports the number of cached sales.
func (c *SaleCache) Len() int { return c.entries.Len() }

// copySale clones a sale so cached state never aliases caller state.
func copySale(sale *SaleState) *SaleState {
	out := *sale
	out.Strikes = append([]uint64(nil), sale.Strikes...)
	return &out
}
