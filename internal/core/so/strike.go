package so

import (
	"github.com/dual-finance/soengine/internal/core/keylet"
	"github.com/dual-finance/soengine/internal/identity"
)

// InitStrike registers a strike price on a sale and allocates the option
// mint bound to it (plus the reverse mint for reversible sales). Strikes are
// quote atoms per base atom, unique per sale, appended in registration order.
func (e *Engine) InitStrike(id SaleID, caller identity.AccountID, strike uint64) error {
	return e.run("init_strike", caller.String(), id, func(t *applyTable, now uint64) (uint64, error) {
		sale, err := loadSale(t, id)
		if err != nil {
			return 0, err
		}
		if caller != sale.Authority {
			return 0, ErrUnauthorized
		}
		if now >= sale.OptionExpiration {
			return 0, ErrSaleExpired
		}
		if strike == 0 {
			return 0, ErrZeroStrike
		}
		if sale.HasStrike(strike) {
			return 0, ErrDuplicateStrike
		}
		if len(sale.Strikes) >= MaxStrikes {
			return 0, ErrTooManyStrikes
		}

		saleKey := id.Keylet().Key
		if err := writeSupply(t, keylet.OptionAsset(saleKey, strike), 0); err != nil {
			return 0, err
		}
		if sale.Reversible {
			if err := writeSupply(t, keylet.ReverseAsset(saleKey, strike), 0); err != nil {
				return 0, err
			}
		}

		sale.Strikes = append(sale.Strikes, strike)
		return strike, storeSale(t, sale)
	})
}
