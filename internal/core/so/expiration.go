package so

import (
	"github.com/dual-finance/soengine/internal/core/keylet"
	"github.com/dual-finance/soengine/internal/identity"
)

// ModifyExpiration moves a sale's option expiration earlier. Acceleration
// is only safe when nobody else can be holding exercise rights, so the sale
// must have exactly one strike and the caller must hold the entire
// outstanding option supply. The subscription period end is clamped down to
// the new expiration to keep the schedule ordered.
func (e *Engine) ModifyExpiration(id SaleID, caller identity.AccountID, newExpiration uint64) error {
	return e.run("modify_expiration", caller.String(), id, func(t *applyTable, now uint64) (uint64, error) {
		sale, err := loadSale(t, id)
		if err != nil {
			return 0, err
		}
		if caller != sale.Authority {
			return 0, ErrUnauthorized
		}
		if newExpiration >= sale.OptionExpiration {
			return 0, ErrNotAccelerating
		}
		if newExpiration <= now {
			return 0, ErrSchedulePassed
		}
		if len(sale.Strikes) != 1 {
			return 0, ErrMultipleStrikes
		}

		optionAsset := keylet.OptionAsset(id.Keylet().Key, sale.Strikes[0])
		supply, err := readSupply(t, optionAsset)
		if err != nil {
			return 0, err
		}
		held, err := readBalance(t, optionAsset, caller)
		if err != nil {
			return 0, err
		}
		if held != supply {
			return 0, ErrSupplyNotHeld
		}

		sale.OptionExpiration = newExpiration
		if sale.SubscriptionPeriodEnd > newExpiration {
			sale.SubscriptionPeriodEnd = newExpiration
		}
		return newExpiration, storeSale(t, sale)
	})
}
