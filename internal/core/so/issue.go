package so

import (
	"github.com/dual-finance/soengine/internal/core/keylet"
	"github.com/dual-finance/soengine/internal/identity"
)

// Issue mints option tokens for a registered strike against available
// collateral. The amount is expressed in base atoms and must be a whole
// number of lots; the destination receives amount/lotSize option tokens and
// the sale's availability drops by amount. Only the authority (or the
// dedicated issue authority) may issue, and only while the subscription
// window is open.
func (e *Engine) Issue(id SaleID, caller identity.AccountID, strike, amount uint64, destination identity.AccountID) error {
	return e.run("issue", caller.String(), id, func(t *applyTable, now uint64) (uint64, error) {
		sale, err := loadSale(t, id)
		if err != nil {
			return 0, err
		}
		if !sale.CanIssue(caller) {
			return 0, ErrUnauthorized
		}
		if now >= sale.SubscriptionPeriodEnd {
			return 0, ErrSubscriptionClosed
		}
		if !sale.HasStrike(strike) {
			return 0, ErrStrikeNotFound
		}
		if amount == 0 {
			return 0, ErrZeroAmount
		}
		if amount%sale.LotSize != 0 {
			return 0, ErrUnalignedAmount
		}
		if amount > sale.OptionsAvailable {
			return 0, ErrInsufficientOptionsAvailable
		}

		lots := amount / sale.LotSize
		optionAsset := keylet.OptionAsset(id.Keylet().Key, strike)
		if err := mintToken(t, optionAsset, destination, lots); err != nil {
			return 0, err
		}
		sale.OptionsAvailable -= amount
		return amount, storeSale(t, sale)
	})
}
