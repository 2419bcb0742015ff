package so

import (
	"github.com/dual-finance/soengine/internal/core/keylet"
	"github.com/dual-finance/soengine/internal/identity"
)

// Rollover moves the residual collateral of an expired sale into a freshly
// configured successor with the same base asset and authority, raising the
// successor's availability by the rolled amount, and closes the old sale.
// Reversible sales cannot be rolled over; their quote vault and holdings are
// settled through WithdrawAll and SettleHolding instead.
//
// The rolled base amount is returned.
func (e *Engine) Rollover(oldID, newID SaleID, caller identity.AccountID) (uint64, error) {
	var rolled uint64
	err := e.run("rollover", caller.String(), oldID, func(t *applyTable, now uint64) (uint64, error) {
		oldSale, err := loadSale(t, oldID)
		if err != nil {
			return 0, err
		}
		newSale, err := loadSale(t, newID)
		if err != nil {
			return 0, err
		}
		if caller != oldSale.Authority {
			return 0, ErrUnauthorized
		}
		if oldSale.Reversible {
			return 0, ErrRolloverReversible
		}
		if oldID == newID {
			return 0, ErrRolloverSameSale
		}
		if newID.Base != oldID.Base || newSale.Authority != oldSale.Authority {
			return 0, ErrRolloverMismatch
		}
		if now < oldSale.OptionExpiration {
			return 0, ErrSaleNotYetExpired
		}
		// The successor must still be in its subscription window; rolling
		// into a sale that is itself vesting or expired makes no sense.
		if now >= newSale.SubscriptionPeriodEnd {
			return 0, ErrSubscriptionClosed
		}

		oldVault := keylet.VaultAccount(oldID.Keylet().Key)
		newVault := keylet.VaultAccount(newID.Keylet().Key)
		rolled, err = readBalance(t, oldID.Base, oldVault)
		if err != nil {
			return 0, err
		}
		if rolled > 0 {
			if err := transferToken(t, oldID.Base, oldVault, newVault, rolled); err != nil {
				return 0, err
			}
			newSale.OptionsAvailable += rolled
			if err := storeSale(t, newSale); err != nil {
				return 0, err
			}
		}
		return rolled, t.Erase(oldID.Keylet())
	})
	if err != nil {
		return 0, err
	}
	return rolled, nil
}
