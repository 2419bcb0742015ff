package so

import (
	"github.com/dual-finance/soengine/internal/core/keylet"
	"github.com/dual-finance/soengine/internal/identity"
)

// Withdraw releases unsold collateral to the sale authority under the
// vesting schedule: nothing before the subscription period ends, the unsold
// remainder unlocking linearly until expiration, and the entire remaining
// vault balance once expired. Cumulative withdrawals are tracked on the sale
// so a repeated call at the same timestamp is a zero-amount no-op. When the
// vault reaches zero after expiration the sale record is erased.
//
// The amount released by this call is returned.
func (e *Engine) Withdraw(id SaleID, caller identity.AccountID) (uint64, error) {
	var released uint64
	err := e.run("withdraw", caller.String(), id, func(t *applyTable, now uint64) (uint64, error) {
		sale, err := loadSale(t, id)
		if err != nil {
			return 0, err
		}
		if caller != sale.Authority {
			return 0, ErrUnauthorized
		}
		released, err = withdrawBase(t, sale, now)
		return released, err
	})
	return released, err
}

// WithdrawAll is the reversible-sale variant: it releases the vested base
// like Withdraw and, once the sale has expired, additionally drains the
// quote vault, skimming the protocol fee and sending the remainder to the
// sale's proceeds account.
func (e *Engine) WithdrawAll(id SaleID, caller identity.AccountID) (baseOut, quoteOut uint64, err error) {
	err = e.run("withdraw_all", caller.String(), id, func(t *applyTable, now uint64) (uint64, error) {
		sale, err := loadSale(t, id)
		if err != nil {
			return 0, err
		}
		if caller != sale.Authority {
			return 0, ErrUnauthorized
		}
		if !sale.Reversible {
			return 0, ErrNotReversible
		}
		if now < sale.OptionExpiration {
			return 0, ErrSaleNotYetExpired
		}

		vault := keylet.VaultAccount(id.Keylet().Key)
		quoteBal, err := readBalance(t, sale.QuoteAsset, vault)
		if err != nil {
			return 0, err
		}
		if quoteBal > 0 {
			fee, net := splitFee(quoteBal)
			if err := debitVault(t, sale.QuoteAsset, vault, quoteBal); err != nil {
				return 0, err
			}
			if err := creditToken(t, sale.QuoteAsset, keylet.FeeCollector(sale.QuoteAsset), fee); err != nil {
				return 0, err
			}
			if err := creditToken(t, sale.QuoteAsset, sale.QuoteProceeds, net); err != nil {
				return 0, err
			}
			quoteOut = net
		}

		baseOut, err = withdrawBase(t, sale, now)
		if err != nil {
			return 0, err
		}
		return baseOut + quoteOut, nil
	})
	if err != nil {
		return 0, 0, err
	}
	return baseOut, quoteOut, nil
}

// withdrawBase applies the vesting schedule against the vault's base
// balance and erases the sale once it is fully drained after expiration. A
// reversible sale whose quote vault still holds exercise proceeds is kept
// alive, so WithdrawAll can still drain it.
func withdrawBase(t *applyTable, sale *SaleState, now uint64) (uint64, error) {
	if now < sale.SubscriptionPeriodEnd {
		return 0, ErrVestingNotStarted
	}

	vault := keylet.VaultAccount(sale.ID.Keylet().Key)
	vaultBal, err := readBalance(t, sale.ID.Base, vault)
	if err != nil {
		return 0, err
	}

	var due uint64
	if now >= sale.OptionExpiration {
		// Past expiration nothing can be exercised; everything left in the
		// vault belongs to the authority.
		due = vaultBal
	} else {
		unlocked, err := vestedAmount(sale, now)
		if err != nil {
			return 0, err
		}
		if unlocked > sale.Withdrawn {
			due = unlocked - sale.Withdrawn
		}
		if due > vaultBal {
			due = vaultBal
		}
	}

	if due > 0 {
		if err := debitVault(t, sale.ID.Base, vault, due); err != nil {
			return 0, err
		}
		if err := creditToken(t, sale.ID.Base, sale.Authority, due); err != nil {
			return 0, err
		}
		sale.Withdrawn += due
		vaultBal -= due
	}

	if now >= sale.OptionExpiration && vaultBal == 0 {
		if sale.Reversible {
			quoteBal, err := readBalance(t, sale.QuoteAsset, vault)
			if err != nil {
				return 0, err
			}
			if quoteBal > 0 {
				return due, storeSale(t, sale)
			}
		}
		return due, t.Erase(sale.ID.Keylet())
	}
	return due, storeSale(t, sale)
}

// vestedAmount computes the unsold collateral unlocked at a moment strictly
// between subscription end and expiration. OptionsAvailable is frozen once
// the subscription window closes (issuance is no longer possible), so it is
// exactly the unsold remainder the schedule runs over.
func vestedAmount(sale *SaleState, now uint64) (uint64, error) {
	span := sale.OptionExpiration - sale.SubscriptionPeriodEnd
	elapsed := now - sale.SubscriptionPeriodEnd
	return mulDiv(sale.OptionsAvailable, elapsed, span)
}
