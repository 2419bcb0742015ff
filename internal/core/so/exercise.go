package so

import (
	"fmt"

	"github.com/dual-finance/soengine/internal/core/keylet"
	"github.com/dual-finance/soengine/internal/identity"
)

// Exercise redeems lots option tokens at a strike before expiration. The
// caller burns the tokens, pays lots*lotSize*strike quote atoms (split
// between the fee collector and the sale's proceeds account) and receives
// lots*lotSize base atoms out of the vault.
func (e *Engine) Exercise(id SaleID, caller identity.AccountID, strike, lots uint64) error {
	return e.run("exercise", caller.String(), id, func(t *applyTable, now uint64) (uint64, error) {
		sale, err := loadSale(t, id)
		if err != nil {
			return 0, err
		}
		baseOwed, quoteOwed, err := exerciseChecks(t, sale, caller, strike, lots, now)
		if err != nil {
			return 0, err
		}
		saleKey := id.Keylet().Key

		if err := burnToken(t, keylet.OptionAsset(saleKey, strike), caller, lots); err != nil {
			return 0, err
		}

		fee, net := splitFee(quoteOwed)
		if err := debitToken(t, sale.QuoteAsset, caller, quoteOwed); err != nil {
			return 0, err
		}
		if err := creditToken(t, sale.QuoteAsset, keylet.FeeCollector(sale.QuoteAsset), fee); err != nil {
			return 0, err
		}
		if err := creditToken(t, sale.QuoteAsset, sale.QuoteProceeds, net); err != nil {
			return 0, err
		}

		vault := keylet.VaultAccount(saleKey)
		if err := debitVault(t, id.Base, vault, baseOwed); err != nil {
			return 0, err
		}
		return baseOwed, creditToken(t, id.Base, caller, baseOwed)
	})
}

// ExerciseReversible redeems like Exercise but keeps the trade open: the
// full quote payment accumulates in the sale's quote vault (fees are skimmed
// at WithdrawAll, not here, so a later reversal refunds exactly what was
// paid), the base owed is parked in a per-holder holding instead of being
// released, and the caller receives lots reverse tokens recording the undo
// right.
func (e *Engine) ExerciseReversible(id SaleID, caller identity.AccountID, strike, lots uint64) error {
	return e.run("exercise_reversible", caller.String(), id, func(t *applyTable, now uint64) (uint64, error) {
		sale, err := loadSale(t, id)
		if err != nil {
			return 0, err
		}
		if !sale.Reversible {
			return 0, ErrNotReversible
		}
		baseOwed, quoteOwed, err := exerciseChecks(t, sale, caller, strike, lots, now)
		if err != nil {
			return 0, err
		}
		saleKey := id.Keylet().Key
		vault := keylet.VaultAccount(saleKey)

		if err := burnToken(t, keylet.OptionAsset(saleKey, strike), caller, lots); err != nil {
			return 0, err
		}
		if err := transferToken(t, sale.QuoteAsset, caller, vault, quoteOwed); err != nil {
			return 0, err
		}
		if err := debitVault(t, id.Base, vault, baseOwed); err != nil {
			return 0, err
		}
		if err := addToHolding(t, sale, strike, caller, baseOwed); err != nil {
			return 0, err
		}
		return baseOwed, mintToken(t, keylet.ReverseAsset(saleKey, strike), caller, lots)
	})
}

// ReverseExercise unwinds up to lots of a prior reversible exercise before
// expiration. The reverse tokens burn, the pro-rata base returns from the
// holding to the vault, the pro-rata quote refunds from the quote vault, and
// the caller gets the corresponding option tokens back, so exercising L lots
// and reversing k leaves the books as if only L-k had been exercised.
func (e *Engine) ReverseExercise(id SaleID, caller identity.AccountID, strike, lots uint64) error {
	return e.run("reverse_exercise", caller.String(), id, func(t *applyTable, now uint64) (uint64, error) {
		sale, err := loadSale(t, id)
		if err != nil {
			return 0, err
		}
		if !sale.Reversible {
			return 0, ErrNotReversible
		}
		if now >= sale.OptionExpiration {
			return 0, ErrStrikeExpired
		}
		if !sale.HasStrike(strike) {
			return 0, ErrStrikeNotFound
		}
		if lots == 0 {
			return 0, ErrZeroAmount
		}
		saleKey := id.Keylet().Key
		reverseAsset := keylet.ReverseAsset(saleKey, strike)

		balance, err := readBalance(t, reverseAsset, caller)
		if err != nil {
			return 0, err
		}
		if balance < lots {
			return 0, ErrInsufficientReverseTokens
		}
		if err := burnToken(t, reverseAsset, caller, lots); err != nil {
			return 0, err
		}

		baseBack, err := mulLots(lots, sale.LotSize)
		if err != nil {
			return 0, err
		}
		quoteBack, err := mulLots(baseBack, strike)
		if err != nil {
			return 0, err
		}

		vault := keylet.VaultAccount(saleKey)
		if err := takeFromHolding(t, sale, strike, caller, baseBack); err != nil {
			return 0, err
		}
		if err := creditToken(t, id.Base, vault, baseBack); err != nil {
			return 0, err
		}
		if err := debitVault(t, sale.QuoteAsset, vault, quoteBack); err != nil {
			return 0, err
		}
		if err := creditToken(t, sale.QuoteAsset, caller, quoteBack); err != nil {
			return 0, err
		}
		return baseBack, mintToken(t, keylet.OptionAsset(saleKey, strike), caller, lots)
	})
}

// SettleHolding releases a holder's parked base once the sale has expired
// and voids their remaining reverse tokens for the strike. It works from the
// holding record alone, so it remains callable after the sale itself has
// been withdrawn and erased.
func (e *Engine) SettleHolding(id SaleID, holder identity.AccountID, strike uint64) error {
	return e.run("settle_holding", holder.String(), id, func(t *applyTable, now uint64) (uint64, error) {
		saleKey := id.Keylet().Key
		data, err := t.Read(keylet.Holding(saleKey, strike, holder))
		if err != nil {
			return 0, err
		}
		if data == nil {
			return 0, ErrHoldingNotFound
		}
		var holding HoldingState
		if err := decodeRecord(data, recHolding, &holding); err != nil {
			return 0, err
		}
		if now < holding.Expiration {
			return 0, ErrSaleNotYetExpired
		}

		if err := creditToken(t, holding.Base, holder, holding.Amount); err != nil {
			return 0, err
		}
		if err := t.Erase(keylet.Holding(saleKey, strike, holder)); err != nil {
			return 0, err
		}

		// The undo right died with the expiration.
		reverseAsset := keylet.ReverseAsset(saleKey, strike)
		remaining, err := readBalance(t, reverseAsset, holder)
		if err != nil {
			return 0, err
		}
		if remaining > 0 {
			if err := burnToken(t, reverseAsset, holder, remaining); err != nil {
				return 0, err
			}
		}
		return holding.Amount, nil
	})
}

// exerciseChecks validates the shared preconditions of both exercise paths
// and computes the base and quote legs.
func exerciseChecks(t *applyTable, sale *SaleState, caller identity.AccountID, strike, lots, now uint64) (baseOwed, quoteOwed uint64, err error) {
	if now >= sale.OptionExpiration {
		return 0, 0, ErrStrikeExpired
	}
	if !sale.HasStrike(strike) {
		return 0, 0, ErrStrikeNotFound
	}
	if lots == 0 {
		return 0, 0, ErrZeroAmount
	}

	optionAsset := keylet.OptionAsset(sale.ID.Keylet().Key, strike)
	balance, err := readBalance(t, optionAsset, caller)
	if err != nil {
		return 0, 0, err
	}
	if balance < lots {
		return 0, 0, ErrInsufficientOptionTokens
	}

	baseOwed, err = mulLots(lots, sale.LotSize)
	if err != nil {
		return 0, 0, err
	}
	quoteOwed, err = mulLots(baseOwed, strike)
	if err != nil {
		return 0, 0, err
	}
	return baseOwed, quoteOwed, nil
}

// debitVault debits an escrow balance, translating shortfalls into the
// vault-specific sentinel.
func debitVault(t *applyTable, asset identity.AssetID, vault identity.AccountID, amount uint64) error {
	if err := debitToken(t, asset, vault, amount); err != nil {
		if err == ErrInsufficientFunds {
			return ErrInsufficientVaultBalance
		}
		return err
	}
	return nil
}

func addToHolding(t *applyTable, sale *SaleState, strike uint64, holder identity.AccountID, amount uint64) error {
	k := keylet.Holding(sale.ID.Keylet().Key, strike, holder)
	holding := HoldingState{Base: sale.ID.Base, Expiration: sale.OptionExpiration}
	data, err := t.Read(k)
	if err != nil {
		return err
	}
	if data != nil {
		if err := decodeRecord(data, recHolding, &holding); err != nil {
			return err
		}
	}
	holding.Amount += amount
	out, err := encodeRecord(recHolding, &holding)
	if err != nil {
		return err
	}
	return t.Update(k, out)
}

func takeFromHolding(t *applyTable, sale *SaleState, strike uint64, holder identity.AccountID, amount uint64) error {
	k := keylet.Holding(sale.ID.Keylet().Key, strike, holder)
	data, err := t.Read(k)
	if err != nil {
		return err
	}
	if data == nil {
		return ErrHoldingNotFound
	}
	var holding HoldingState
	if err := decodeRecord(data, recHolding, &holding); err != nil {
		return err
	}
	if holding.Amount < amount {
		// Reverse supply and holdings move in lockstep; a shortfall here
		// means corrupted state, not caller error.
		return fmt.Errorf("holding underflow: have %d, need %d", holding.Amount, amount)
	}
	holding.Amount -= amount
	if holding.Amount == 0 {
		return t.Erase(k)
	}
	out, err := encodeRecord(recHolding, &holding)
	if err != nil {
		return err
	}
	return t.Update(k, out)
}
