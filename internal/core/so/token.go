package so

import (
	"fmt"
	"math/bits"

	"github.com/dual-finance/soengine/internal/core/keylet"
	"github.com/dual-finance/soengine/internal/identity"
)

// Token primitives. Balances live in TokenAccount entries keyed by
// (asset, holder); derived assets additionally track outstanding supply in a
// Mint entry. All mutations go through the operation's applyTable, so they
// commit or vanish together with the rest of the transition.

func readBalance(v LedgerView, asset identity.AssetID, holder identity.AccountID) (uint64, error) {
	data, err := v.Read(keylet.TokenAccount(asset, holder))
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, nil
	}
	var acct TokenAccountState
	if err := decodeRecord(data, recTokenAccount, &acct); err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

func writeBalance(v LedgerView, asset identity.AssetID, holder identity.AccountID, balance uint64) error {
	data, err := encodeRecord(recTokenAccount, &TokenAccountState{
		Asset:   asset,
		Holder:  holder,
		Balance: balance,
	})
	if err != nil {
		return err
	}
	return v.Update(keylet.TokenAccount(asset, holder), data)
}

func creditToken(v LedgerView, asset identity.AssetID, holder identity.AccountID, amount uint64) error {
	balance, err := readBalance(v, asset, holder)
	if err != nil {
		return err
	}
	sum, carry := bits.Add64(balance, amount, 0)
	if carry != 0 {
		return ErrAmountOverflow
	}
	return writeBalance(v, asset, holder, sum)
}

func debitToken(v LedgerView, asset identity.AssetID, holder identity.AccountID, amount uint64) error {
	balance, err := readBalance(v, asset, holder)
	if err != nil {
		return err
	}
	if balance < amount {
		return ErrInsufficientFunds
	}
	return writeBalance(v, asset, holder, balance-amount)
}

func transferToken(v LedgerView, asset identity.AssetID, from, to identity.AccountID, amount uint64) error {
	if err := debitToken(v, asset, from, amount); err != nil {
		return err
	}
	return creditToken(v, asset, to, amount)
}

func readSupply(v LedgerView, asset identity.AssetID) (uint64, error) {
	data, err := v.Read(keylet.Mint(asset))
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, nil
	}
	var mint MintState
	if err := decodeRecord(data, recMint, &mint); err != nil {
		return 0, err
	}
	return mint.Supply, nil
}

func writeSupply(v LedgerView, asset identity.AssetID, supply uint64) error {
	data, err := encodeRecord(recMint, &MintState{Asset: asset, Supply: supply})
	if err != nil {
		return err
	}
	return v.Update(keylet.Mint(asset), data)
}

// mintToken creates amount units of a derived asset in the holder's account
// and raises the outstanding supply.
func mintToken(v LedgerView, asset identity.AssetID, holder identity.AccountID, amount uint64) error {
	supply, err := readSupply(v, asset)
	if err != nil {
		return err
	}
	sum, carry := bits.Add64(supply, amount, 0)
	if carry != 0 {
		return ErrAmountOverflow
	}
	if err := writeSupply(v, asset, sum); err != nil {
		return err
	}
	return creditToken(v, asset, holder, amount)
}

// burnToken destroys amount units from the holder's account and lowers the
// outstanding supply. Callers check the holder balance first so they can
// reject with their own sentinel.
func burnToken(v LedgerView, asset identity.AssetID, holder identity.AccountID, amount uint64) error {
	if err := debitToken(v, asset, holder, amount); err != nil {
		return err
	}
	supply, err := readSupply(v, asset)
	if err != nil {
		return err
	}
	if supply < amount {
		return fmt.Errorf("supply underflow for asset %s", asset)
	}
	return writeSupply(v, asset, supply-amount)
}

// mulLots multiplies without silent wrap-around.
func mulLots(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrAmountOverflow
	}
	return lo, nil
}

// mulDiv computes a*b/den with a 128-bit intermediate.
func mulDiv(a, b, den uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if den == 0 || hi >= den {
		return 0, ErrAmountOverflow
	}
	quo, _ := bits.Div64(hi, lo, den)
	return quo, nil
}
