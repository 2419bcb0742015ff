package so

import (
	"fmt"
	"sort"

	"github.com/dual-finance/soengine/internal/core/keylet"
)

// Sale returns the committed state of a sale.
func (e *Engine) Sale(id SaleID) (*SaleState, error) {
	if e.cache != nil {
		if sale, ok := e.cache.get(id); ok {
			return sale, nil
		}
	}
	sale, err := loadSale(e.view, id)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.put(sale)
	}
	return sale, nil
}

// Sales scans the ledger for every live sale, ordered by identity.
func (e *Engine) Sales() ([]SaleState, error) {
	var sales []SaleState
	var scanErr error
	err := e.view.ForEach(func(key [32]byte, data []byte) bool {
		code, ok := recordType(data)
		if !ok || code != recSale {
			return true
		}
		var sale SaleState
		if err := decodeRecord(data, recSale, &sale); err != nil {
			scanErr = err
			return false
		}
		sales = append(sales, sale)
		return true
	})
	if err != nil {
		return nil, err
	}
	if scanErr != nil {
		return nil, scanErr
	}
	sort.Slice(sales, func(i, j int) bool {
		return sales[i].ID.String() < sales[j].ID.String()
	})
	return sales, nil
}

// VerifySale audits the accounting invariants of one sale against committed
// state and reports the first violation found.
func (e *Engine) VerifySale(id SaleID) error {
	sale, err := loadSale(e.view, id)
	if err != nil {
		return err
	}
	if sale.SubscriptionPeriodEnd > sale.OptionExpiration {
		return fmt.Errorf("sale %s: subscription end %d after expiration %d",
			id, sale.SubscriptionPeriodEnd, sale.OptionExpiration)
	}
	if sale.LotSize == 0 {
		return fmt.Errorf("sale %s: zero lot size", id)
	}

	seen := make(map[uint64]struct{}, len(sale.Strikes))
	for _, strike := range sale.Strikes {
		if _, dup := seen[strike]; dup {
			return fmt.Errorf("sale %s: duplicate strike %d", id, strike)
		}
		seen[strike] = struct{}{}
	}

	// Every outstanding option token must still be collateralized until
	// expiration releases the obligation.
	now := uint64(e.clock.Now().Unix())
	if now < sale.OptionExpiration {
		saleKey := id.Keylet().Key
		var owed uint64
		for _, strike := range sale.Strikes {
			supply, err := readSupply(e.view, keylet.OptionAsset(saleKey, strike))
			if err != nil {
				return err
			}
			lots, err := mulLots(supply, sale.LotSize)
			if err != nil {
				return fmt.Errorf("sale %s: strike %d: %w", id, strike, err)
			}
			owed += lots
		}
		vaultBal, err := readBalance(e.view, id.Base, keylet.VaultAccount(id.Keylet().Key))
		if err != nil {
			return err
		}
		if vaultBal < owed {
			return fmt.Errorf("sale %s: vault holds %d base atoms, %d owed to outstanding options",
				id, vaultBal, owed)
		}
		if vaultBal+sale.Withdrawn < sale.OptionsAvailable {
			return fmt.Errorf("sale %s: options available %d exceed vault balance %d plus withdrawn %d",
				id, sale.OptionsAvailable, vaultBal, sale.Withdrawn)
		}
	}
	return nil
}
