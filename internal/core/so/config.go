package so

import (
	"github.com/dual-finance/soengine/internal/core/keylet"
	"github.com/dual-finance/soengine/internal/identity"
)

// MaxNameLen is the inclusive upper bound on a sale name, in bytes.
const MaxNameLen = 32

// MaxStrikes bounds the number of strikes registered on one sale.
const MaxStrikes = 100

// ConfigParams describes a new sale. NumTokens base atoms are moved from the
// authority's base token account into the sale vault at configure time.
type ConfigParams struct {
	Name           string
	Period         uint64
	Base           identity.AssetID
	Quote          identity.AssetID
	BaseDecimals   uint8
	QuoteDecimals  uint8
	Authority      identity.AccountID
	IssueAuthority identity.AccountID // optional; zero means authority only
	QuoteProceeds  identity.AccountID // receives net quote on exercise

	OptionExpiration      uint64
	SubscriptionPeriodEnd uint64
	NumTokens             uint64 // base atoms of collateral
	LotSize               uint64 // base atoms per option token
}

func (p *ConfigParams) validate(now uint64) error {
	if p.Name == "" {
		return ErrNameEmpty
	}
	if len(p.Name) > MaxNameLen {
		return ErrNameTooLong
	}
	if p.SubscriptionPeriodEnd > p.OptionExpiration {
		return ErrBadSchedule
	}
	if p.SubscriptionPeriodEnd <= now {
		return ErrSchedulePassed
	}
	if p.LotSize == 0 {
		return ErrZeroLotSize
	}
	if p.NumTokens == 0 {
		return ErrZeroAmount
	}
	return nil
}

// Config creates a sale: validates the parameters, writes the sale record
// and escrows the collateral in the sale vault.
func (e *Engine) Config(p ConfigParams) (SaleID, error) {
	return e.config(p, false)
}

// ConfigReversible creates a sale whose exercises can be unwound before
// expiration. Exercise proceeds accumulate in a quote vault instead of being
// paid out immediately; fees are skimmed when the vault is drained.
func (e *Engine) ConfigReversible(p ConfigParams) (SaleID, error) {
	return e.config(p, true)
}

func (e *Engine) config(p ConfigParams, reversible bool) (SaleID, error) {
	id := SaleID{Name: p.Name, Period: p.Period, Base: p.Base}

	err := e.run("config", p.Authority.String(), id, func(t *applyTable, now uint64) (uint64, error) {
		if err := p.validate(now); err != nil {
			return 0, err
		}
		if exists, err := t.Exists(id.Keylet()); err != nil {
			return 0, err
		} else if exists {
			return 0, ErrSaleExists
		}

		sale := &SaleState{
			ID:                    id,
			Authority:             p.Authority,
			IssueAuthority:        p.IssueAuthority,
			QuoteAsset:            p.Quote,
			QuoteProceeds:         p.QuoteProceeds,
			BaseDecimals:          p.BaseDecimals,
			QuoteDecimals:         p.QuoteDecimals,
			OptionsAvailable:      p.NumTokens,
			OptionExpiration:      p.OptionExpiration,
			SubscriptionPeriodEnd: p.SubscriptionPeriodEnd,
			LotSize:               p.LotSize,
			Reversible:            reversible,
		}
		if err := insertSale(t, sale); err != nil {
			return 0, err
		}

		vault := keylet.VaultAccount(id.Keylet().Key)
		if err := transferToken(t, p.Base, p.Authority, vault, p.NumTokens); err != nil {
			return 0, err
		}
		return p.NumTokens, nil
	})
	if err != nil {
		return SaleID{}, err
	}
	return id, nil
}

// AddTokens escrows additional collateral in the vault and raises the
// sale's availability. Only permitted while the subscription window is open.
func (e *Engine) AddTokens(id SaleID, caller identity.AccountID, amount uint64) error {
	return e.run("add_tokens", caller.String(), id, func(t *applyTable, now uint64) (uint64, error) {
		sale, err := loadSale(t, id)
		if err != nil {
			return 0, err
		}
		if caller != sale.Authority {
			return 0, ErrUnauthorized
		}
		if now >= sale.SubscriptionPeriodEnd {
			return 0, ErrSubscriptionClosed
		}
		if amount == 0 {
			return 0, ErrZeroAmount
		}

		vault := keylet.VaultAccount(id.Keylet().Key)
		if err := transferToken(t, id.Base, caller, vault, amount); err != nil {
			return 0, err
		}
		sale.OptionsAvailable += amount
		return amount, storeSale(t, sale)
	})
}
