package so

import (
	"github.com/dual-finance/soengine/internal/identity"
)

// Deposit records atoms of an external asset entering engine custody,
// crediting the holder's token account. The host ledger calls this when it
// escrows real funds on the engine's behalf; the engine itself never
// originates base or quote atoms.
func (e *Engine) Deposit(asset identity.AssetID, holder identity.AccountID, amount uint64) error {
	return e.run("deposit", holder.String(), SaleID{}, func(t *applyTable, now uint64) (uint64, error) {
		if amount == 0 {
			return 0, ErrZeroAmount
		}
		return amount, creditToken(t, asset, holder, amount)
	})
}
