// Package keylet derives the addresses of staking-options ledger entries.
// Every sale, mint, token account and holding lives at a deterministic
// 256-bit key computed from a namespace tag and the identifying fields, so
// any party can locate an entry without an index.
package keylet

import (
	"encoding/binary"

	"github.com/dual-finance/soengine/internal/identity"

	crypto "github.com/dual-finance/soengine/internal/crypto/common"
)

// Space identifiers for keylet generation.
const (
	spaceSale        uint16 = 'c' // Sale configuration
	spaceVault       uint16 = 'v' // Sale vault principal
	spaceOptionMint  uint16 = 'o' // Option token mint
	spaceReverseMint uint16 = 'r' // Reverse token mint
	spaceFee         uint16 = 'f' // Fee collector principal
	spaceMint        uint16 = 'm' // Mint supply entry
	spaceTokenAcct   uint16 = 't' // Token account entry
	spaceHolding     uint16 = 'h' // Reversible exercise holding
)

// Type identifies the kind of ledger entry a keylet addresses.
type Type uint16

const (
	TypeSale Type = iota + 1
	TypeMint
	TypeTokenAccount
	TypeHolding
)

// Keylet represents an addressable location in the ledger state.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type Type
	Key  [32]byte
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)

	return crypto.Sha512Half(inputs...)
}

// truncate160 folds a keylet-style hash down to a 160-bit identifier for
// derived principals and derived mints.
func truncate160(space uint16, data ...[]byte) [20]byte {
	full := indexHash(space, data...)
	var out [20]byte
	copy(out[:], full[:20])
	return out
}

func u64be(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Sale returns the keylet for a sale configuration entry. A sale is
// identified by its name, its period number and its base asset.
func Sale(name string, period uint64, base identity.AssetID) Keylet {
	return Keylet{
		Type: TypeSale,
		Key:  indexHash(spaceSale, []byte(name), u64be(period), base[:]),
	}
}

// Mint returns the keylet for the supply entry of an asset.
func Mint(asset identity.AssetID) Keylet {
	return Keylet{
		Type: TypeMint,
		Key:  indexHash(spaceMint, asset[:]),
	}
}

// TokenAccount returns the keylet for a holder's balance of an asset.
func TokenAccount(asset identity.AssetID, holder identity.AccountID) Keylet {
	return Keylet{
		Type: TypeTokenAccount,
		Key:  indexHash(spaceTokenAcct, asset[:], holder[:]),
	}
}

// Holding returns the keylet for a reversible exercise holding, identified
// by the sale it belongs to, the strike exercised and the exercising holder.
func Holding(saleKey [32]byte, strike uint64, holder identity.AccountID) Keylet {
	return Keylet{
		Type: TypeHolding,
		Key:  indexHash(spaceHolding, saleKey[:], u64be(strike), holder[:]),
	}
}

// VaultAccount derives the principal that holds a sale's vault balances.
// Base collateral and quote payments both sit under this account, as token
// accounts for their respective assets.
func VaultAccount(saleKey [32]byte) identity.AccountID {
	return identity.AccountID(truncate160(spaceVault, saleKey[:]))
}

// FeeCollector derives the principal that accumulates exercise fees for an
// asset.
func FeeCollector(asset identity.AssetID) identity.AccountID {
	return identity.AccountID(truncate160(spaceFee, asset[:]))
}

// OptionAsset derives the asset ID of the option token minted for a strike
// of a sale.
func OptionAsset(saleKey [32]byte, strike uint64) identity.AssetID {
	return identity.AssetID(truncate160(spaceOptionMint, saleKey[:], u64be(strike)))
}

// ReverseAsset derives the asset ID of the reverse token minted for a strike
// of a reversible sale.
func ReverseAsset(saleKey [32]byte, strike uint64) identity.AssetID {
	return identity.AssetID(truncate160(spaceReverseMint, saleKey[:], u64be(strike)))
}
