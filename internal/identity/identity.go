// Package identity defines the principal and asset identifiers used by the
// staking-options engine. The engine never verifies signatures; the host
// ledger authenticates callers and hands the engine a resolved AccountID.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/crypto/ripemd160"
)

// AccountID is a 160-bit principal identifier, derived from a public key the
// same way classic ledger account IDs are: RIPEMD160(SHA256(pubkey)).
type AccountID [20]byte

// AssetID is a 160-bit token/mint identifier.
type AssetID [20]byte

// AccountIDFromPublicKey derives the account ID for a public key.
func AccountIDFromPublicKey(pub []byte) AccountID {
	return AccountID(digest160(pub))
}

// AssetIDFromPublicKey derives the asset ID for a mint public key.
func AssetIDFromPublicKey(pub []byte) AssetID {
	return AssetID(digest160(pub))
}

func digest160(data []byte) [20]byte {
	sha := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(sha[:])
	var out [20]byte
	copy(out[:], r.Sum(nil))
	return out
}

// String renders the ID as lowercase hex.
func (a AccountID) String() string { return hex.EncodeToString(a[:]) }

// String renders the ID as lowercase hex.
func (a AssetID) String() string { return hex.EncodeToString(a[:]) }

// IsZero reports whether the ID is the all-zero value.
func (a AccountID) IsZero() bool { return a == AccountID{} }

// IsZero reports whether the ID is the all-zero value.
func (a AssetID) IsZero() bool { return a == AssetID{} }

// ParseAccountID decodes a 40-character hex account ID.
func ParseAccountID(s string) (AccountID, error) {
	var id AccountID
	if err := parse160(s, id[:]); err != nil {
		return AccountID{}, err
	}
	return id, nil
}

// ParseAssetID decodes a 40-character hex asset ID.
func ParseAssetID(s string) (AssetID, error) {
	var id AssetID
	if err := parse160(s, id[:]); err != nil {
		return AssetID{}, err
	}
	return id, nil
}

func parse160(s string, dst []byte) error {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex id %q: %w", s, err)
	}
	if len(raw) != 20 {
		return fmt.Errorf("id must be 20 bytes, got %d", len(raw))
	}
	copy(dst, raw)
	return nil
}
