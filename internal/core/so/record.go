package so

import (
	"encoding/binary"
	"fmt"

	"github.com/dual-finance/soengine/internal/core/keylet"
	"github.com/dual-finance/soengine/internal/identity"
	"github.com/ugorji/go/codec"
)

// Record type codes. Every stored value starts with its 2-byte big-endian
// code so that a raw scan of the ledger can classify entries without
// decoding them.
const (
	recSale         uint16 = 0x0001
	recMint         uint16 = 0x0002
	recTokenAccount uint16 = 0x0003
	recHolding      uint16 = 0x0004
)

var cborHandle codec.CborHandle

// SaleID identifies one configured sale. The period number distinguishes
// successive offerings of the same name and base asset; rollover requires a
// fresh one.
type SaleID struct {
	Name   string
	Period uint64
	Base   identity.AssetID
}

// Keylet returns the ledger address of the sale configuration entry.
func (id SaleID) Keylet() keylet.Keylet {
	return keylet.Sale(id.Name, id.Period, id.Base)
}

func (id SaleID) String() string {
	return fmt.Sprintf("%s/%d/%s", id.Name, id.Period, id.Base)
}

// SaleState is the full configuration and accounting state of one sale.
type SaleState struct {
	ID                    SaleID
	Authority             identity.AccountID
	IssueAuthority        identity.AccountID // zero when unset
	QuoteAsset            identity.AssetID
	QuoteProceeds         identity.AccountID
	BaseDecimals          uint8
	QuoteDecimals         uint8
	OptionsAvailable      uint64 // base atoms still eligible for issuance
	OptionExpiration      uint64 // unix seconds, hard exercise deadline
	SubscriptionPeriodEnd uint64 // unix seconds, vesting unlock start
	LotSize               uint64 // base atoms per option token
	Strikes               []uint64
	Withdrawn             uint64 // cumulative base atoms released by vesting
	Reversible            bool
}

// HasStrike reports whether the strike is registered on the sale.
func (s *SaleState) HasStrike(strike uint64) bool {
	for _, v := range s.Strikes {
		if v == strike {
			return true
		}
	}
	return false
}

// CanIssue reports whether the account may mint option tokens for the sale.
func (s *SaleState) CanIssue(account identity.AccountID) bool {
	if account == s.Authority {
		return true
	}
	return !s.IssueAuthority.IsZero() && account == s.IssueAuthority
}

// MintState tracks the outstanding supply of a derived asset.
type MintState struct {
	Asset  identity.AssetID
	Supply uint64
}

// TokenAccountState is one holder's balance of one asset.
type TokenAccountState struct {
	Asset   identity.AssetID
	Holder  identity.AccountID
	Balance uint64
}

// HoldingState parks the base atoms of reversible exercises for one holder
// and strike. It carries the base asset and the expiration so settlement
// works even after the sale record itself has been erased.
type HoldingState struct {
	Base       identity.AssetID
	Expiration uint64
	Amount     uint64 // base atoms parked
}

// encodeRecord serializes a record value behind its 2-byte type code.
func encodeRecord(code uint16, v any) ([]byte, error) {
	var body []byte
	enc := codec.NewEncoderBytes(&body, &cborHandle)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode record %#04x: %w", code, err)
	}
	out := make([]byte, 2+len(body))
	binary.BigEndian.PutUint16(out, code)
	copy(out[2:], body)
	return out, nil
}

// decodeRecord deserializes a record value, checking its type code.
func decodeRecord(data []byte, code uint16, v any) error {
	if len(data) < 2 {
		return fmt.Errorf("record too short: %d bytes", len(data))
	}
	if got := binary.BigEndian.Uint16(data); got != code {
		return fmt.Errorf("record type mismatch: want %#04x, got %#04x", code, got)
	}
	dec := codec.NewDecoderBytes(data[2:], &cborHandle)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode record %#04x: %w", code, err)
	}
	return nil
}

// recordType reports the 2-byte type code of a stored value.
func recordType(data []byte) (uint16, bool) {
	if len(data) < 2 {
		return 0, false
	}
	return binary.BigEndian.Uint16(data), true
}
