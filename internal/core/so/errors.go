package so

import "errors"

// Kind classifies engine failures so callers can map them onto their own
// retry or reporting policy without string matching.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthorization
	KindBalance
	KindTemporal
	KindNotFound
	KindConflict
	KindInternal
)

// Error is a sentinel engine error carrying a Kind. Every operation rejects
// with one of these before any committed state change.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Kind returns the classification of the error.
func (e *Error) Kind() Kind { return e.kind }

func newErr(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// KindOf extracts the Kind from an engine error chain, or KindInternal for
// errors that did not originate here.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

var (
	// Validation
	ErrNameEmpty       = newErr(KindValidation, "sale name is empty")
	ErrNameTooLong     = newErr(KindValidation, "sale name exceeds 32 bytes")
	ErrBadSchedule     = newErr(KindValidation, "subscription period end exceeds option expiration")
	ErrSchedulePassed  = newErr(KindValidation, "sale schedule lies in the past")
	ErrZeroLotSize     = newErr(KindValidation, "lot size must be positive")
	ErrZeroStrike      = newErr(KindValidation, "strike must be positive")
	ErrZeroAmount      = newErr(KindValidation, "amount must be positive")
	ErrUnalignedAmount = newErr(KindValidation, "amount is not a multiple of the lot size")
	ErrAmountOverflow  = newErr(KindValidation, "amount arithmetic overflows")
	ErrNotReversible   = newErr(KindValidation, "sale was not configured as reversible")
	ErrNotAccelerating = newErr(KindValidation, "new expiration must precede the current one")

	// Authorization
	ErrUnauthorized = newErr(KindAuthorization, "caller is not authorized for this operation")

	// Balance
	ErrInsufficientFunds            = newErr(KindBalance, "insufficient token balance")
	ErrInsufficientVaultBalance     = newErr(KindBalance, "insufficient vault balance")
	ErrInsufficientOptionTokens     = newErr(KindBalance, "insufficient option token balance")
	ErrInsufficientReverseTokens    = newErr(KindBalance, "insufficient reverse token balance")
	ErrInsufficientOptionsAvailable = newErr(KindBalance, "issuance exceeds options available")

	// Temporal
	ErrSaleExpired        = newErr(KindTemporal, "sale has reached option expiration")
	ErrStrikeExpired      = newErr(KindTemporal, "strike has reached option expiration")
	ErrSubscriptionClosed = newErr(KindTemporal, "subscription period has ended")
	ErrVestingNotStarted  = newErr(KindTemporal, "subscription period has not ended yet")
	ErrSaleNotYetExpired  = newErr(KindTemporal, "sale has not reached option expiration")

	// NotFound
	ErrSaleNotFound    = newErr(KindNotFound, "sale not found")
	ErrStrikeNotFound  = newErr(KindNotFound, "strike not registered for this sale")
	ErrHoldingNotFound = newErr(KindNotFound, "no holding for this sale, strike and holder")

	// Conflict
	ErrSaleExists         = newErr(KindConflict, "sale already exists")
	ErrDuplicateStrike    = newErr(KindConflict, "strike already registered")
	ErrTooManyStrikes     = newErr(KindConflict, "strike limit reached")
	ErrRolloverMismatch   = newErr(KindConflict, "successor sale does not match base asset and authority")
	ErrRolloverSameSale   = newErr(KindConflict, "successor sale must use a fresh period")
	ErrRolloverReversible = newErr(KindConflict, "reversible sales cannot be rolled over")
	ErrSupplyNotHeld      = newErr(KindConflict, "caller does not hold the entire outstanding supply")
	ErrMultipleStrikes    = newErr(KindConflict, "operation requires a sale with a single strike")
)
