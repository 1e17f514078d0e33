// Package domain holds the error taxonomy shared by the account store and
// the ledger engine. All failures surface as one of these sentinels (possibly
// wrapped); callers discriminate with errors.Is.
package domain

import "errors"

var (
	// ErrInvalidAmount is returned when an operation amount is zero, negative,
	// or otherwise malformed.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAccountNotFound is returned when the requested account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountNotActive is returned when a balance mutation targets a frozen
	// or closed account.
	ErrAccountNotActive = errors.New("account is not active")

	// ErrInsufficientFunds is returned when a debit would drive the balance
	// below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrEntryNotFound is returned when the requested ledger entry does not
	// exist.
	ErrEntryNotFound = errors.New("ledger entry not found")

	// ErrRecipientNotFound is returned when a transfer destination account
	// number resolves to nothing.
	ErrRecipientNotFound = errors.New("recipient account not found")

	// ErrRecipientNotActive is returned when a transfer destination exists but
	// cannot receive funds.
	ErrRecipientNotActive = errors.New("recipient account is not active")

	// ErrSameAccountTransfer is returned when source and destination of a
	// transfer are the same account.
	ErrSameAccountTransfer = errors.New("cannot transfer to the same account")

	// ErrInvalidTransition is returned on a disallowed account status change.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrLockTimeout is returned when an account lock cannot be acquired
	// within the configured bound. Retryable.
	ErrLockTimeout = errors.New("timed out waiting for account lock")

	// ErrConflict is returned when a generated identifier collides with an
	// existing one and the internal retries are exhausted. Retryable.
	ErrConflict = errors.New("identifier conflict")

	// ErrCurrencyMismatch is returned when an operation mixes currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrInvalidCurrencyCode is returned for malformed or unsupported
	// currency codes.
	ErrInvalidCurrencyCode = errors.New("invalid currency code")
)

// Retryable reports whether the caller may retry the same request unchanged.
// Only lock timeouts and identifier conflicts qualify; every other failure is
// terminal for the given input.
func Retryable(err error) bool {
	return errors.Is(err, ErrLockTimeout) || errors.Is(err, ErrConflict)
}
