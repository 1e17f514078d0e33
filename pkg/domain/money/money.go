// Package money provides the Money value object used for every balance and
// entry amount in the ledger.
package money

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/openbank/ledger/pkg/currency"
	"github.com/openbank/ledger/pkg/domain"
)

// Amount represents a monetary amount as an integer in the smallest currency
// unit (e.g. cents for USD).
type Amount = int64

// Money represents a monetary value in a specific currency.
// Invariants:
//   - Amount is always stored in the smallest currency unit.
//   - Currency code must be a supported ISO 4217 code.
//   - All arithmetic requires matching currencies.
type Money struct {
	amount   Amount
	currency currency.Code
}

// New creates a Money value from an amount in the main currency unit
// (e.g. dollars). The amount must not carry more decimal places than the
// currency allows.
func New(amount float64, code currency.Code) (Money, error) {
	if code == "" {
		code = currency.DefaultCurrency
	}
	if !currency.IsValidCurrencyFormat(string(code)) {
		return Money{}, domain.ErrInvalidCurrencyCode
	}
	smallest, err := convertToSmallestUnit(amount, string(code))
	if err != nil {
		return Money{}, err
	}
	return Money{amount: smallest, currency: code}, nil
}

// NewFromSmallestUnit creates a Money value directly from the smallest
// currency unit.
func NewFromSmallestUnit(amount int64, code currency.Code) (Money, error) {
	if code == "" {
		code = currency.DefaultCurrency
	}
	if !currency.IsValidCurrencyFormat(string(code)) {
		return Money{}, domain.ErrInvalidCurrencyCode
	}
	return Money{amount: amount, currency: code}, nil
}

// NewFromData hydrates a Money value from persisted columns, bypassing
// validation. Repository use only.
func NewFromData(amount int64, code string) Money {
	return Money{amount: amount, currency: currency.Code(code)}
}

// Amount returns the amount in the smallest currency unit.
func (m Money) Amount() Amount { return m.amount }

// AmountFloat returns the amount in the main currency unit.
func (m Money) AmountFloat() float64 {
	meta, err := currency.Get(string(m.currency))
	if err != nil {
		return float64(m.amount) / math.Pow10(currency.DefaultDecimals)
	}
	return float64(m.amount) / math.Pow10(meta.Decimals)
}

// Currency returns the currency of the Money value.
func (m Money) Currency() currency.Code { return m.currency }

// Add returns the sum of two Money values of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, domain.ErrCurrencyMismatch
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Subtract returns the difference of two Money values of the same currency.
func (m Money) Subtract(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, domain.ErrCurrencyMismatch
	}
	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

// Negate returns the Money value with its sign flipped.
func (m Money) Negate() Money {
	return Money{amount: -m.amount, currency: m.currency}
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m.amount < 0 {
		return m.Negate()
	}
	return m
}

// Equals reports value and currency equality.
func (m Money) Equals(other Money) bool {
	return m.IsSameCurrency(other) && m.amount == other.amount
}

// GreaterThan reports whether m exceeds other. Currencies must match.
func (m Money) GreaterThan(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, domain.ErrCurrencyMismatch
	}
	return m.amount > other.amount, nil
}

// LessThan reports whether m is below other. Currencies must match.
func (m Money) LessThan(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, domain.ErrCurrencyMismatch
	}
	return m.amount < other.amount, nil
}

// IsSameCurrency reports whether both values share a currency.
func (m Money) IsSameCurrency(other Money) bool {
	return m.currency == other.currency
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool { return m.amount > 0 }

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool { return m.amount < 0 }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.amount == 0 }

// String renders the value with the currency's decimal precision.
func (m Money) String() string {
	meta, err := currency.Get(string(m.currency))
	if err != nil {
		return fmt.Sprintf("%d %s", m.amount, m.currency)
	}
	return fmt.Sprintf("%.*f %s", meta.Decimals, m.AmountFloat(), m.currency)
}

// convertToSmallestUnit converts a float64 amount to the smallest currency
// unit using big.Rat to avoid floating-point drift.
func convertToSmallestUnit(amount float64, currencyCode string) (int64, error) {
	meta, err := currency.Get(currencyCode)
	if err != nil {
		return 0, err
	}
	amountStr := fmt.Sprintf("%.10f", amount)
	parts := strings.Split(amountStr, ".")
	if len(parts) > 1 {
		decimals := strings.TrimRight(parts[1], "0")
		if len(decimals) > meta.Decimals {
			return 0, fmt.Errorf("%w: more than %d decimal places", domain.ErrInvalidAmount, meta.Decimals)
		}
	}

	amountStr = fmt.Sprintf("%.*f", meta.Decimals, amount)
	amountRat, ok := new(big.Rat).SetString(amountStr)
	if !ok {
		return 0, fmt.Errorf("%w: %f", domain.ErrInvalidAmount, amount)
	}

	multiplier := math.Pow10(meta.Decimals)
	smallestUnitRat := new(big.Rat).Mul(amountRat, big.NewRat(int64(multiplier), 1))
	if !smallestUnitRat.IsInt() {
		return 0, fmt.Errorf("%w: more than %d decimal places", domain.ErrInvalidAmount, meta.Decimals)
	}

	smallestUnit := smallestUnitRat.Num()
	if !smallestUnit.IsInt64() {
		return 0, fmt.Errorf("%w: exceeds maximum safe integer value", domain.ErrInvalidAmount)
	}
	return smallestUnit.Int64(), nil
}
