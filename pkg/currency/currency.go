// Package currency provides the currency code registry backing Money values.
// The ledger is currency-aware but performs no conversion; a code is either
// supported with known decimal precision or rejected.
package currency

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
)

const (
	// DefaultCurrency is the fallback currency code.
	DefaultCurrency Code = "USD"
	// DefaultDecimals is the default number of decimal places for currencies.
	DefaultDecimals = 2
)

// Code is an ISO 4217 currency code (3 uppercase letters).
type Code string

// String returns the code as a plain string.
func (c Code) String() string { return string(c) }

// Common codes used across the ledger and its tests.
const (
	USD Code = "USD"
	EUR Code = "EUR"
	GBP Code = "GBP"
	JPY Code = "JPY"
	KWD Code = "KWD"
)

// Meta holds currency-specific metadata.
type Meta struct {
	Decimals int
	Symbol   string
}

var codeFormat = regexp.MustCompile(`^[A-Z]{3}$`)

var (
	mu         sync.RWMutex
	registered = map[Code]Meta{
		USD:   {Decimals: 2, Symbol: "$"},
		EUR:   {Decimals: 2, Symbol: "€"},
		GBP:   {Decimals: 2, Symbol: "£"},
		JPY:   {Decimals: 0, Symbol: "¥"},
		KWD:   {Decimals: 3, Symbol: "د.ك"},
		"CAD": {Decimals: 2, Symbol: "C$"},
		"AUD": {Decimals: 2, Symbol: "A$"},
		"CHF": {Decimals: 2, Symbol: "CHF"},
		"EGP": {Decimals: 2, Symbol: "£"},
		"INR": {Decimals: 2, Symbol: "₹"},
	}
)

// IsValidCurrencyFormat reports whether code has the ISO 4217 shape.
func IsValidCurrencyFormat(code string) bool {
	return codeFormat.MatchString(code)
}

// IsSupported reports whether the code is registered.
func IsSupported(code string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registered[Code(code)]
	return ok
}

// Get returns metadata for the given code, or an error for unknown codes.
func Get(code string) (Meta, error) {
	mu.RLock()
	defer mu.RUnlock()
	meta, ok := registered[Code(code)]
	if !ok {
		return Meta{}, fmt.Errorf("unsupported currency code: %q", code)
	}
	return meta, nil
}

// Register adds or updates a currency. Intended for application bootstrap.
func Register(code Code, meta Meta) {
	mu.Lock()
	defer mu.Unlock()
	registered[code] = meta
}

// ListSupported returns all registered codes in lexical order.
func ListSupported() []Code {
	mu.RLock()
	defer mu.RUnlock()
	codes := make([]Code, 0, len(registered))
	for code := range registered {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
