// Package currency converts and formats monetary amounts using a fixed
// exchange rate table expressed against a base currency.
package currency

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/finance-tracker/internal/models"
)

// ErrUnknownCurrency indicates a currency code with no entry in the rate
// table. This is a data-integrity failure, not user input to forgive.
var ErrUnknownCurrency = errors.New("unknown currency")

// BaseCurrency is the currency all table rates are expressed against.
const BaseCurrency = "EUR"

// RateTable maps currency codes to their rate against the base currency.
// The base currency must map to 1.
type RateTable map[string]decimal.Decimal

// DefaultRates is the built-in rate table. It is fixed for the lifetime of
// the process; swapping in fresher rates is the caller's concern.
var DefaultRates = RateTable{
	"EUR": decimal.NewFromInt(1),
	"USD": decimal.RequireFromString("1.18"),
	"GBP": decimal.RequireFromString("0.86"),
	"JPY": decimal.RequireFromString("130.55"),
	"CAD": decimal.RequireFromString("1.48"),
	"AUD": decimal.RequireFromString("1.61"),
	"CHF": decimal.RequireFromString("1.08"),
	"CNY": decimal.RequireFromString("7.63"),
	"SEK": decimal.RequireFromString("10.18"),
	"NZD": decimal.RequireFromString("1.69"),
}

// Convert converts an amount between two currencies via the base currency.
// A same-currency conversion returns the amount untouched. The result is not
// rounded; rounding belongs at presentation time.
func Convert(amount decimal.Decimal, from, to string, rates RateTable) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	fromRate, ok := rates[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, from)
	}
	toRate, ok := rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, to)
	}
	return amount.Div(fromRate).Mul(toRate), nil
}

// Symbol returns the display symbol for a currency code. Unknown codes fall
// back to the code itself.
func Symbol(code string) string {
	if symbol := models.SupportedCurrencies[code]; symbol != "" {
		return symbol
	}
	return code
}

// MinorUnits returns the number of decimal places conventionally shown for a
// currency.
func MinorUnits(code string) int32 {
	if models.ZeroDecimalCurrencies[code] {
		return 0
	}
	return 2
}

// Format renders an amount with its currency symbol and minor-unit
// precision, e.g. "€12.50" or "¥1200". Codes without a distinct symbol
// render as "CHF 12.50".
func Format(amount decimal.Decimal, code string) string {
	symbol := Symbol(code)
	rendered := amount.StringFixed(MinorUnits(code))
	if symbol == code {
		return symbol + " " + rendered
	}
	return symbol + rendered
}
