package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code from the supported set.
type Currency string

// Minor-unit exponents for the supported currency codes (ISO 4217).
var supportedCurrencies = map[Currency]int32{
	"USD": 2, "EUR": 2, "GBP": 2, "JPY": 0,
	"CNY": 2, "AUD": 2, "CAD": 2, "CHF": 2,
	"SEK": 2, "NZD": 2, "KRW": 0, "SGD": 2,
	"NOK": 2, "MXN": 2, "INR": 2, "BRL": 2,
	"ZAR": 2, "RUB": 2, "TRY": 2, "HKD": 2,
}

// NewCurrency validates code against the supported set. Construction fails
// immediately on an unrecognized code, before any wallet lookup happens.
func NewCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := supportedCurrencies[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}

	return c, nil
}

// Exponent returns the number of minor-unit digits for the currency.
func (c Currency) Exponent() int32 {
	return supportedCurrencies[c]
}

// String returns the ISO code.
func (c Currency) String() string {
	return string(c)
}

// Money is an immutable amount in a single currency. Arithmetic and
// comparison require equal currencies.
type Money struct {
	Amount   decimal.Decimal
	Currency Currency
}

// NewMoney creates a Money value. The amount must be representable at the
// currency's minor-unit precision.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if _, ok := supportedCurrencies[currency]; !ok {
		return Money{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, currency)
	}

	if !amount.Equal(amount.Truncate(currency.Exponent())) {
		return Money{}, fmt.Errorf("%w: %s is not representable in %s", ErrInvalidAmount, amount, currency)
	}

	return Money{Amount: amount, Currency: currency}, nil
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency Currency) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Add returns m + other. Fails if currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}

	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub returns m - other. Fails if currencies differ.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}

	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// LessThan reports m < other. Only valid between same-currency values.
func (m Money) LessThan(other Money) (bool, error) {
	if m.Currency != other.Currency {
		return false, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}

	return m.Amount.LessThan(other.Amount), nil
}

// GreaterThanOrEqual reports m >= other. Only valid between same-currency values.
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	if m.Currency != other.Currency {
		return false, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}

	return m.Amount.GreaterThanOrEqual(other.Amount), nil
}

// IsPositive reports m > 0.
func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// String formats as "amount CUR".
func (m Money) String() string {
	return m.Amount.StringFixed(m.Currency.Exponent()) + " " + string(m.Currency)
}
