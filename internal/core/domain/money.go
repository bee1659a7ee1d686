package domain

import (
	"github.com/shopspring/decimal"
)

// Money is an amount of money as an integer count of minor currency units
// (cents, centavos) together with its ISO 4217 currency code. Amounts are
// never represented as floating point.
type Money struct {
	Amount       int64  `json:"amount"` // minor units
	CurrencyCode string `json:"currencyCode"`
}

// NewMoney builds a Money from minor units and a currency code.
func NewMoney(minorUnits int64, currencyCode string) Money {
	return Money{Amount: minorUnits, CurrencyCode: currencyCode}
}

// Convert multiplies the amount by rate and rounds to the nearest minor unit
// using banker's rounding, producing an amount in toCurrency.
func (m Money) Convert(rate decimal.Decimal, toCurrency string) Money {
	converted := decimal.NewFromInt(m.Amount).Mul(rate).RoundBank(0)
	return Money{Amount: converted.IntPart(), CurrencyCode: toCurrency}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }
