package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateEntry is a cached exchange rate: 1 unit of From equals Rate units of To
// on the given calendar day. A historical day's rate is immutable, so entries
// never expire; FetchedAt is kept for inspection only.
type RateEntry struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Day              Day             `json:"day"`
	Rate             decimal.Decimal `json:"rate"`
	FetchedAt        time.Time       `json:"fetchedAt"`
}
