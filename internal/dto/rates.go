package dto

import (
	"github.com/shopspring/decimal"
)

// ResolveRateResponse is the response for a rate lookup.
type ResolveRateResponse struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Date string          `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// WarmDayRequest asks the resolver to pre-fetch and cache all remote rates for
// a base currency on a calendar day.
type WarmDayRequest struct {
	Base string `json:"base" binding:"required,len=3,alpha"`
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
}

// WarmDayResponse reports how many cache entries a warmup stored.
type WarmDayResponse struct {
	Base   string `json:"base"`
	Date   string `json:"date"`
	Stored int    `json:"stored"`
}

// ReconcileResponse reports the outcome of a pending-conversion sweep.
type ReconcileResponse struct {
	UpdatedCount int64 `json:"updatedCount"`
}
