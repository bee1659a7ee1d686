package domain

// Transaction is a ledger entry in its original currency, together with its
// (possibly not yet reconciled) converted amount in the default currency.
type Transaction struct {
	TransactionID string `json:"transactionID"` // Primary Key (UUID)
	Description   string `json:"description"`
	Amount        Money  `json:"amount"`              // original amount, fixed at creation
	Converted     *Money `json:"converted,omitempty"` // nil means "not yet reconciled"
	Occurred      Day    `json:"occurred"`            // calendar anchor for rate lookups
	AuditFields
}

// NeedsConversion reports whether the transaction still lacks a converted
// amount in the given default currency.
func (t Transaction) NeedsConversion(defaultCurrency string) bool {
	if t.Amount.CurrencyCode == defaultCurrency {
		return false
	}
	return t.Converted == nil || t.Converted.CurrencyCode != defaultCurrency
}

// PairKey identifies the (calendar day, source currency) grouping of
// transactions that share a single rate lookup.
type PairKey struct {
	Day          Day
	CurrencyCode string
}

// ConversionPair is a deduplicated (day, currency) grouping with the number of
// transactions sharing it. N transactions sharing a pair cost one rate fetch.
type ConversionPair struct {
	Day          Day    `json:"day"`
	CurrencyCode string `json:"currencyCode"`
	Count        int    `json:"count"`
}

// Key returns the pair's map key.
func (p ConversionPair) Key() PairKey {
	return PairKey{Day: p.Day, CurrencyCode: p.CurrencyCode}
}
