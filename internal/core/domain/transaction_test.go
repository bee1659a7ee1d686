package domain_test

import (
	"testing"

	"github.com/fintra-app/fintra_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestTransactionNeedsConversion(t *testing.T) {
	converted := domain.NewMoney(450, "USD")
	stale := domain.NewMoney(400, "EUR")

	tests := []struct {
		name            string
		txn             domain.Transaction
		defaultCurrency string
		want            bool
	}{
		{
			name:            "foreign currency without converted amount",
			txn:             domain.Transaction{Amount: domain.NewMoney(360000, "ARS")},
			defaultCurrency: "USD",
			want:            true,
		},
		{
			name:            "foreign currency already converted",
			txn:             domain.Transaction{Amount: domain.NewMoney(360000, "ARS"), Converted: &converted},
			defaultCurrency: "USD",
			want:            false,
		},
		{
			name:            "converted amount in a stale default currency",
			txn:             domain.Transaction{Amount: domain.NewMoney(360000, "ARS"), Converted: &stale},
			defaultCurrency: "USD",
			want:            true,
		},
		{
			name:            "already in the default currency",
			txn:             domain.Transaction{Amount: domain.NewMoney(450, "USD")},
			defaultCurrency: "USD",
			want:            false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.txn.NeedsConversion(tt.defaultCurrency))
		})
	}
}

func TestConversionPairKey(t *testing.T) {
	day := domain.MustParseDay("2024-05-01")
	p := domain.ConversionPair{Day: day, CurrencyCode: "ARS", Count: 7}
	assert.Equal(t, domain.PairKey{Day: day, CurrencyCode: "ARS"}, p.Key())
}
