package services_test

import (
	"context"

	"github.com/fintra-app/fintra_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock RateCacheRepository ---

type MockRateCacheRepository struct {
	mock.Mock
}

func (m *MockRateCacheRepository) GetRate(ctx context.Context, from, to string, day domain.Day) (*domain.RateEntry, error) {
	args := m.Called(ctx, from, to, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateEntry), args.Error(1)
}

func (m *MockRateCacheRepository) PutRate(ctx context.Context, entry domain.RateEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactions(ctx context.Context, limit, offset int) ([]domain.Transaction, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) FindPendingConversionPairs(ctx context.Context, defaultCurrency string) ([]domain.ConversionPair, error) {
	args := m.Called(ctx, defaultCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConversionPair), args.Error(1)
}

func (m *MockLedgerRepository) FindConversionPairs(ctx context.Context, targetCurrency string) ([]domain.ConversionPair, error) {
	args := m.Called(ctx, targetCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConversionPair), args.Error(1)
}

func (m *MockLedgerRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockLedgerRepository) UpdatePendingConverted(ctx context.Context, pair domain.ConversionPair, rate decimal.Decimal, defaultCurrency string) (int64, error) {
	args := m.Called(ctx, pair, rate, defaultCurrency)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) RewriteConvertedAndSetDefault(ctx context.Context, rates map[domain.PairKey]decimal.Decimal, targetCurrency string) (int64, error) {
	args := m.Called(ctx, rates, targetCurrency)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock SettingsRepository ---

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetDefaultCurrency(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSettingsRepository) SetDefaultCurrency(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

// --- Mock RateProvider ---

type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) FetchPair(ctx context.Context, from, to string, day domain.Day) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to, day)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRateProvider) FetchDay(ctx context.Context, base string, day domain.Day) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, base, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

// --- Mock RateResolver ---

type MockRateResolver struct {
	mock.Mock
}

func (m *MockRateResolver) Resolve(ctx context.Context, from, to string, day domain.Day) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to, day)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRateResolver) WarmDay(ctx context.Context, base string, day domain.Day) (int, error) {
	args := m.Called(ctx, base, day)
	return args.Int(0), args.Error(1)
}
