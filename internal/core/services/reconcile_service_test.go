package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/fintra-app/fintra_backend/internal/apperrors"
	"github.com/fintra-app/fintra_backend/internal/core/domain"
	portssvc "github.com/fintra-app/fintra_backend/internal/core/ports/services"
	"github.com/fintra-app/fintra_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReconcileServiceTestSuite struct {
	suite.Suite
	mockLedger   *MockLedgerRepository
	mockSettings *MockSettingsRepository
	mockResolver *MockRateResolver
	service      portssvc.ReconcileSvcFacade
}

func (suite *ReconcileServiceTestSuite) SetupTest() {
	suite.mockLedger = new(MockLedgerRepository)
	suite.mockSettings = new(MockSettingsRepository)
	suite.mockResolver = new(MockRateResolver)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.service = services.NewReconcileService(suite.mockLedger, suite.mockSettings, suite.mockResolver, logger, 4)
}

func (suite *ReconcileServiceTestSuite) TestReconcilePending_NothingPending() {
	ctx := context.Background()
	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Once()
	suite.mockLedger.On("FindPendingConversionPairs", ctx, "USD").Return([]domain.ConversionPair{}, nil).Once()

	count, err := suite.service.ReconcilePending(ctx)

	suite.Require().NoError(err)
	suite.Equal(int64(0), count)
	// No network or write activity when nothing is pending.
	suite.mockResolver.AssertNotCalled(suite.T(), "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockLedger.AssertNotCalled(suite.T(), "UpdatePendingConverted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconcileServiceTestSuite) TestReconcilePending_GroupsTransactionsIntoOneResolvePerPair() {
	ctx := context.Background()
	day := domain.MustParseDay("2024-05-01")
	// 10 transactions share one (ARS, 2024-05-01) pair: exactly one resolve.
	pair := domain.ConversionPair{Day: day, CurrencyCode: "ARS", Count: 10}
	rate := decimal.RequireFromString("0.00125")

	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Once()
	suite.mockLedger.On("FindPendingConversionPairs", ctx, "USD").Return([]domain.ConversionPair{pair}, nil).Once()
	suite.mockResolver.On("Resolve", mock.Anything, "ARS", "USD", day).Return(rate, nil).Once()
	suite.mockLedger.On("UpdatePendingConverted", ctx, pair, rate, "USD").Return(int64(10), nil).Once()

	count, err := suite.service.ReconcilePending(ctx)

	suite.Require().NoError(err)
	suite.Equal(int64(10), count)
	suite.mockResolver.AssertExpectations(suite.T())
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *ReconcileServiceTestSuite) TestReconcilePending_PartialFailureIsNotAnError() {
	ctx := context.Background()
	d1 := domain.MustParseDay("2024-05-01")
	d2 := domain.MustParseDay("2024-05-02")
	pairOK := domain.ConversionPair{Day: d1, CurrencyCode: "ARS", Count: 3}
	pairBad := domain.ConversionPair{Day: d2, CurrencyCode: "EUR", Count: 2}
	rate := decimal.RequireFromString("0.00125")

	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Once()
	suite.mockLedger.On("FindPendingConversionPairs", ctx, "USD").
		Return([]domain.ConversionPair{pairOK, pairBad}, nil).Once()
	suite.mockResolver.On("Resolve", mock.Anything, "ARS", "USD", d1).Return(rate, nil).Once()
	suite.mockResolver.On("Resolve", mock.Anything, "EUR", "USD", d2).
		Return(decimal.Zero, apperrors.NewRateUnavailable("EUR", "USD", d2.String())).Once()
	suite.mockLedger.On("UpdatePendingConverted", ctx, pairOK, rate, "USD").Return(int64(3), nil).Once()

	count, err := suite.service.ReconcilePending(ctx)

	// The failed pair stays pending; the sweep itself succeeds.
	suite.Require().NoError(err)
	suite.Equal(int64(3), count)
	suite.mockLedger.AssertNotCalled(suite.T(), "UpdatePendingConverted", ctx, pairBad, mock.Anything, mock.Anything)
}

func (suite *ReconcileServiceTestSuite) TestReconcilePending_Idempotent() {
	ctx := context.Background()
	day := domain.MustParseDay("2024-05-01")
	pair := domain.ConversionPair{Day: day, CurrencyCode: "ARS", Count: 5}
	rate := decimal.RequireFromString("0.00125")

	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Twice()
	suite.mockLedger.On("FindPendingConversionPairs", ctx, "USD").
		Return([]domain.ConversionPair{pair}, nil).Once()
	suite.mockResolver.On("Resolve", mock.Anything, "ARS", "USD", day).Return(rate, nil).Once()
	suite.mockLedger.On("UpdatePendingConverted", ctx, pair, rate, "USD").Return(int64(5), nil).Once()

	first, err := suite.service.ReconcilePending(ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(5), first)

	// Second run: nothing pending any more, nothing happens.
	suite.mockLedger.On("FindPendingConversionPairs", ctx, "USD").
		Return([]domain.ConversionPair{}, nil).Once()

	second, err := suite.service.ReconcilePending(ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(0), second)
	suite.mockResolver.AssertExpectations(suite.T())
}

func TestReconcileServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconcileServiceTestSuite))
}
