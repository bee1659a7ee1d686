package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fintra-app/fintra_backend/internal/apperrors"
	"github.com/fintra-app/fintra_backend/internal/core/domain"
	portssvc "github.com/fintra-app/fintra_backend/internal/core/ports/services"
	"github.com/fintra-app/fintra_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CurrencySwitchServiceTestSuite struct {
	suite.Suite
	mockLedger   *MockLedgerRepository
	mockSettings *MockSettingsRepository
	mockResolver *MockRateResolver
	service      portssvc.CurrencySwitchSvcFacade
}

func (suite *CurrencySwitchServiceTestSuite) SetupTest() {
	suite.mockLedger = new(MockLedgerRepository)
	suite.mockSettings = new(MockSettingsRepository)
	suite.mockResolver = new(MockRateResolver)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.service = services.NewCurrencySwitchService(suite.mockLedger, suite.mockSettings, suite.mockResolver, logger, 4)
}

// waitForSettled polls until no pair is in Loading.
func (suite *CurrencySwitchServiceTestSuite) waitForSettled() domain.SwitchStatus {
	var status domain.SwitchStatus
	suite.Require().Eventually(func() bool {
		status = suite.service.Status(context.Background())
		for _, p := range status.Pairs {
			if p.State == domain.PairLoading {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond)
	return status
}

func (suite *CurrencySwitchServiceTestSuite) TestBeginChange_NoOpWhenTargetIsCurrentDefault() {
	ctx := context.Background()
	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Once()

	status, err := suite.service.BeginChange(ctx, "USD")

	suite.Require().NoError(err)
	suite.Equal(domain.SwitchIdle, status.Phase)
	// The ledger is never queried for pairs on a no-op switch.
	suite.mockLedger.AssertNotCalled(suite.T(), "FindConversionPairs", mock.Anything, mock.Anything)
}

func (suite *CurrencySwitchServiceTestSuite) TestBeginChange_FastPathWhenNoPairs() {
	ctx := context.Background()
	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Once()
	suite.mockLedger.On("FindConversionPairs", ctx, "EUR").Return([]domain.ConversionPair{}, nil).Once()
	suite.mockSettings.On("SetDefaultCurrency", ctx, "EUR").Return(nil).Once()

	status, err := suite.service.BeginChange(ctx, "EUR")

	suite.Require().NoError(err)
	suite.Equal(domain.SwitchSuccess, status.Phase)
	suite.Equal(0, status.UpdatedCount)
	suite.mockSettings.AssertExpectations(suite.T())
}

func (suite *CurrencySwitchServiceTestSuite) TestAtomicSwitch_FailedRateBlocksConfirmUntilRetry() {
	ctx := context.Background()
	day := domain.MustParseDay("2024-05-01")
	// 3 EUR transactions need a rate; 2 already-USD transactions do not.
	pair := domain.ConversionPair{Day: day, CurrencyCode: "EUR", Count: 3}
	rate := decimal.RequireFromString("1.1")

	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("EUR", nil).Once()
	suite.mockLedger.On("FindConversionPairs", ctx, "USD").Return([]domain.ConversionPair{pair}, nil).Once()
	// First fetch fails, the retry succeeds.
	suite.mockResolver.On("Resolve", mock.Anything, "EUR", "USD", day).
		Return(decimal.Zero, apperrors.NewRateUnavailable("EUR", "USD", day.String())).Once()
	suite.mockResolver.On("Resolve", mock.Anything, "EUR", "USD", day).Return(rate, nil).Once()

	status, err := suite.service.BeginChange(ctx, "USD")
	suite.Require().NoError(err)
	suite.Equal(domain.SwitchConverting, status.Phase)

	status = suite.waitForSettled()
	suite.Require().Len(status.Pairs, 1)
	suite.Equal(domain.PairFailure, status.Pairs[0].State)
	suite.False(status.AllPairsResolved())

	// Confirm is unreachable while a pair is unresolved; the default currency
	// must remain untouched.
	_, err = suite.service.ConfirmConversion(ctx)
	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockLedger.AssertNotCalled(suite.T(), "RewriteConvertedAndSetDefault", mock.Anything, mock.Anything, mock.Anything)
	suite.mockSettings.AssertNotCalled(suite.T(), "SetDefaultCurrency", mock.Anything, mock.Anything)

	// Retry resolves the failed pair.
	status, err = suite.service.RetryFailed(ctx)
	suite.Require().NoError(err)
	status = suite.waitForSettled()
	suite.Require().Equal(domain.PairSuccess, status.Pairs[0].State)
	suite.True(status.AllPairsResolved())

	// Confirm rewrites all 5 transactions (3 via rate, 2 via identity) in one
	// atomic unit and only then flips the default currency.
	expectedRates := map[domain.PairKey]decimal.Decimal{pair.Key(): rate}
	suite.mockLedger.On("RewriteConvertedAndSetDefault", ctx, expectedRates, "USD").Return(int64(5), nil).Once()

	status, err = suite.service.ConfirmConversion(ctx)
	suite.Require().NoError(err)
	suite.Equal(domain.SwitchSuccess, status.Phase)
	suite.Equal(5, status.UpdatedCount)
	suite.mockLedger.AssertExpectations(suite.T())
	suite.mockResolver.AssertExpectations(suite.T())
}

func (suite *CurrencySwitchServiceTestSuite) TestConfirm_RewriteFailureSurfacesInState() {
	ctx := context.Background()
	day := domain.MustParseDay("2024-05-01")
	pair := domain.ConversionPair{Day: day, CurrencyCode: "EUR", Count: 1}
	rate := decimal.RequireFromString("1.1")

	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("EUR", nil).Once()
	suite.mockLedger.On("FindConversionPairs", ctx, "USD").Return([]domain.ConversionPair{pair}, nil).Once()
	suite.mockResolver.On("Resolve", mock.Anything, "EUR", "USD", day).Return(rate, nil).Once()

	_, err := suite.service.BeginChange(ctx, "USD")
	suite.Require().NoError(err)
	suite.waitForSettled()

	suite.mockLedger.On("RewriteConvertedAndSetDefault", ctx, mock.Anything, "USD").
		Return(int64(0), errors.Join(apperrors.ErrLedgerWrite, errors.New("deadlock"))).Once()

	status, err := suite.service.ConfirmConversion(ctx)

	// Workflow failures land in the state machine, not in the error return.
	suite.Require().NoError(err)
	suite.Equal(domain.SwitchFailure, status.Phase)
	suite.NotEmpty(status.Reason)
	suite.mockSettings.AssertNotCalled(suite.T(), "SetDefaultCurrency", mock.Anything, mock.Anything)
}

func (suite *CurrencySwitchServiceTestSuite) TestCancel_DiscardsStateWithoutTouchingLedger() {
	ctx := context.Background()
	day := domain.MustParseDay("2024-05-01")
	pair := domain.ConversionPair{Day: day, CurrencyCode: "EUR", Count: 2}

	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("EUR", nil).Once()
	suite.mockLedger.On("FindConversionPairs", ctx, "USD").Return([]domain.ConversionPair{pair}, nil).Once()
	suite.mockResolver.On("Resolve", mock.Anything, "EUR", "USD", day).
		Return(decimal.RequireFromString("1.1"), nil).Maybe()

	_, err := suite.service.BeginChange(ctx, "USD")
	suite.Require().NoError(err)

	status := suite.service.Cancel(ctx)

	suite.Equal(domain.SwitchIdle, status.Phase)
	suite.Empty(status.Pairs)
	suite.mockLedger.AssertNotCalled(suite.T(), "RewriteConvertedAndSetDefault", mock.Anything, mock.Anything, mock.Anything)
	suite.mockSettings.AssertNotCalled(suite.T(), "SetDefaultCurrency", mock.Anything, mock.Anything)

	// Confirm after cancel is a misuse.
	_, err = suite.service.ConfirmConversion(ctx)
	suite.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (suite *CurrencySwitchServiceTestSuite) TestBeginChange_RejectedWhileConverting() {
	ctx := context.Background()
	day := domain.MustParseDay("2024-05-01")
	pair := domain.ConversionPair{Day: day, CurrencyCode: "EUR", Count: 1}

	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("EUR", nil).Twice()
	suite.mockLedger.On("FindConversionPairs", ctx, "USD").Return([]domain.ConversionPair{pair}, nil).Once()
	// Keep the pair in Loading long enough for the second BeginChange.
	suite.mockResolver.On("Resolve", mock.Anything, "EUR", "USD", day).
		Run(func(args mock.Arguments) { time.Sleep(100 * time.Millisecond) }).
		Return(decimal.RequireFromString("1.1"), nil).Once()

	_, err := suite.service.BeginChange(ctx, "USD")
	suite.Require().NoError(err)

	_, err = suite.service.BeginChange(ctx, "GBP")
	suite.Require().ErrorIs(err, apperrors.ErrConflict)
}

func TestCurrencySwitchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencySwitchServiceTestSuite))
}
