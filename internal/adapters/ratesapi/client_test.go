package ratesapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fintra-app/fintra_backend/internal/adapters/ratesapi"
	"github.com/fintra-app/fintra_backend/internal/apperrors"
	"github.com/fintra-app/fintra_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RatesClientTestSuite struct {
	suite.Suite
	day domain.Day
}

func (suite *RatesClientTestSuite) SetupTest() {
	suite.day = domain.MustParseDay("2024-05-01")
}

func (suite *RatesClientTestSuite) newServer(handler http.HandlerFunc) (*httptest.Server, *ratesapi.Client) {
	srv := httptest.NewServer(handler)
	suite.T().Cleanup(srv.Close)
	return srv, ratesapi.NewClient(srv.URL, 2*time.Second)
}

func (suite *RatesClientTestSuite) TestFetchPair_SelectsOfficialKind() {
	var gotQuery map[string]string
	_, client := suite.newServer(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"base":    r.URL.Query().Get("base"),
			"symbols": r.URL.Query().Get("symbols"),
			"date":    r.URL.Query().Get("date"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"ARS","date":"2024-05-01","rates":{"USD":{"official":0.00125,"blue":0.00096}}}`))
	})

	rate, err := client.FetchPair(context.Background(), "ars", "usd", suite.day)

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.RequireFromString("0.00125")))
	suite.Equal("ARS", gotQuery["base"])
	suite.Equal("USD", gotQuery["symbols"])
	suite.Equal("2024-05-01", gotQuery["date"])
}

func (suite *RatesClientTestSuite) TestFetchPair_MissingOfficialKindIsUnavailable() {
	_, client := suite.newServer(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"ARS","date":"2024-05-01","rates":{"USD":{"blue":0.00096}}}`))
	})

	_, err := client.FetchPair(context.Background(), "ARS", "USD", suite.day)

	suite.Require().Error(err)
	suite.True(apperrors.IsRateUnavailable(err))
}

func (suite *RatesClientTestSuite) TestFetchPair_ServerErrorIsUnavailable() {
	_, client := suite.newServer(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := client.FetchPair(context.Background(), "ARS", "USD", suite.day)

	suite.Require().Error(err)
	suite.True(apperrors.IsRateUnavailable(err))
}

func (suite *RatesClientTestSuite) TestFetchPair_MalformedBodyIsUnavailable() {
	_, client := suite.newServer(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates": nope`))
	})

	_, err := client.FetchPair(context.Background(), "ARS", "USD", suite.day)

	suite.Require().Error(err)
	suite.True(apperrors.IsRateUnavailable(err))
}

func (suite *RatesClientTestSuite) TestFetchPair_SameCurrencyIsRejected() {
	called := false
	_, client := suite.newServer(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.FetchPair(context.Background(), "USD", "USD", suite.day)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.False(called, "same-currency requests must not reach the network")
}

func (suite *RatesClientTestSuite) TestFetchDay_FiltersToOfficialPositiveRates() {
	_, client := suite.newServer(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"base": "USD",
			"date": "2024-05-01",
			"rates": {
				"ARS": {"official": 879.5, "blue": 1040},
				"EUR": {"official": 0.93},
				"XXX": {"blue": 12},
				"YYY": {"official": -1},
				"USD": {"official": 1}
			}
		}`))
	})

	rates, err := client.FetchDay(context.Background(), "USD", suite.day)

	suite.Require().NoError(err)
	suite.Len(rates, 2)
	suite.True(rates["ARS"].Equal(decimal.RequireFromString("879.5")))
	suite.True(rates["EUR"].Equal(decimal.RequireFromString("0.93")))
}

func TestRatesClientTestSuite(t *testing.T) {
	suite.Run(t, new(RatesClientTestSuite))
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rates", r.URL.Path)
		w.Write([]byte(`{"base":"USD","date":"2024-05-01","rates":{"EUR":{"official":0.93}}}`))
	}))
	defer srv.Close()

	client := ratesapi.NewClient(srv.URL+"/", 2*time.Second)
	_, err := client.FetchDay(context.Background(), "USD", domain.MustParseDay("2024-05-01"))
	require.NoError(t, err)
}
