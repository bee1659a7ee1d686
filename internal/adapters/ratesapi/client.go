// Package ratesapi is the HTTP client for the remote exchange-rate service.
//
// The service exposes GET /rates with query parameters base (ISO currency
// code), symbols (optional comma-separated target codes) and date (ISO-8601
// calendar day). The response body carries every known rate kind per target
// (official, parallel-market quotes, ...); this client always selects the
// "official" kind and treats its absence as the rate being unavailable.
package ratesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fintra-app/fintra_backend/internal/apperrors"
	"github.com/fintra-app/fintra_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

const rateKindOfficial = "official"

// Client calls the remote exchange-rate service. It never retries: retry
// policy belongs to the sweep and the currency-switch workflow.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a rates API client. timeout bounds each request; a
// timeout is reported like any other fetch failure.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ratesResponse mirrors the service's wire format:
// {"base": "USD", "date": "2024-05-01", "rates": {"ARS": {"official": 879.5, "blue": 1040}}}
type ratesResponse struct {
	Base  string                                `json:"base"`
	Date  string                                `json:"date"`
	Rates map[string]map[string]decimal.Decimal `json:"rates"`
}

// FetchPair fetches the official rate for one currency pair on a day.
// Every failure mode (transport, status, decode, missing official kind,
// non-positive rate) surfaces as *apperrors.RateUnavailableError.
func (c *Client) FetchPair(ctx context.Context, from, to string, day domain.Day) (decimal.Decimal, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		// The resolver's identity short-circuit means this request is never
		// legitimate.
		return decimal.Zero, fmt.Errorf("%w: same-currency rate request %s/%s", apperrors.ErrValidation, from, to)
	}

	body, err := c.get(ctx, from, to, day)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.NewRateUnavailable(from, to, day.String()), err)
	}

	kinds, ok := body.Rates[to]
	if !ok {
		return decimal.Zero, apperrors.NewRateUnavailable(from, to, day.String())
	}
	rate, ok := kinds[rateKindOfficial]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, apperrors.NewRateUnavailable(from, to, day.String())
	}
	return rate, nil
}

// FetchDay fetches all official rates for a base currency on a day, keyed by
// target currency. Targets without an official kind are skipped.
func (c *Client) FetchDay(ctx context.Context, base string, day domain.Day) (map[string]decimal.Decimal, error) {
	base = strings.ToUpper(base)

	body, err := c.get(ctx, base, "", day)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates for %s on %s: %w", base, day, err)
	}

	rates := make(map[string]decimal.Decimal, len(body.Rates))
	for target, kinds := range body.Rates {
		target = strings.ToUpper(target)
		if target == base {
			continue
		}
		if rate, ok := kinds[rateKindOfficial]; ok && rate.IsPositive() {
			rates[target] = rate
		}
	}
	return rates, nil
}

func (c *Client) get(ctx context.Context, base, symbols string, day domain.Day) (*ratesResponse, error) {
	q := url.Values{}
	q.Set("base", base)
	q.Set("date", day.String())
	if symbols != "" {
		q.Set("symbols", symbols)
	}
	addr := c.baseURL + "/rates?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates service returned status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("malformed rates response: %w", err)
	}
	return &body, nil
}
