// Package scoring calls the external buying-power scoring service.
//
// The service is authoritative when it answers; every failure mode (missing
// configuration, transport error, non-2xx, malformed payload) returns nil so
// callers fall back to the local formula engine.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/gereonelvers/mortgage-moment/internal/model"
)

// Fixed request parameters. The buyer's locale is pinned to one region; the
// amortisation and fixed-period values mirror the product's single observed
// configuration.
const (
	federalState    = "DE-BY"
	amortisation    = 2.0
	fixedPeriod     = 10
	calculationMode = "AMORTIZATION"

	// requestTimeout bounds the blocking scoring call on the listings path.
	requestTimeout = 5 * time.Second
)

// Client issues buying-power requests. If BaseURL is empty the client skips
// the call gracefully — the caller falls back to the formula engine, the same
// way a fetcher with missing credentials skips its round.
type Client struct {
	baseURL     string
	capFraction float64 // share of free income available for the payment
	logger      *slog.Logger
	client      *http.Client
}

// NewClient constructs a Client with a shared HTTP client. capFraction must
// match the formula engine's income cap so both paths agree on the available
// monthly rate.
func NewClient(baseURL string, capFraction float64, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		capFraction: capFraction,
		logger:      logger,
		client:      &http.Client{Timeout: requestTimeout},
	}
}

type request struct {
	MonthlyRate     float64 `json:"monthlyRate"`
	EquityCash      float64 `json:"equityCash"`
	FederalState    string  `json:"federalState"`
	Amortisation    float64 `json:"amortisation"`
	FixedPeriod     int     `json:"fixedPeriod"`
	Salary          float64 `json:"salary"`
	AdditionalLoan  float64 `json:"additionalLoan"`
	CalculationMode string  `json:"calculationMode"`
}

// Result is the parsed scoring-service response.
type Result struct {
	ScoringResult   model.ScoringResult  `json:"scoringResult"`
	AdditionalCosts *model.CostBreakdown `json:"additionalCosts,omitempty"`
}

// FetchMaxBuyingPower asks the scoring service for the buyer's ceiling price.
// It computes the available monthly rate locally first and aborts without a
// network call when that rate is zero or below. One attempt, no retries;
// failures are logged and collapse to nil.
func (c *Client) FetchMaxBuyingPower(ctx context.Context, income, equity, debts float64) *Result {
	monthlyRate := math.Max(0, (income-debts)*c.capFraction)
	if monthlyRate <= 0 {
		return nil
	}
	if c.baseURL == "" {
		c.logger.Debug("scoring service not configured — using formula fallback")
		return nil
	}

	res, err := c.post(ctx, request{
		MonthlyRate:     monthlyRate,
		EquityCash:      equity,
		FederalState:    federalState,
		Amortisation:    amortisation,
		FixedPeriod:     fixedPeriod,
		Salary:          income,
		AdditionalLoan:  0,
		CalculationMode: calculationMode,
	})
	if err != nil {
		c.logger.Warn("buying-power scoring failed — using formula fallback", "err", err)
		return nil
	}
	return res
}

func (c *Client) post(ctx context.Context, body request) (*Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http POST: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoring service returned %d: %s", resp.StatusCode, string(raw))
	}

	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if res.ScoringResult.PriceBuilding <= 0 {
		return nil, fmt.Errorf("scoring payload missing priceBuilding")
	}
	return &res, nil
}
