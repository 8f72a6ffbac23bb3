package scoring

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchMaxBuyingPower_Success(t *testing.T) {
	var gotBody request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"scoringResult": map[string]any{
				"priceBuilding":     412000.0,
				"loanAmount":        330000.0,
				"equityCash":        100000.0,
				"monthlyPayment":    1575.0,
				"effectiveInterest": 3.8,
			},
			"additionalCosts": map[string]any{
				"additionalCostsPercentage": map[string]float64{"notary": 1.5, "tax": 3.5, "broker": 3.57},
				"additionalCostsValue":      map[string]float64{"notary": 6180, "tax": 14420, "broker": 14708},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0.35, testLogger())
	res := c.FetchMaxBuyingPower(context.Background(), 5000, 100000, 500)

	require.NotNil(t, res)
	assert.Equal(t, 412000.0, res.ScoringResult.PriceBuilding)
	assert.Equal(t, 3.8, res.ScoringResult.EffectiveInterest)
	require.NotNil(t, res.AdditionalCosts)
	assert.Equal(t, 3.5, res.AdditionalCosts.AdditionalCostsPercentage.Tax)

	// (5000-500)*0.35 = 1575
	assert.InDelta(t, 1575.0, gotBody.MonthlyRate, 0.001)
	assert.Equal(t, "DE-BY", gotBody.FederalState)
	assert.Equal(t, "AMORTIZATION", gotBody.CalculationMode)
}

func TestFetchMaxBuyingPower_ZeroRateSkipsCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0.35, testLogger())

	assert.Nil(t, c.FetchMaxBuyingPower(context.Background(), 0, 50000, 0))
	assert.Nil(t, c.FetchMaxBuyingPower(context.Background(), 1000, 0, 2000)) // debts swallow income
	assert.Equal(t, int32(0), calls.Load(), "no outbound call should be made when the rate is <= 0")
}

func TestFetchMaxBuyingPower_FailuresCollapseToNil(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-2xx", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "{not json")
		}},
		{"missing priceBuilding", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"scoringResult":{}}`)
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(c.handler)
			defer srv.Close()

			client := NewClient(srv.URL, 0.35, testLogger())
			assert.Nil(t, client.FetchMaxBuyingPower(context.Background(), 4000, 10000, 0))
		})
	}
}

func TestFetchMaxBuyingPower_UnconfiguredReturnsNil(t *testing.T) {
	c := NewClient("", 0.35, testLogger())
	assert.Nil(t, c.FetchMaxBuyingPower(context.Background(), 4000, 10000, 0))
}
