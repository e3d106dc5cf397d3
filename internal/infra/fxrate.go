package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// FXRateClient fetches a USD/MXN reference rate from a public exchange-rate
// API. Calls go through a circuit breaker so a flaky provider fast-fails
// instead of hanging the suggestion endpoint.
type FXRateClient struct {
	client  *resty.Client
	apiURL  string
	breaker *CircuitBreaker
}

// fxAPIResponse matches the open.er-api.com shape: rates keyed by currency.
type fxAPIResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

func NewFXRateClient(apiURL string) *FXRateClient {
	return &FXRateClient{
		client:  resty.New().SetTimeout(10 * time.Second),
		apiURL:  apiURL,
		breaker: NewCircuitBreaker(DefaultCBConfig()),
	}
}

// TasaUSDMXN returns the current USD to MXN reference rate and the source URL.
func (c *FXRateClient) TasaUSDMXN(ctx context.Context) (decimal.Decimal, string, error) {
	var out fxAPIResponse
	err := c.breaker.Execute(func() error {
		resp, err := c.client.R().
			SetContext(ctx).
			SetResult(&out).
			Get(c.apiURL)
		if err != nil {
			return fmt.Errorf("fxrate: request: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("fxrate: provider returned %d", resp.StatusCode())
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, "", err
	}

	mxn, ok := out.Rates["MXN"]
	if !ok || mxn <= 0 {
		return decimal.Zero, "", fmt.Errorf("fxrate: respuesta sin tasa MXN")
	}
	return decimal.NewFromFloat(mxn).Round(4), c.apiURL, nil
}

// BreakerState exposes the circuit state for the health endpoint.
func (c *FXRateClient) BreakerState() CBState {
	return c.breaker.State()
}
