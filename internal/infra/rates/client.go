// Package rates fetches historical exchange rates from a frankfurter-style
// HTTP API. Rates are quoted against the GBP base; a month that the provider
// has not published yet is reported as unavailable, not as an error.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/finsight/networth-go/internal/domain"
	"github.com/finsight/networth-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("rates")

// Client calls the exchange-rate API. Implements port.RateSource.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	logger     *zap.Logger
}

// NewClient creates a rate API client.
func NewClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
		logger:     logger,
	}
}

// rateResponse is the provider's JSON shape:
// {"base":"GBP","date":"2024-03-01","rates":{"USD":1.27,"EUR":1.17}}
type rateResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// GetRate fetches the rate for one unit of GBP in the given currency for the
// given month, keyed to the first of the month. ok is false when the
// provider has no data for that month yet (404 or missing symbol).
func (c *Client) GetRate(ctx context.Context, month domain.Month, currency domain.Currency) (float64, bool, error) {
	if currency == domain.BaseCurrency {
		return 1, true, nil
	}

	ctx, span := tracer.Start(ctx, "Rates.GetRate")
	defer span.End()
	span.SetAttributes(
		attribute.String("fx.month", month.String()),
		attribute.String("fx.currency", string(currency)),
	)

	var (
		rate  float64
		found bool
	)

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/%s-01?base=%s&symbols=%s", c.baseURL, month, domain.BaseCurrency, currency)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				c.logger.Error("rates: request failed",
					zap.String("month", month.String()),
					zap.String("currency", string(currency)),
					zap.Error(err),
				)
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound {
				// Month not published yet; pending, not an error.
				found = false
				return nil
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				c.logger.Warn("rates: non-2xx response",
					zap.Int("status", resp.StatusCode),
					zap.String("body", string(body)),
				)
				return fmt.Errorf("rate provider returned status %d", resp.StatusCode)
			}

			var decoded rateResponse
			if err := json.Unmarshal(body, &decoded); err != nil {
				return fmt.Errorf("failed to decode rates: %w", err)
			}

			r, ok := decoded.Rates[string(currency)]
			if !ok {
				found = false
				return nil
			}
			rate = r
			found = true
			return nil
		})
	})

	if err != nil {
		return 0, false, &domain.ErrExternalService{Service: "rates", Err: err}
	}
	return rate, found, nil
}
