// Package fx converts amounts between currencies using historical
// month-level rates quoted against the GBP base.
package fx

import (
	"context"
	"fmt"

	"github.com/finsight/networth-go/internal/domain"
	"github.com/finsight/networth-go/internal/infra/observability"
	"github.com/finsight/networth-go/internal/port"

	"go.uber.org/zap"
)

// Converter converts amounts through the base currency. Rate lookups are
// cached per (month, currency); historical rates for a past month never
// change, so the cache is never invalidated.
type Converter struct {
	source  port.RateSource
	cache   port.Cache[float64]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewConverter creates a converter with all dependencies injected.
func NewConverter(source port.RateSource, cache port.Cache[float64], metrics *observability.Metrics, logger *zap.Logger) *Converter {
	return &Converter{source: source, cache: cache, metrics: metrics, logger: logger}
}

// Rate returns the rate for one unit of base currency in the given currency
// at the given month. ok is false when the rate is not (yet) available;
// callers treat that as pending, not an error.
func (c *Converter) Rate(ctx context.Context, month domain.Month, currency domain.Currency) (float64, bool) {
	if currency == domain.BaseCurrency {
		return 1, true
	}

	key := fmt.Sprintf("rate:%s:%s", month, currency)
	if rate, ok := c.cache.Get(key); ok {
		c.metrics.IncrCacheHit("rates")
		return rate, true
	}
	c.metrics.IncrCacheMiss("rates")

	rate, ok, err := c.source.GetRate(ctx, month, currency)
	if err != nil {
		c.logger.Warn("rate lookup failed",
			zap.String("month", month.String()),
			zap.String("currency", string(currency)),
			zap.Error(err),
		)
		c.metrics.IncrExternalError("rates")
		return 0, false
	}
	if !ok {
		c.logger.Debug("rate not yet available",
			zap.String("month", month.String()),
			zap.String("currency", string(currency)),
		)
		return 0, false
	}

	c.cache.Set(key, rate)
	return rate, true
}

// Convert converts amount from one currency to another at the given month's
// historical rate, going through the base currency.
//
// Identity conversions return the amount without a lookup. When any needed
// rate is unavailable the original amount is returned unchanged — a safe
// "pending" fallback rather than an error or NaN; callers re-render once
// rates arrive.
func (c *Converter) Convert(ctx context.Context, amount float64, from, to domain.Currency, month domain.Month) float64 {
	if from == to {
		return amount
	}

	amountInBase := amount
	if from != domain.BaseCurrency {
		rate, ok := c.Rate(ctx, month, from)
		if !ok || rate == 0 {
			c.metrics.IncrRateFallback()
			return amount
		}
		amountInBase = amount / rate
	}

	if to == domain.BaseCurrency {
		return amountInBase
	}

	rate, ok := c.Rate(ctx, month, to)
	if !ok {
		c.metrics.IncrRateFallback()
		return amount
	}
	return amountInBase * rate
}

// Func adapts the converter to the engine's ConvertFunc signature, binding
// the request context.
func (c *Converter) Func(ctx context.Context) func(amount float64, from, to domain.Currency, month domain.Month) float64 {
	return func(amount float64, from, to domain.Currency, month domain.Month) float64 {
		return c.Convert(ctx, amount, from, to, month)
	}
}
