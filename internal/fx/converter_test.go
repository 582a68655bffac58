package fx_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/finsight/networth-go/internal/domain"
	"github.com/finsight/networth-go/internal/fx"
	"github.com/finsight/networth-go/internal/infra/cache"
	"github.com/finsight/networth-go/internal/infra/observability"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockRateSource struct {
	rates map[domain.Currency]float64
	err   error
	calls int
}

func (m *mockRateSource) GetRate(_ context.Context, _ domain.Month, currency domain.Currency) (float64, bool, error) {
	m.calls++
	if m.err != nil {
		return 0, false, m.err
	}
	rate, ok := m.rates[currency]
	return rate, ok, nil
}

func newConverter(source *mockRateSource) *fx.Converter {
	return fx.NewConverter(source, cache.New[float64](time.Minute), observability.NewMetrics(), zap.NewNop())
}

// --- Tests ---

func TestConvert_IdentityLaw(t *testing.T) {
	source := &mockRateSource{}
	c := newConverter(source)
	month := domain.MustMonth("2024-03")

	for _, cur := range []domain.Currency{domain.GBP, domain.EUR, domain.USD, domain.AED} {
		if got := c.Convert(context.Background(), 123.45, cur, cur, month); got != 123.45 {
			t.Errorf("%s: identity conversion changed the amount: %f", cur, got)
		}
	}
	if source.calls != 0 {
		t.Errorf("identity conversion should not hit the rate source, got %d calls", source.calls)
	}
}

func TestConvert_ThroughBase(t *testing.T) {
	c := newConverter(&mockRateSource{rates: map[domain.Currency]float64{
		domain.USD: 1.25,
		domain.EUR: 1.15,
	}})
	month := domain.MustMonth("2024-03")

	// USD -> GBP: divide by the USD rate.
	got := c.Convert(context.Background(), 125, domain.USD, domain.GBP, month)
	if math.Abs(got-100) > 1e-9 {
		t.Errorf("USD->GBP: expected 100, got %f", got)
	}

	// GBP -> EUR: multiply by the EUR rate.
	got = c.Convert(context.Background(), 100, domain.GBP, domain.EUR, month)
	if math.Abs(got-115) > 1e-9 {
		t.Errorf("GBP->EUR: expected 115, got %f", got)
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	c := newConverter(&mockRateSource{rates: map[domain.Currency]float64{
		domain.USD: 1.2711,
	}})
	month := domain.MustMonth("2024-03")

	there := c.Convert(context.Background(), 250.75, domain.GBP, domain.USD, month)
	back := c.Convert(context.Background(), there, domain.USD, domain.GBP, month)
	if math.Abs(back-250.75) > 1e-9 {
		t.Errorf("round trip drifted: got %f", back)
	}
}

func TestConvert_PassthroughWhenRateMissing(t *testing.T) {
	c := newConverter(&mockRateSource{rates: map[domain.Currency]float64{}})

	got := c.Convert(context.Background(), 500, domain.AED, domain.GBP, domain.MustMonth("2024-03"))
	if got != 500 {
		t.Errorf("expected unconverted passthrough 500, got %f", got)
	}
}

func TestConvert_PassthroughOnSourceError(t *testing.T) {
	c := newConverter(&mockRateSource{err: errors.New("connection refused")})

	got := c.Convert(context.Background(), 500, domain.USD, domain.GBP, domain.MustMonth("2024-03"))
	if got != 500 {
		t.Errorf("expected unconverted passthrough 500, got %f", got)
	}
}

func TestRate_CachesPerMonthAndCurrency(t *testing.T) {
	source := &mockRateSource{rates: map[domain.Currency]float64{domain.USD: 1.25}}
	metrics := observability.NewMetrics()
	c := fx.NewConverter(source, cache.New[float64](time.Minute), metrics, zap.NewNop())
	month := domain.MustMonth("2024-03")

	for i := 0; i < 3; i++ {
		if _, ok := c.Rate(context.Background(), month, domain.USD); !ok {
			t.Fatal("expected rate to be available")
		}
	}

	if source.calls != 1 {
		t.Errorf("expected a single source fetch, got %d", source.calls)
	}
	if hits := metrics.CacheHitCount("rates"); hits != 2 {
		t.Errorf("expected 2 cache hits, got %f", hits)
	}
	if misses := metrics.CacheMissCount("rates"); misses != 1 {
		t.Errorf("expected 1 cache miss, got %f", misses)
	}
}

func TestRate_BaseCurrencyIsAlwaysOne(t *testing.T) {
	source := &mockRateSource{}
	c := newConverter(source)

	rate, ok := c.Rate(context.Background(), domain.MustMonth("2024-03"), domain.GBP)
	if !ok || rate != 1 {
		t.Errorf("expected base rate 1, got %f (ok=%v)", rate, ok)
	}
	if source.calls != 0 {
		t.Error("base currency must never be queried")
	}
}
