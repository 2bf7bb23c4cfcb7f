package rates

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/usecase"
)

// CachedSource wraps a RateSource with a short-lived cache keyed per
// currency pair. A cache failure never fails the fetch; the upstream
// call is the fallback either way.
type CachedSource struct {
	source usecase.RateSource
	cache  usecase.Cache
	ttl    time.Duration
}

// NewCachedSource creates a caching decorator around source.
func NewCachedSource(source usecase.RateSource, cache usecase.Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{
		source: source,
		cache:  cache,
		ttl:    ttl,
	}
}

// Fetch returns cached factors where fresh entries exist and asks the
// upstream source for the remainder in one call.
func (s *CachedSource) Fetch(ctx context.Context, base string, symbols []string) (map[string]decimal.Decimal, error) {
	factors := make(map[string]decimal.Decimal, len(symbols))

	var missing []string
	for _, symbol := range symbols {
		val, err := s.cache.Get(ctx, base+":"+symbol)
		if err != nil || val == "" {
			missing = append(missing, symbol)
			continue
		}

		factor, err := decimal.NewFromString(val)
		if err != nil {
			missing = append(missing, symbol)
			continue
		}

		factors[symbol] = factor
	}

	if len(missing) == 0 {
		return factors, nil
	}

	fetched, err := s.source.Fetch(ctx, base, missing)
	if err != nil {
		return nil, err
	}

	for symbol, factor := range fetched {
		factors[symbol] = factor
		// Best effort; a failed write just means a refetch next time.
		_ = s.cache.Set(ctx, base+":"+symbol, factor.String(), s.ttl)
	}

	return factors, nil
}
