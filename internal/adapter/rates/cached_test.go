package rates

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type memCache struct {
	data map[string]string
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	return c.data[key], nil
}

func (c *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.data[key] = value
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

type countingSource struct {
	factors map[string]decimal.Decimal
	calls   int
}

func (s *countingSource) Fetch(_ context.Context, _ string, symbols []string) (map[string]decimal.Decimal, error) {
	s.calls++
	out := make(map[string]decimal.Decimal, len(symbols))
	for _, sym := range symbols {
		out[sym] = s.factors[sym]
	}
	return out, nil
}

func TestCachedSource_SecondFetchHitsCache(t *testing.T) {
	upstream := &countingSource{factors: map[string]decimal.Decimal{
		"EUR": decimal.RequireFromString("0.91"),
	}}
	cache := newMemCache()
	source := NewCachedSource(upstream, cache, time.Minute)

	ctx := context.Background()

	first, err := source.Fetch(ctx, "USD", []string{"EUR"})
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}

	second, err := source.Fetch(ctx, "USD", []string{"EUR"})
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if upstream.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", upstream.calls)
	}
	if !first["EUR"].Equal(second["EUR"]) {
		t.Fatalf("cached factor diverged: %s vs %s", first["EUR"], second["EUR"])
	}
}

func TestCachedSource_FetchesOnlyMissingSymbols(t *testing.T) {
	upstream := &countingSource{factors: map[string]decimal.Decimal{
		"EUR": decimal.RequireFromString("0.91"),
		"GBP": decimal.RequireFromString("0.78"),
	}}
	cache := newMemCache()
	cache.data["USD:EUR"] = "0.91"

	source := NewCachedSource(upstream, cache, time.Minute)

	factors, err := source.Fetch(context.Background(), "USD", []string{"EUR", "GBP"})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if upstream.calls != 1 {
		t.Fatalf("expected 1 upstream call for the miss, got %d", upstream.calls)
	}
	if len(factors) != 2 {
		t.Fatalf("expected both factors, got %v", factors)
	}
	if cache.data["USD:GBP"] != "0.78" {
		t.Fatalf("expected fetched factor to be cached, got %q", cache.data["USD:GBP"])
	}
}

func TestCachedSource_CorruptCacheEntryRefetches(t *testing.T) {
	upstream := &countingSource{factors: map[string]decimal.Decimal{
		"EUR": decimal.RequireFromString("0.91"),
	}}
	cache := newMemCache()
	cache.data["USD:EUR"] = "not-a-number"

	source := NewCachedSource(upstream, cache, time.Minute)

	factors, err := source.Fetch(context.Background(), "USD", []string{"EUR"})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if upstream.calls != 1 {
		t.Fatalf("expected refetch on corrupt entry, got %d calls", upstream.calls)
	}
	if !factors["EUR"].Equal(decimal.RequireFromString("0.91")) {
		t.Fatalf("unexpected factor %s", factors["EUR"])
	}
}
