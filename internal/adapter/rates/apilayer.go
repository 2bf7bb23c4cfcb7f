package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
)

// APILayerSource fetches spot conversion factors from an
// apilayer-compatible currency endpoint. Quotes come back keyed by the
// concatenated pair, "USDEUR" for base USD and target EUR.
type APILayerSource struct {
	baseURL   string
	accessKey string
	client    *http.Client
}

// NewAPILayerSource creates a source against the given endpoint.
func NewAPILayerSource(baseURL, accessKey string, timeout time.Duration) *APILayerSource {
	return &APILayerSource{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		client:    &http.Client{Timeout: timeout},
	}
}

type liveResponse struct {
	Success bool                       `json:"success"`
	Source  string                     `json:"source"`
	Quotes  map[string]decimal.Decimal `json:"quotes"`
	Error   *liveError                 `json:"error"`
}

type liveError struct {
	Code int    `json:"code"`
	Info string `json:"info"`
}

// Fetch requests factors for converting base into each symbol. One
// outbound call per invocation; any transport or provider failure
// surfaces as domain.ErrRateUnavailable so callers need not distinguish
// the modes.
func (s *APILayerSource) Fetch(ctx context.Context, base string, symbols []string) (map[string]decimal.Decimal, error) {
	q := url.Values{}
	q.Set("access_key", s.accessKey)
	q.Set("source", base)
	q.Set("currencies", strings.Join(symbols, ","))
	q.Set("format", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/live?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned status %d", domain.ErrRateUnavailable, resp.StatusCode)
	}

	var body liveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
	}

	if !body.Success {
		if body.Error != nil {
			return nil, fmt.Errorf("%w: provider error %d: %s", domain.ErrRateUnavailable, body.Error.Code, body.Error.Info)
		}

		return nil, fmt.Errorf("%w: provider reported failure", domain.ErrRateUnavailable)
	}

	factors := make(map[string]decimal.Decimal, len(symbols))
	for _, symbol := range symbols {
		factor, ok := body.Quotes[base+symbol]
		if !ok {
			return nil, fmt.Errorf("%w: no quote for %s/%s", domain.ErrRateUnavailable, base, symbol)
		}
		factors[symbol] = factor
	}

	return factors, nil
}
