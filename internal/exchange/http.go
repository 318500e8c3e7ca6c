package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	userAgent          = "solana-engine/1.0 (paper)"
)

// poller is the shared GET+decode path of the HTTP providers.
type poller struct {
	client  *http.Client
	limiter *rate.Limiter
}

func newPoller(rps float64, timeout time.Duration) poller {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return poller{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (p poller) getJSON(ctx context.Context, url string, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return unavailable("rate limiter: %v", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return unavailable("http do: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return unavailable("unexpected status %d from %s", resp.StatusCode, req.URL.Path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return unavailable("decode response: %v", err)
	}
	return nil
}
