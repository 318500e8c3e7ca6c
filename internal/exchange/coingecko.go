package exchange

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	defaultCoinGeckoBaseURL = "https://api.coingecko.com"
	defaultCoinGeckoCoin    = "solana"
)

// CoinGecko polls the public simple-price endpoint for one coin quoted in USD.
type CoinGecko struct {
	poller
	baseURL string
	coin    string
}

// NewCoinGecko builds a rate-limited client. Empty arguments select the public API and solana.
func NewCoinGecko(baseURL, coin string, rps float64, timeout time.Duration) *CoinGecko {
	if baseURL == "" {
		baseURL = defaultCoinGeckoBaseURL
	}
	coin = strings.ToLower(strings.TrimSpace(coin))
	if coin == "" {
		coin = defaultCoinGeckoCoin
	}
	return &CoinGecko{
		poller:  newPoller(rps, timeout),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		coin:    coin,
	}
}

// Price fetches the current USD price.
func (c *CoinGecko) Price(ctx context.Context) (float64, error) {
	q := url.Values{"ids": {c.coin}, "vs_currencies": {"usd"}}
	var payload map[string]map[string]float64
	if err := c.getJSON(ctx, c.baseURL+"/api/v3/simple/price?"+q.Encode(), &payload); err != nil {
		return 0, fmt.Errorf("coingecko price: %w", err)
	}
	px, ok := payload[c.coin]["usd"]
	if !ok || px <= 0 {
		return 0, unavailable("coingecko returned no usd price for %s", c.coin)
	}
	return px, nil
}

// History fetches daily closes for the last days days.
func (c *CoinGecko) History(ctx context.Context, days int) ([]PricePoint, error) {
	if days <= 0 {
		days = 7
	}
	q := url.Values{"vs_currency": {"usd"}, "days": {fmt.Sprint(days)}, "interval": {"daily"}}
	var payload struct {
		Prices [][2]float64 `json:"prices"`
	}
	endpoint := fmt.Sprintf("%s/api/v3/coins/%s/market_chart?%s", c.baseURL, url.PathEscape(c.coin), q.Encode())
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("coingecko history: %w", err)
	}
	out := make([]PricePoint, 0, len(payload.Prices))
	for _, p := range payload.Prices {
		if p[1] <= 0 {
			continue
		}
		out = append(out, PricePoint{Ts: time.UnixMilli(int64(p[0])).UTC(), Price: p[1]})
	}
	return out, nil
}
