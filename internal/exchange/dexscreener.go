package exchange

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultDexScreenerBaseURL = "https://api.dexscreener.com"
	dexScreenerCacheTTL       = time.Second
)

type dexscreenerTarget struct {
	Alias   string
	Chain   string
	Address string
}

type dexscreenerPairsResponse struct {
	Pairs []dexscreenerPair `json:"pairs"`
	Pair  *dexscreenerPair  `json:"pair"`
}

type dexscreenerPair struct {
	ChainID     string             `json:"chainId"`
	PairAddress string             `json:"pairAddress"`
	PriceUsd    string             `json:"priceUsd"`
	PriceNative string             `json:"priceNative"`
	Volume      dexscreenerVolumes `json:"volume"`
}

type dexscreenerVolumes struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H24 float64 `json:"h24"`
}

func (r *dexscreenerPairsResponse) firstPair() (*dexscreenerPair, bool) {
	if len(r.Pairs) > 0 {
		return &r.Pairs[0], true
	}
	if r.Pair != nil {
		return r.Pair, true
	}
	return nil, false
}

// DexScreener polls one on-chain pair. Price and Volume share a short-lived snapshot so one
// coordinator tick costs one request.
type DexScreener struct {
	poller
	baseURL string
	target  dexscreenerTarget

	mu      sync.Mutex
	cached  dexscreenerPair
	fetched time.Time
	now     func() time.Time
}

// NewDexScreener parses symbol as alias@chain/pairAddress (alias and chain optional, chain
// defaults to solana).
func NewDexScreener(baseURL, symbol string, rps float64, timeout time.Duration) (*DexScreener, error) {
	target, err := parseDexScreenerTarget(symbol, "solana")
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		baseURL = defaultDexScreenerBaseURL
	}
	return &DexScreener{
		poller:  newPoller(rps, timeout),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		target:  target,
		now:     time.Now,
	}, nil
}

// Alias is the display name of the tracked pair.
func (d *DexScreener) Alias() string { return d.target.Alias }

func (d *DexScreener) snapshot(ctx context.Context) (dexscreenerPair, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.fetched.IsZero() && d.now().Sub(d.fetched) < dexScreenerCacheTTL {
		return d.cached, nil
	}
	endpoint := fmt.Sprintf("%s/latest/dex/pairs/%s/%s", d.baseURL, d.target.Chain, d.target.Address)
	var payload dexscreenerPairsResponse
	if err := d.getJSON(ctx, endpoint, &payload); err != nil {
		return dexscreenerPair{}, fmt.Errorf("dexscreener %s: %w", d.target.Alias, err)
	}
	pair, ok := payload.firstPair()
	if !ok {
		return dexscreenerPair{}, unavailable("dexscreener returned no pair for %s", d.target.Alias)
	}
	d.cached = *pair
	d.fetched = d.now()
	return d.cached, nil
}

// Price returns the USD price, falling back to the native quote.
func (d *DexScreener) Price(ctx context.Context) (float64, error) {
	pair, err := d.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return parseDexScreenerPrice(&pair)
}

// Volume returns the USD volume of the last five minutes, or the hourly volume scaled down when
// the five-minute bucket is empty.
func (d *DexScreener) Volume(ctx context.Context) (uint64, error) {
	pair, err := d.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	v := pair.Volume.M5
	if v <= 0 {
		v = pair.Volume.H1 / 12
	}
	if v <= 0 || math.IsNaN(v) {
		return 0, unavailable("dexscreener reported no volume for %s", d.target.Alias)
	}
	return uint64(math.Round(v)), nil
}

func parseDexScreenerPrice(pair *dexscreenerPair) (float64, error) {
	if pair == nil {
		return 0, unavailable("pair missing")
	}
	for _, raw := range []string{pair.PriceUsd, pair.PriceNative} {
		if raw == "" {
			continue
		}
		if px, err := strconv.ParseFloat(raw, 64); err == nil && px > 0 {
			return px, nil
		}
	}
	return 0, unavailable("pair missing price")
}

func parseDexScreenerTarget(raw, defaultChain string) (dexscreenerTarget, error) {
	raw = strings.TrimSpace(raw)
	aliasPart, targetPart := "", raw
	if parts := strings.SplitN(raw, "@", 2); len(parts) == 2 {
		aliasPart, targetPart = parts[0], parts[1]
	}
	chain := strings.ToLower(strings.TrimSpace(defaultChain))
	address := targetPart
	if parts := strings.SplitN(targetPart, "/", 2); len(parts) == 2 {
		if c := strings.TrimSpace(parts[0]); c != "" {
			chain = strings.ToLower(c)
		}
		address = parts[1]
	}
	address = strings.TrimSpace(address)
	if chain == "" || address == "" {
		return dexscreenerTarget{}, fmt.Errorf("dexscreener symbol %q missing chain or address", raw)
	}
	return dexscreenerTarget{Alias: composeDexAlias(aliasPart, address), Chain: chain, Address: address}, nil
}

func sanitizeDexAlias(alias string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(alias) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 32)
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	return b.String()
}

func composeDexAlias(base, address string) string {
	base = sanitizeDexAlias(base)
	suffix := sanitizeDexAlias(address)
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	switch {
	case base == "" && suffix == "":
		return "PAIR"
	case base == "":
		return "PAIR_" + suffix
	case suffix == "":
		return base
	}
	return base + "_" + suffix
}
