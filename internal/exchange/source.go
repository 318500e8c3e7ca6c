// Package exchange hosts the market data sources polled by the coordinator.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// ProviderStub emits a seeded synthetic random walk (useful for tests/offline work).
	ProviderStub = "stub"
	// ProviderCoinGecko polls the CoinGecko simple price API.
	ProviderCoinGecko = "coingecko"
	// ProviderBinance streams live trades from Binance public websockets.
	ProviderBinance = "binance"
	// ProviderDexScreener polls the Dexscreener HTTP API for one on-chain pair.
	ProviderDexScreener = "dexscreener"
	// ProviderJupiter prices a token pair from Jupiter aggregator quotes.
	ProviderJupiter = "jupiter"
)

// ErrDataUnavailable wraps every failure to produce a market input. Callers skip the tick.
var ErrDataUnavailable = errors.New("market data unavailable")

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDataUnavailable, fmt.Sprintf(format, args...))
}

// MarketData yields the current price of the traded instrument.
type MarketData interface {
	Price(ctx context.Context) (float64, error)
}

// VolumeSource is implemented by feeds that report traded volume.
type VolumeSource interface {
	Volume(ctx context.Context) (uint64, error)
}

// SentimentSource is implemented by feeds that score news flow in [-1, 1].
type SentimentSource interface {
	Sentiment(ctx context.Context) (score float64, headline string, err error)
}

// PairSource is implemented by feeds that can price the correlated instrument.
type PairSource interface {
	PairPrice(ctx context.Context) (float64, error)
}

// PricePoint is one historical observation.
type PricePoint struct {
	Ts    time.Time
	Price float64
}

// HistorySource is implemented by feeds that can backfill daily prices.
type HistorySource interface {
	History(ctx context.Context, days int) ([]PricePoint, error)
}

// Composite serves price from one source and borrows the optional inputs from others.
// A nil component reports ErrDataUnavailable.
type Composite struct {
	MarketData
	Volumes    VolumeSource
	Sentiments SentimentSource
}

// Volume implements VolumeSource.
func (c Composite) Volume(ctx context.Context) (uint64, error) {
	if c.Volumes == nil {
		return 0, unavailable("no volume source")
	}
	return c.Volumes.Volume(ctx)
}

// Sentiment implements SentimentSource.
func (c Composite) Sentiment(ctx context.Context) (float64, string, error) {
	if c.Sentiments == nil {
		return 0, "", unavailable("no sentiment source")
	}
	return c.Sentiments.Sentiment(ctx)
}

// History forwards to the price source when it supports backfill.
func (c Composite) History(ctx context.Context, days int) ([]PricePoint, error) {
	if hs, ok := c.MarketData.(HistorySource); ok {
		return hs.History(ctx, days)
	}
	return nil, unavailable("no history source")
}

// Settings selects and tunes a provider. Symbol is the coin id for coingecko, the trade symbol
// for binance, alias@chain/pair for dexscreener and inputMint/outputMint for jupiter.
// SimulateMissing fills volume and sentiment from the stub when the provider lacks them.
type Settings struct {
	Provider          string
	Symbol            string
	BaseURL           string
	RequestsPerSecond float64
	Timeout           time.Duration
	Seed              uint64
	SimulateMissing   bool
}

// NewSource builds the configured provider. Streaming providers are started on ctx.
func NewSource(ctx context.Context, s Settings, log zerolog.Logger) (MarketData, error) {
	provider := strings.ToLower(strings.TrimSpace(s.Provider))
	if provider == "" {
		provider = ProviderStub
	}
	log = log.With().Str("provider", provider).Logger()

	var (
		src     MarketData
		volumes VolumeSource
	)
	switch provider {
	case ProviderStub:
		return NewStub(s.Seed), nil
	case ProviderCoinGecko:
		src = NewCoinGecko(s.BaseURL, s.Symbol, s.RequestsPerSecond, s.Timeout)
	case ProviderDexScreener:
		dex, err := NewDexScreener(s.BaseURL, s.Symbol, s.RequestsPerSecond, s.Timeout)
		if err != nil {
			return nil, err
		}
		src, volumes = dex, dex
	case ProviderJupiter:
		jup, err := NewJupiter(s.BaseURL, s.Symbol, s.RequestsPerSecond, s.Timeout)
		if err != nil {
			return nil, err
		}
		src = jup
	case ProviderBinance:
		bin, err := NewBinanceTrades(s.BaseURL, s.Symbol, log)
		if err != nil {
			return nil, err
		}
		go func() {
			if err := bin.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("binance trade stream stopped")
			}
		}()
		src, volumes = bin, bin
	default:
		return nil, fmt.Errorf("unknown market data provider %q", s.Provider)
	}

	out := Composite{MarketData: src, Volumes: volumes}
	if s.SimulateMissing {
		stub := NewStub(s.Seed)
		if out.Volumes == nil {
			out.Volumes = stub
		}
		out.Sentiments = stub
	}
	log.Info().Str("symbol", s.Symbol).Bool("simulate_missing", s.SimulateMissing).Msg("market data source ready")
	return out, nil
}
