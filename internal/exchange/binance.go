package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	defaultBinanceBaseURL = "wss://stream.binance.com:9443"
	binanceStaleAfter     = 30 * time.Second
	// binanceVolumeWindow is the trailing span Volume sums traded quantity over.
	binanceVolumeWindow = time.Minute
)

// volumeBucket holds the quantity traded within one second.
type volumeBucket struct {
	sec int64
	qty float64
}

type binanceEnvelope struct {
	Stream string       `json:"stream"`
	Data   binanceTrade `json:"data"`
}

type binanceTrade struct {
	Price        string `json:"p"`
	Quantity     string `json:"q"`
	TradeTime    int64  `json:"T"`
	IsBuyerMaker bool   `json:"m"`
}

// BinanceTrades keeps the last traded price of one symbol from the public trade stream and the
// quantity traded over the trailing minute. Reads never consume state, so any number of
// strategies can share one feed.
type BinanceTrades struct {
	url    string
	symbol string
	log    zerolog.Logger

	mu      sync.Mutex
	last    float64
	lastAt  time.Time
	buckets []volumeBucket
	now     func() time.Time
	backoff time.Duration
}

// NewBinanceTrades targets the combined stream endpoint for symbol (e.g. SOLUSDT).
func NewBinanceTrades(baseURL, symbol string, log zerolog.Logger) (*BinanceTrades, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("binance feed requires a symbol")
	}
	if baseURL == "" {
		baseURL = defaultBinanceBaseURL
	}
	url := fmt.Sprintf("%s/stream?streams=%s@trade", strings.TrimSuffix(baseURL, "/"), strings.ToLower(symbol))
	return &BinanceTrades{
		url:     url,
		symbol:  strings.ToUpper(symbol),
		log:     log,
		now:     time.Now,
		backoff: time.Second,
	}, nil
}

// Price returns the last traded price; a missing or stale trade is ErrDataUnavailable.
func (b *BinanceTrades) Price(context.Context) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last <= 0 {
		return 0, unavailable("no %s trade received yet", b.symbol)
	}
	if age := b.now().Sub(b.lastAt); age > binanceStaleAfter {
		return 0, unavailable("last %s trade is %s old", b.symbol, age.Round(time.Second))
	}
	return b.last, nil
}

// Volume returns the quantity traded over the trailing minute.
func (b *BinanceTrades) Volume(context.Context) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastAt.IsZero() {
		return 0, unavailable("no %s trade received yet", b.symbol)
	}
	b.prune(b.now())
	total := 0.0
	for _, bk := range b.buckets {
		total += bk.qty
	}
	return uint64(math.Round(total)), nil
}

// prune drops buckets older than the volume window. Callers hold mu.
func (b *BinanceTrades) prune(now time.Time) {
	cutoff := now.Add(-binanceVolumeWindow).Unix()
	i := 0
	for i < len(b.buckets) && b.buckets[i].sec <= cutoff {
		i++
	}
	b.buckets = b.buckets[i:]
}

// Run consumes the stream until ctx is canceled, reconnecting with capped backoff.
func (b *BinanceTrades) Run(ctx context.Context) error {
	backoff := b.backoff
	const maxBackoff = 30 * time.Second

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		connected, err := b.consume(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			backoff = b.backoff
		}
		b.log.Warn().Err(err).Dur("backoff", backoff).Msg("binance feed disconnected, retrying")
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff = time.Duration(math.Min(float64(maxBackoff), float64(backoff)*1.8))
	}
}

// consume reads one connection until it fails. connected reports whether the dial succeeded.
func (b *BinanceTrades) consume(ctx context.Context) (connected bool, err error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, b.url, nil)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	b.log.Info().Str("symbol", b.symbol).Msg("connected market data feed")

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(binanceStaleAfter))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(binanceStaleAfter))
	})

	// unblock ReadMessage on shutdown
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	pingCtx, pingCancel := context.WithCancel(ctx)
	defer pingCancel()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					b.log.Warn().Err(err).Msg("binance ping failed")
					return
				}
			case <-pingCtx.Done():
				return
			}
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}
		_ = conn.SetReadDeadline(time.Now().Add(binanceStaleAfter))
		if err := b.apply(message); err != nil {
			b.log.Warn().Err(err).Msg("failed to decode binance message")
		}
	}
}

func (b *BinanceTrades) apply(message []byte) error {
	var env binanceEnvelope
	if err := json.Unmarshal(message, &env); err != nil {
		return err
	}
	if sym := parseBinanceSymbol(env.Stream); sym != "" && sym != b.symbol {
		return fmt.Errorf("unexpected stream %q", env.Stream)
	}
	px, err := strconv.ParseFloat(env.Data.Price, 64)
	if err != nil || px <= 0 {
		return fmt.Errorf("invalid price %q", env.Data.Price)
	}
	qty, err := strconv.ParseFloat(env.Data.Quantity, 64)
	if err != nil || qty < 0 {
		return fmt.Errorf("invalid quantity %q", env.Data.Quantity)
	}
	b.mu.Lock()
	now := b.now()
	b.last = px
	b.lastAt = now
	if n := len(b.buckets); n > 0 && b.buckets[n-1].sec == now.Unix() {
		b.buckets[n-1].qty += qty
	} else {
		b.buckets = append(b.buckets, volumeBucket{sec: now.Unix(), qty: qty})
	}
	b.prune(now)
	b.mu.Unlock()
	return nil
}

func parseBinanceSymbol(stream string) string {
	sym, _, _ := strings.Cut(stream, "@")
	return strings.ToUpper(sym)
}
