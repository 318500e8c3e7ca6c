package exchange

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func nopLogger() zerolog.Logger { return zerolog.Nop() }

func TestCoinGeckoPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/simple/price" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("ids") != "solana" || r.URL.Query().Get("vs_currencies") != "usd" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"solana":{"usd":24.37}}`))
	}))
	defer server.Close()

	cg := NewCoinGecko(server.URL, "", 0, time.Second)
	px, err := cg.Price(context.Background())
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if px != 24.37 {
		t.Fatalf("expected 24.37 got %.2f", px)
	}
}

func TestCoinGeckoErrorsAreUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	cg := NewCoinGecko(server.URL, "solana", 0, time.Second)
	if _, err := cg.Price(context.Background()); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer empty.Close()
	cg = NewCoinGecko(empty.URL, "solana", 0, time.Second)
	if _, err := cg.Price(context.Background()); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected missing coin to be unavailable, got %v", err)
	}
}

func TestCoinGeckoHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/coins/solana/market_chart" || r.URL.Query().Get("days") != "3" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"prices":[[1704067200000,21.5],[1704153600000,22.25],[1704240000000,0]]}`))
	}))
	defer server.Close()

	cg := NewCoinGecko(server.URL, "solana", 0, time.Second)
	points, err := cg.History(context.Background(), 3)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected zero price to be dropped, got %d points", len(points))
	}
	if points[1].Price != 22.25 || points[0].Ts.Year() != 2024 {
		t.Fatalf("unexpected points %+v", points)
	}
}

func TestCoinGeckoRateLimiterHonorsContext(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"solana":{"usd":25}}`))
	}))
	defer server.Close()

	cg := NewCoinGecko(server.URL, "solana", 0.01, time.Second)
	if _, err := cg.Price(context.Background()); err != nil {
		t.Fatalf("first call consumes the burst: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := cg.Price(ctx); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected limiter wait to fail as unavailable, got %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("limited call must not reach the server, hits=%d", hits.Load())
	}
}

func TestDexScreenerPriceAndVolumeShareSnapshot(t *testing.T) {
	const body = `{"pairs":[{"priceUsd":"0.01","priceNative":"0.0001","volume":{"m5":12000.4,"h1":50000,"h24":500000}}]}`
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/latest/dex/pairs/solana/PAIR" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	dex, err := NewDexScreener(server.URL, "WIFSOL@solana/PAIR", 0, time.Second)
	if err != nil {
		t.Fatalf("new dexscreener: %v", err)
	}
	if dex.Alias() != "WIFSOL_PAIR" {
		t.Fatalf("unexpected alias %s", dex.Alias())
	}
	px, err := dex.Price(context.Background())
	if err != nil || px != 0.01 {
		t.Fatalf("expected price 0.01, got %v err %v", px, err)
	}
	vol, err := dex.Volume(context.Background())
	if err != nil || vol != 12000 {
		t.Fatalf("expected volume 12000, got %d err %v", vol, err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single request per snapshot, got %d", hits.Load())
	}
}

func TestDexScreenerFallbacks(t *testing.T) {
	const body = `{"pair":{"priceUsd":"","priceNative":"0.5","volume":{"m5":0,"h1":1200}}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	dex, err := NewDexScreener(server.URL, "PAIRADDRESS", 0, time.Second)
	if err != nil {
		t.Fatalf("new dexscreener: %v", err)
	}
	if px, _ := dex.Price(context.Background()); px != 0.5 {
		t.Fatalf("expected native price fallback, got %v", px)
	}
	if vol, _ := dex.Volume(context.Background()); vol != 100 {
		t.Fatalf("expected hourly volume / 12, got %d", vol)
	}
}

func TestParseDexScreenerTarget(t *testing.T) {
	target, err := parseDexScreenerTarget("BODEN@/another", "solana")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if target.Chain != "solana" || target.Address != "another" || target.Alias != "BODEN_NOTHER" {
		t.Fatalf("unexpected target %+v", target)
	}
	if _, err := parseDexScreenerTarget("WIF@base/", "solana"); err == nil {
		t.Fatalf("expected missing address error")
	}
}
