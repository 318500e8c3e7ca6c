package exchange

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestParseBinanceSymbol(t *testing.T) {
	cases := map[string]string{
		"btcusdt@trade":    "BTCUSDT",
		"ethusdt@aggTrade": "ETHUSDT",
		"dogeusdt":         "DOGEUSDT",
		"":                 "",
	}
	for stream, expected := range cases {
		if got := parseBinanceSymbol(stream); got != expected {
			t.Fatalf("expected %s got %s", expected, got)
		}
	}
}

func TestBinanceApplyAccumulatesVolume(t *testing.T) {
	feed, err := NewBinanceTrades("", "SOLUSDT", nopLogger())
	if err != nil {
		t.Fatalf("new feed: %v", err)
	}
	start := time.Now()
	feed.now = func() time.Time { return start }
	ctx := context.Background()
	if _, err := feed.Price(ctx); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected no price before the first trade, got %v", err)
	}

	for _, msg := range []string{
		`{"stream":"solusdt@trade","data":{"p":"24.10","q":"3.4","T":1704067200000}}`,
		`{"stream":"solusdt@trade","data":{"p":"24.15","q":"1.7","T":1704067201000}}`,
	} {
		if err := feed.apply([]byte(msg)); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	if err := feed.apply([]byte(`{"stream":"btcusdt@trade","data":{"p":"1","q":"1"}}`)); err == nil {
		t.Fatalf("expected foreign stream to be rejected")
	}

	px, err := feed.Price(ctx)
	if err != nil || px != 24.15 {
		t.Fatalf("expected last price 24.15, got %v err %v", px, err)
	}
	// every reader sees the same trailing volume
	for i := 0; i < 2; i++ {
		if vol, _ := feed.Volume(ctx); vol != 5 {
			t.Fatalf("read %d: expected trailing volume 5, got %d", i, vol)
		}
	}

	feed.now = func() time.Time { return start.Add(30 * time.Second) }
	if err := feed.apply([]byte(`{"stream":"solusdt@trade","data":{"p":"24.20","q":"2","T":1704067230000}}`)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if vol, _ := feed.Volume(ctx); vol != 7 {
		t.Fatalf("expected 7 within the window, got %d", vol)
	}
	feed.now = func() time.Time { return start.Add(70 * time.Second) }
	if vol, _ := feed.Volume(ctx); vol != 2 {
		t.Fatalf("expected early trades to age out, got %d", vol)
	}

	feed.now = func() time.Time { return start.Add(2 * time.Minute) }
	if _, err := feed.Price(ctx); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected stale price to be unavailable, got %v", err)
	}
}

func TestBinanceRunConsumesStream(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("streams") != "solusdt@trade" {
			http.Error(w, "bad stream", http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"stream":"solusdt@trade","data":{"p":"23.5","q":"2","T":1704067200000}}`))
		// hold the connection open until the client leaves
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	base := "ws" + strings.TrimPrefix(server.URL, "http")
	feed, err := NewBinanceTrades(base, "solusdt", nopLogger())
	if err != nil {
		t.Fatalf("new feed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for {
		if px, err := feed.Price(context.Background()); err == nil {
			if px != 23.5 {
				t.Fatalf("expected 23.5 got %v", px)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for trade")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestBinanceRunResetsBackoffAfterConnecting(t *testing.T) {
	var connections atomic.Int32
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connections.Add(1)
		_ = conn.Close()
	}))
	defer server.Close()

	feed, err := NewBinanceTrades("ws"+strings.TrimPrefix(server.URL, "http"), "solusdt", nopLogger())
	if err != nil {
		t.Fatalf("new feed: %v", err)
	}
	feed.backoff = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx) }()

	// a growing backoff would allow about eight dials in the first second
	deadline := time.After(time.Second)
	for connections.Load() < 12 {
		select {
		case <-deadline:
			cancel()
			t.Fatalf("only %d reconnects in 1s; backoff kept growing", connections.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}
