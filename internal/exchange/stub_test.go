package exchange

import (
	"context"
	"errors"
	"testing"
)

func TestStubWalkStaysInRange(t *testing.T) {
	stub := NewStub(42)
	ctx := context.Background()
	for i := 0; i < 2000; i++ {
		px, err := stub.Price(ctx)
		if err != nil {
			t.Fatalf("price: %v", err)
		}
		if px < stubMinPrice || px > stubMaxPrice {
			t.Fatalf("price %.2f escaped [20, 30] at step %d", px, i)
		}
		v, err := stub.Volume(ctx)
		if err != nil {
			t.Fatalf("volume: %v", err)
		}
		if v < stubMinVolume || v > stubMaxVolume {
			t.Fatalf("volume %d escaped [5000, 20000]", v)
		}
	}
}

func TestStubSeedReplays(t *testing.T) {
	a, b := NewStub(7), NewStub(7)
	ctx := context.Background()
	for i := 0; i < 50; i++ {
		pa, _ := a.Price(ctx)
		pb, _ := b.Price(ctx)
		if pa != pb {
			t.Fatalf("step %d diverged: %.2f vs %.2f", i, pa, pb)
		}
	}
}

func TestStubSentimentFromHeadlines(t *testing.T) {
	stub := NewStub(3)
	score, headline, err := stub.Sentiment(context.Background())
	if err != nil {
		t.Fatalf("sentiment: %v", err)
	}
	found := false
	for _, h := range DefaultHeadlines {
		if h.Text == headline && h.Score == score {
			found = true
		}
	}
	if !found {
		t.Fatalf("unexpected headline %q (%.1f)", headline, score)
	}
}

func TestStubCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStub(1).Price(ctx); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestCompositeMissingInputs(t *testing.T) {
	c := Composite{MarketData: NewStub(1)}
	if _, err := c.Volume(context.Background()); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected missing volume to be unavailable, got %v", err)
	}
	if _, _, err := c.Sentiment(context.Background()); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected missing sentiment to be unavailable, got %v", err)
	}
	if _, err := c.History(context.Background(), 3); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("stub has no history, got %v", err)
	}
}

func TestNewSourceProviders(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := NewSource(ctx, Settings{Provider: ""}, nopLogger())
	if err != nil {
		t.Fatalf("default provider: %v", err)
	}
	if _, ok := src.(*Stub); !ok {
		t.Fatalf("expected stub for empty provider, got %T", src)
	}

	src, err = NewSource(ctx, Settings{Provider: "CoinGecko", SimulateMissing: true}, nopLogger())
	if err != nil {
		t.Fatalf("coingecko provider: %v", err)
	}
	comp, ok := src.(Composite)
	if !ok {
		t.Fatalf("expected composite, got %T", src)
	}
	if comp.Volumes == nil || comp.Sentiments == nil {
		t.Fatalf("expected simulated volume and sentiment")
	}

	if _, err := NewSource(ctx, Settings{Provider: "kraken"}, nopLogger()); err == nil {
		t.Fatalf("expected unknown provider error")
	}
	if _, err := NewSource(ctx, Settings{Provider: ProviderDexScreener, Symbol: "WIF@"}, nopLogger()); err == nil {
		t.Fatalf("expected malformed dexscreener symbol error")
	}
}
