package exchange

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestJupiterPriceScalesOutAmount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/v6/quote" || q.Get("inputMint") != SOLMint.String() || q.Get("outputMint") != USDCMint.String() {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if q.Get("amount") != "1000000000" {
			http.Error(w, "bad amount", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"inputMint":"` + SOLMint.String() + `","inAmount":"1000000000","outAmount":"24370000","slippageBps":50}`))
	}))
	defer server.Close()

	jup, err := NewJupiter(server.URL, "", 0, time.Second)
	if err != nil {
		t.Fatalf("new jupiter: %v", err)
	}
	px, err := jup.Price(context.Background())
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if px != 24.37 {
		t.Fatalf("expected 24.37 got %.4f", px)
	}
}

func TestJupiterRejectsBadMints(t *testing.T) {
	if _, err := NewJupiter("", "not-a-mint/also-not", 0, 0); err == nil {
		t.Fatalf("expected invalid mint error")
	}
	if _, err := NewJupiter("", SOLMint.String(), 0, 0); err == nil {
		t.Fatalf("expected pair format error")
	}
	jup, err := NewJupiter("", USDCMint.String()+"/"+SOLMint.String(), 0, 0)
	if err != nil {
		t.Fatalf("valid pair: %v", err)
	}
	if !jup.input.Equals(USDCMint) || !jup.output.Equals(SOLMint) {
		t.Fatalf("mints not parsed in order")
	}
}

func TestJupiterMissingOutAmountUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"outAmount":""}`))
	}))
	defer server.Close()

	jup, err := NewJupiter(server.URL, "", 0, time.Second)
	if err != nil {
		t.Fatalf("new jupiter: %v", err)
	}
	if _, err := jup.Price(context.Background()); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}
