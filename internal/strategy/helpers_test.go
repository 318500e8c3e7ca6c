package strategy

import (
	"testing"
	"time"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
)

func sample(px float64) signal.Sample {
	return signal.Sample{Symbol: "SOLUSD", Price: px, Ts: time.Now()}
}

func feed(s Strategy, prices ...float64) signal.Signal {
	var sig signal.Signal
	for _, px := range prices {
		sig = s.Evaluate(sample(px))
	}
	return sig
}

func repeat(px float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = px
	}
	return out
}

func expectAction(t *testing.T, sig signal.Signal, want signal.Action) {
	t.Helper()
	if sig.Action != want {
		t.Fatalf("expected %s, got %s (%s)", want, sig.Action, sig.Reason)
	}
}

func expectAmountIn(t *testing.T, sig signal.Signal, lo, hi float64) {
	t.Helper()
	if sig.Amount < lo || sig.Amount > hi {
		t.Fatalf("amount %.4f outside [%.2f, %.2f]", sig.Amount, lo, hi)
	}
}
