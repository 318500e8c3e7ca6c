package risk

import (
	"errors"
	"testing"
)

func TestAllow(t *testing.T) {
	limits := Limits{MaxAmountPerOrder: 3}
	if !limits.Allow(2.9) {
		t.Fatalf("expected amount under limit to pass")
	}
	if limits.Allow(3.1) {
		t.Fatalf("expected amount above limit to fail")
	}
	if !(Limits{}).Allow(1e9) {
		t.Fatalf("zero limits must not reject")
	}
}

func TestCheckNotional(t *testing.T) {
	limits := Limits{MaxNotionalPerOrder: 50}
	if err := limits.Check(2, 24.9); err != nil {
		t.Fatalf("expected 49.8 notional to pass, got %v", err)
	}
	if err := limits.Check(2, 25.1); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
	if err := limits.Check(100, 0); err != nil {
		t.Fatalf("unknown price skips notional check, got %v", err)
	}
}
