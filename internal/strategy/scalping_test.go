package strategy

import (
	"testing"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
)

func TestScalpingFirstTickHolds(t *testing.T) {
	strat := NewScalping(0.3, Bounds{}, NewRandomSizer(9))
	expectAction(t, strat.Evaluate(sample(25)), signal.Hold)
}

func TestScalpingSellsUpMove(t *testing.T) {
	strat := NewScalping(0.3, Bounds{}, NewRandomSizer(9))
	sig := feed(strat, 25.00, 25.10)
	expectAction(t, sig, signal.Sell)
	expectAmountIn(t, sig, 0.1, 0.5)
}

func TestScalpingBuysDownMove(t *testing.T) {
	strat := NewScalping(0.3, Bounds{}, NewRandomSizer(9))
	expectAction(t, feed(strat, 25.00, 24.90), signal.Buy)
}

func TestScalpingIgnoresSmallMove(t *testing.T) {
	strat := NewScalping(0.3, Bounds{}, NewRandomSizer(9))
	expectAction(t, feed(strat, 25.00, 25.05), signal.Hold)
}
