package strategy

import (
	"math"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
)

// Scalping fades small tick-to-tick moves.
type Scalping struct {
	base
	thresholdPct float64
	lastPrice    float64
	seen         bool
}

// NewScalping builds a scalper reacting to moves above thresholdPct percent.
func NewScalping(thresholdPct float64, size Bounds, sizer Sizer) *Scalping {
	if thresholdPct <= 0 {
		thresholdPct = 0.3
	}
	return &Scalping{
		base:         newBase("scalping", size, Bounds{0.1, 0.5}, sizer),
		thresholdPct: thresholdPct,
	}
}

// Evaluate sells into upward moves and buys into downward moves.
func (sc *Scalping) Evaluate(s signal.Sample) signal.Signal {
	last, seen := sc.lastPrice, sc.seen
	sc.lastPrice, sc.seen = s.Price, true
	if !seen || last == 0 {
		return sc.insufficient(s, 1, 2)
	}

	change := s.Price - last
	pct := change / last * 100
	if math.Abs(pct) <= sc.thresholdPct {
		return sc.hold(s, "change %.3f%% within %.2f%%", pct, sc.thresholdPct)
	}
	if change > 0 {
		return sc.trade(signal.Sell, s, "scalp up move %.3f%%", pct)
	}
	return sc.trade(signal.Buy, s, "scalp down move %.3f%%", pct)
}
