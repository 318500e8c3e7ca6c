package strategy

import (
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/indicator"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
)

// Breakout trades moves beyond the support/resistance range of the recent lookback.
type Breakout struct {
	base
	threshold float64
	prices    *indicator.Window
}

// NewBreakout builds a breakout strategy. The window holds lookback samples including the
// current one; levels come from the samples preceding it.
func NewBreakout(lookback int, threshold float64, size Bounds, sizer Sizer) *Breakout {
	if lookback < 2 {
		lookback = 20
	}
	if threshold <= 0 {
		threshold = 0.02
	}
	return &Breakout{
		base:      newBase("breakout", size, Bounds{1, 3}, sizer),
		threshold: threshold,
		prices:    indicator.NewWindow(lookback),
	}
}

// Prime pushes a historical price into the window.
func (b *Breakout) Prime(price float64) { b.prices.Push(price) }

// Evaluate emits Buy above resistance*(1+threshold) and Sell below support*(1-threshold).
func (b *Breakout) Evaluate(s signal.Sample) signal.Signal {
	b.prices.Push(s.Price)
	if !b.prices.Full() {
		return b.insufficient(s, b.prices.Len(), b.prices.Cap())
	}

	prior := b.prices.Values()
	prior = prior[:len(prior)-1]
	support, resistance := prior[0], prior[0]
	for _, px := range prior[1:] {
		support = min(support, px)
		resistance = max(resistance, px)
	}

	switch {
	case s.Price > resistance*(1+b.threshold):
		return b.trade(signal.Buy, s, "breakout above resistance %.4f", resistance)
	case s.Price < support*(1-b.threshold):
		return b.trade(signal.Sell, s, "breakdown below support %.4f", support)
	default:
		return b.hold(s, "inside range [%.4f, %.4f]", support, resistance)
	}
}
