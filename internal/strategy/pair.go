package strategy

import (
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/indicator"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
)

// PairTrading trades the base asset when its price ratio to a correlated asset strays from the mean.
type PairTrading struct {
	base
	deviation float64
	ratios    *indicator.Window
}

// NewPairTrading builds a pair strategy over a lookback of ratios.
func NewPairTrading(lookback int, deviation float64, size Bounds, sizer Sizer) *PairTrading {
	if lookback <= 0 {
		lookback = 20
	}
	if deviation <= 0 {
		deviation = 0.01
	}
	return &PairTrading{
		base:      newBase("pair_trading", size, Bounds{0.5, 1.5}, sizer),
		deviation: deviation,
		ratios:    indicator.NewWindow(lookback),
	}
}

// Inputs declares the pair price dependency.
func (p *PairTrading) Inputs() Inputs { return NeedsPair }

// Evaluate sells the base asset when the ratio is rich and buys it when cheap.
func (p *PairTrading) Evaluate(s signal.Sample) signal.Signal {
	if s.PairPrice == nil || *s.PairPrice == 0 {
		return p.hold(s, "%s: pair price missing", indicator.ErrInsufficientData)
	}
	ratio := s.Price / *s.PairPrice
	p.ratios.Push(ratio)
	mean, _ := p.ratios.Mean()
	dev := ratio - mean
	switch {
	case dev > p.deviation:
		return p.trade(signal.Sell, s, "ratio %.4f above mean %.4f", ratio, mean)
	case dev < -p.deviation:
		return p.trade(signal.Buy, s, "ratio %.4f below mean %.4f", ratio, mean)
	default:
		return p.hold(s, "ratio %.4f near mean %.4f", ratio, mean)
	}
}
