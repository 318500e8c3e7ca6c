package strategy

import (
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/indicator"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
)

// Reversal trades exhaustion: RSI extremes confirmed by a close outside the Bollinger bands.
type Reversal struct {
	base
	rsiPeriod  int
	bandPeriod int
	bandWidth  float64
	oversold   float64
	overbought float64
	prices     *indicator.Window
}

// ReversalParams tunes the indicator periods and thresholds; zero values take the defaults.
type ReversalParams struct {
	History    int
	RSIPeriod  int
	BandPeriod int
	BandWidth  float64
	Oversold   float64
	Overbought float64
}

// NewReversal builds an RSI + Bollinger reversal strategy.
func NewReversal(p ReversalParams, size Bounds, sizer Sizer) *Reversal {
	if p.RSIPeriod <= 0 {
		p.RSIPeriod = 14
	}
	if p.BandPeriod <= 0 {
		p.BandPeriod = 20
	}
	if p.BandWidth <= 0 {
		p.BandWidth = 2
	}
	if p.Oversold <= 0 {
		p.Oversold = 30
	}
	if p.Overbought <= 0 {
		p.Overbought = 70
	}
	if p.History < max(p.RSIPeriod+1, p.BandPeriod) {
		p.History = max(50, p.RSIPeriod+1, p.BandPeriod)
	}
	return &Reversal{
		base:       newBase("reversal", size, Bounds{0.5, 1.5}, sizer),
		rsiPeriod:  p.RSIPeriod,
		bandPeriod: p.BandPeriod,
		bandWidth:  p.BandWidth,
		oversold:   p.Oversold,
		overbought: p.Overbought,
		prices:     indicator.NewWindow(p.History),
	}
}

// Prime pushes a historical price into the window.
func (r *Reversal) Prime(price float64) { r.prices.Push(price) }

// Evaluate buys when RSI is oversold below the lower band and sells when overbought above the upper band.
func (r *Reversal) Evaluate(s signal.Sample) signal.Signal {
	r.prices.Push(s.Price)
	values := r.prices.Values()

	rsi, ok := indicator.RSI(values, r.rsiPeriod)
	if !ok {
		return r.insufficient(s, len(values), r.rsiPeriod+1)
	}
	bands, ok := indicator.Bollinger(values, r.bandPeriod, r.bandWidth)
	if !ok {
		return r.insufficient(s, len(values), r.bandPeriod)
	}

	switch {
	case rsi < r.oversold && s.Price < bands.Lower:
		return r.trade(signal.Buy, s, "rsi %.2f oversold, price below %.4f", rsi, bands.Lower)
	case rsi > r.overbought && s.Price > bands.Upper:
		return r.trade(signal.Sell, s, "rsi %.2f overbought, price above %.4f", rsi, bands.Upper)
	default:
		return r.hold(s, "rsi %.2f bands [%.4f, %.4f]", rsi, bands.Lower, bands.Upper)
	}
}

// RSI exposes the current RSI reading, if enough samples were seen.
func (r *Reversal) RSI() (float64, bool) {
	return indicator.RSI(r.prices.Values(), r.rsiPeriod)
}
