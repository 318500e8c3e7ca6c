package strategy

import (
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/indicator"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
)

// momentumSpan is the number of samples compared: newest against the oldest of the last three.
const momentumSpan = 3

// Momentum follows the short-term price direction.
type Momentum struct {
	base
	prices *indicator.Window
}

// NewMomentum builds a momentum strategy retaining history samples.
func NewMomentum(history int, size Bounds, sizer Sizer) *Momentum {
	if history < momentumSpan {
		history = 20
	}
	return &Momentum{
		base:   newBase("momentum", size, Bounds{0.1, 1}, sizer),
		prices: indicator.NewWindow(history),
	}
}

// Prime pushes a historical price into the window.
func (m *Momentum) Prime(price float64) { m.prices.Push(price) }

// Evaluate buys on a positive delta and sells on a negative one.
func (m *Momentum) Evaluate(s signal.Sample) signal.Signal {
	m.prices.Push(s.Price)
	if !m.prices.Ready(momentumSpan) {
		return m.insufficient(s, m.prices.Len(), momentumSpan)
	}
	anchor, _ := m.prices.Ago(momentumSpan - 1)
	delta := s.Price - anchor
	switch {
	case delta > 0:
		return m.trade(signal.Buy, s, "momentum +%.4f", delta)
	case delta < 0:
		return m.trade(signal.Sell, s, "momentum %.4f", delta)
	default:
		return m.hold(s, "flat momentum")
	}
}
