package strategy

import (
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/indicator"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
)

// MeanReversion fades deviations of price from its simple moving average.
type MeanReversion struct {
	base
	threshold float64
	prices    *indicator.Window
}

// NewMeanReversion builds a mean-reversion strategy over period samples.
func NewMeanReversion(period int, threshold float64, size Bounds, sizer Sizer) *MeanReversion {
	if period <= 0 {
		period = 20
	}
	if threshold <= 0 {
		threshold = 1.5
	}
	return &MeanReversion{
		base:      newBase("mean_reversion", size, Bounds{0.5, 2}, sizer),
		threshold: threshold,
		prices:    indicator.NewWindow(period),
	}
}

// Prime pushes a historical price into the window.
func (m *MeanReversion) Prime(price float64) { m.prices.Push(price) }

// Evaluate sells when price is threshold above the average and buys when it is threshold below.
func (m *MeanReversion) Evaluate(s signal.Sample) signal.Signal {
	m.prices.Push(s.Price)
	if !m.prices.Full() {
		return m.insufficient(s, m.prices.Len(), m.prices.Cap())
	}
	avg, _ := m.prices.Mean()
	deviation := s.Price - avg
	switch {
	case deviation > m.threshold:
		return m.trade(signal.Sell, s, "deviation %.4f above sma %.4f", deviation, avg)
	case deviation < -m.threshold:
		return m.trade(signal.Buy, s, "deviation %.4f below sma %.4f", deviation, avg)
	default:
		return m.hold(s, "deviation %.4f within %.2f", deviation, m.threshold)
	}
}
