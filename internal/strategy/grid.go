package strategy

import (
	"math"
	"sort"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
)

// Grid trades whenever price comes within half a step of one of its levels, then moves that
// level one step further in the crossed direction.
type Grid struct {
	base
	step      float64
	perSide   int
	basePrice float64
	levels    []float64
}

// NewGrid builds a grid strategy. A non-positive basePrice anchors the grid on the first sample.
func NewGrid(step float64, perSide int, basePrice float64, size Bounds, sizer Sizer) *Grid {
	if step <= 0 {
		step = 0.5
	}
	if perSide <= 0 {
		perSide = 5
	}
	g := &Grid{
		base:      newBase("grid", size, Bounds{0.5, 1.5}, sizer),
		step:      step,
		perSide:   perSide,
		basePrice: basePrice,
	}
	if basePrice > 0 {
		g.initLevels(basePrice)
	}
	return g
}

func (g *Grid) initLevels(basePrice float64) {
	g.levels = make([]float64, 0, 2*g.perSide)
	for i := g.perSide; i >= 1; i-- {
		g.levels = append(g.levels, basePrice-g.step*float64(i))
	}
	for i := 1; i <= g.perSide; i++ {
		g.levels = append(g.levels, basePrice+g.step*float64(i))
	}
}

// Levels returns a copy of the current sorted grid levels.
func (g *Grid) Levels() []float64 {
	return append([]float64(nil), g.levels...)
}

// Evaluate trades at most one level per tick.
func (g *Grid) Evaluate(s signal.Sample) signal.Signal {
	if g.levels == nil {
		g.initLevels(s.Price)
		return g.hold(s, "grid anchored at %.4f", s.Price)
	}

	for i, level := range g.levels {
		if math.Abs(s.Price-level) >= g.step/2 {
			continue
		}
		var sig signal.Signal
		if s.Price > level {
			sig = g.trade(signal.Sell, s, "price above grid level %.4f", level)
			g.levels[i] = level + g.step
		} else {
			sig = g.trade(signal.Buy, s, "price at/below grid level %.4f", level)
			g.levels[i] = level - g.step
		}
		sort.Float64s(g.levels)
		return sig
	}
	return g.hold(s, "no grid level within %.4f", g.step/2)
}
