package strategy

import "github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"

// minArbitrageVenues is the number of simultaneous quotes required to look for a spread.
const minArbitrageVenues = 3

// Arbitrage buys on the cheapest venue and sells on the richest when the spread is wide enough.
type Arbitrage struct {
	base
	threshold float64
}

// NewArbitrage builds an arbitrage strategy triggering on spreads above threshold.
func NewArbitrage(threshold float64, size Bounds, sizer Sizer) *Arbitrage {
	if threshold <= 0 {
		threshold = 0.5
	}
	return &Arbitrage{
		base:      newBase("arbitrage", size, Bounds{1, 1}, sizer),
		threshold: threshold,
	}
}

// Inputs declares the venue snapshot dependency.
func (a *Arbitrage) Inputs() Inputs { return NeedsQuotes }

// Evaluate returns a Buy at the lowest quote carrying a Sell hedge at the highest.
func (a *Arbitrage) Evaluate(s signal.Sample) signal.Signal {
	if len(s.Quotes) < minArbitrageVenues {
		return a.insufficient(s, len(s.Quotes), minArbitrageVenues)
	}
	lo, hi, spread := Spread(s.Quotes)
	if spread <= a.threshold {
		return a.hold(s, "spread %.4f within %.2f", spread, a.threshold)
	}

	amount := a.sizer.Size(a.size.Lo, a.size.Hi)
	buy := signal.Signal{
		Strategy: a.name,
		Action:   signal.Buy,
		Amount:   amount,
		Price:    lo.Price,
		Reason:   "arbitrage buy on " + lo.Venue,
		Ts:       s.Ts,
	}
	buy.Hedge = &signal.Signal{
		Strategy: a.name,
		Action:   signal.Sell,
		Amount:   amount,
		Price:    hi.Price,
		Reason:   "arbitrage sell on " + hi.Venue,
		Ts:       s.Ts,
	}
	return buy
}

// Spread returns the cheapest and richest quotes and the price gap between them. quotes must
// not be empty.
func Spread(quotes []signal.Quote) (lo, hi signal.Quote, spread float64) {
	lo, hi = quotes[0], quotes[0]
	for _, q := range quotes[1:] {
		if q.Price < lo.Price {
			lo = q
		}
		if q.Price > hi.Price {
			hi = q
		}
	}
	return lo, hi, hi.Price - lo.Price
}
