// Package signal standardizes payloads shared between data ingestion, strategies and execution.
package signal

import (
	"fmt"
	"time"
)

// Quote is a single venue price captured for cross-venue comparisons.
type Quote struct {
	Venue string
	Price float64
}

// Sample models one timestamped market observation consumed by strategies.
// Optional inputs are nil (or empty) when the feed did not provide them.
type Sample struct {
	Symbol    string
	Price     float64
	Volume    *uint64
	Sentiment *float64
	Headline  string
	PairPrice *float64
	Quotes    []Quote
	Ts        time.Time
}

// WithVolume returns a copy of the sample carrying the supplied volume.
func (s Sample) WithVolume(v uint64) Sample {
	s.Volume = &v
	return s
}

// WithSentiment returns a copy of the sample carrying a sentiment score and its headline.
func (s Sample) WithSentiment(score float64, headline string) Sample {
	s.Sentiment = &score
	s.Headline = headline
	return s
}

// WithPairPrice returns a copy of the sample carrying the correlated instrument price.
func (s Sample) WithPairPrice(px float64) Sample {
	s.PairPrice = &px
	return s
}

// WithQuotes returns a copy of the sample carrying a venue snapshot.
func (s Sample) WithQuotes(quotes []Quote) Sample {
	s.Quotes = append([]Quote(nil), quotes...)
	return s
}

// Action enumerates strategy decisions.
type Action string

const (
	Hold Action = "HOLD"
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// Signal expresses a strategy decision for one evaluation tick.
type Signal struct {
	Strategy string
	Action   Action
	Amount   float64
	Price    float64 // reference price the decision was taken at
	Reason   string
	Ts       time.Time
	// Hedge is the second leg of a paired instruction (arbitrage buys low and sells high).
	Hedge *Signal
}

// HoldSignal builds a no-op decision with a diagnostic reason.
func HoldSignal(reason string, args ...any) Signal {
	if len(args) > 0 {
		reason = fmt.Sprintf(reason, args...)
	}
	return Signal{Action: Hold, Reason: reason}
}

// IsHold reports whether the signal carries no trading intent.
func (s Signal) IsHold() bool { return s.Action == Hold || s.Action == "" }

// Legs flattens a signal and its hedge into the ordered list of instructions to execute.
func (s Signal) Legs() []Signal {
	if s.IsHold() {
		return nil
	}
	legs := []Signal{s}
	if s.Hedge != nil && !s.Hedge.IsHold() {
		hedge := *s.Hedge
		if hedge.Strategy == "" {
			hedge.Strategy = s.Strategy
		}
		legs = append(legs, hedge)
	}
	legs[0].Hedge = nil
	return legs
}
