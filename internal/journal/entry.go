// Package journal persists the engine's order and signal history: an in-memory ledger, a JSONL
// trade log, a SQLite store and a paper account marked from fills.
package journal

import (
	"context"
	"time"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/events"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/order"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
)

// Entry is the flattened, serializable form of an engine event.
type Entry struct {
	Kind     events.Kind   `json:"kind"`
	Ts       time.Time     `json:"ts"`
	OrderID  string        `json:"order_id,omitempty"`
	Strategy string        `json:"strategy,omitempty"`
	Side     string        `json:"side,omitempty"`
	Amount   float64       `json:"amount"`
	Price    float64       `json:"price,omitempty"`
	Status   order.Status  `json:"status,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Error    string        `json:"error,omitempty"`
	Action   signal.Action `json:"action,omitempty"`
}

// FromEvent converts a bus event. Unknown payloads report false.
func FromEvent(ev events.Event) (Entry, bool) {
	e := Entry{Kind: ev.Kind, Ts: ev.Ts, Error: ev.Err}
	switch p := ev.Payload.(type) {
	case order.Order:
		e.OrderID = p.ID
		e.Strategy = p.Strategy
		e.Side = string(p.Kind)
		e.Amount = p.Amount
		e.Price = p.Price
		e.Status = p.Status
	case signal.Signal:
		e.Strategy = p.Strategy
		e.Action = p.Action
		e.Side = string(p.Action)
		e.Amount = p.Amount
		e.Price = p.Price
		e.Reason = p.Reason
	default:
		return Entry{}, false
	}
	if e.Ts.IsZero() {
		e.Ts = time.Now().UTC()
	}
	return e, true
}

// Recorder captures journal entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}
