// Package execution turns strategy signals into tracked orders and drives them through a venue.
package execution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/events"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/metrics"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/order"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/risk"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
)

var (
	// ErrInvalidSignal rejects a non-Hold signal whose amount or action cannot become an order.
	ErrInvalidSignal = errors.New("invalid signal")
	// ErrRiskRejected wraps risk.ErrLimitExceeded for signals over the configured caps.
	ErrRiskRejected = errors.New("rejected by risk limits")
	// ErrExecutionFailed reports a venue failure; the order is left Pending.
	ErrExecutionFailed = errors.New("execution failed")
	// ErrCanceled reports that the order was canceled before the venue confirmed it.
	ErrCanceled = errors.New("order canceled before fill")
)

// Venue performs the (simulated) execution step for a single order.
type Venue interface {
	Execute(ctx context.Context, o order.Order) error
}

// VenueFunc adapts a function to Venue.
type VenueFunc func(ctx context.Context, o order.Order) error

// Execute implements Venue.
func (f VenueFunc) Execute(ctx context.Context, o order.Order) error { return f(ctx, o) }

// Result describes what Submit did with a signal.
type Result struct {
	Held   bool
	Orders []order.Order
}

// Executor is safe for concurrent use by every strategy runner.
type Executor struct {
	book   *order.Book
	venue  Venue
	log    zerolog.Logger
	limits risk.Limits
	pub    events.Publisher
}

// Option configures an Executor.
type Option func(*Executor)

// WithLimits installs per-order risk limits.
func WithLimits(l risk.Limits) Option {
	return func(e *Executor) { e.limits = l }
}

// WithPublisher reports execution failures as OrderFailed events.
func WithPublisher(pub events.Publisher) Option {
	return func(e *Executor) {
		if pub != nil {
			e.pub = pub
		}
	}
}

// NewExecutor wires a book and venue together.
func NewExecutor(book *order.Book, venue Venue, log zerolog.Logger, opts ...Option) *Executor {
	e := &Executor{book: book, venue: venue, log: log, pub: events.Nop{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Book exposes the shared order book.
func (e *Executor) Book() *order.Book { return e.book }

// Submit converts sig into one order per leg and executes them in order. Every leg is validated
// before any order is created. On a leg failure the orders already processed are returned with
// the error.
func (e *Executor) Submit(ctx context.Context, sig signal.Signal) (Result, error) {
	if sig.IsHold() {
		return Result{Held: true}, nil
	}
	legs := sig.Legs()
	kinds := make([]order.Kind, len(legs))
	for i, leg := range legs {
		kind, err := e.validate(leg)
		if err != nil {
			return Result{}, err
		}
		kinds[i] = kind
	}

	var res Result
	for i, leg := range legs {
		o, err := e.execute(ctx, leg, kinds[i])
		if o.ID != "" {
			res.Orders = append(res.Orders, o)
		}
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

func (e *Executor) validate(leg signal.Signal) (order.Kind, error) {
	log := e.log.With().Str("strategy", leg.Strategy).Str("action", string(leg.Action)).Float64("amount", leg.Amount).Logger()

	var kind order.Kind
	switch leg.Action {
	case signal.Buy:
		kind = order.Buy
	case signal.Sell:
		kind = order.Sell
	default:
		log.Warn().Msg("signal action cannot be executed")
		return "", fmt.Errorf("%w: action %q", ErrInvalidSignal, leg.Action)
	}
	if !(leg.Amount > 0) {
		log.Warn().Msg("signal amount must be positive")
		return "", fmt.Errorf("%w: amount %v", ErrInvalidSignal, leg.Amount)
	}
	if err := e.limits.Check(leg.Amount, leg.Price); err != nil {
		log.Warn().Err(err).Msg("signal rejected by risk")
		metrics.OrdersTotal.WithLabelValues(string(kind), "REJECTED").Inc()
		return "", fmt.Errorf("%w: %w", ErrRiskRejected, err)
	}
	return kind, nil
}

func (e *Executor) execute(ctx context.Context, leg signal.Signal, kind order.Kind) (order.Order, error) {
	o, err := e.book.CreateFor(leg.Strategy, kind, leg.Amount, leg.Price)
	if err != nil {
		return order.Order{}, fmt.Errorf("create order: %w", err)
	}
	log := e.log.With().Str("strategy", o.Strategy).Str("order_id", o.ID).Str("kind", string(o.Kind)).Float64("amount", o.Amount).Logger()
	log.Info().Str("reason", leg.Reason).Msg("order created")

	start := time.Now()
	err = e.venue.Execute(ctx, o)
	metrics.ExecutionSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error().Err(err).Msg("execution failed; order left pending")
		metrics.OrdersTotal.WithLabelValues(string(kind), string(order.Pending)).Inc()
		e.pub.Publish(events.Event{Kind: events.OrderFailed, Ts: time.Now().UTC(), Payload: o, Err: err.Error()})
		return o, fmt.Errorf("%w: %s: %w", ErrExecutionFailed, o.ID, err)
	}

	filled, err := e.book.MarkFilled(o.ID)
	if err != nil {
		if errors.Is(err, order.ErrInvalidTransition) && filled.Status == order.Canceled {
			log.Warn().Msg("order canceled while executing; fill discarded")
			return filled, fmt.Errorf("%w: %s", ErrCanceled, o.ID)
		}
		return o, fmt.Errorf("mark filled: %w", err)
	}
	metrics.OrdersTotal.WithLabelValues(string(kind), string(order.Filled)).Inc()
	log.Info().Float64("px", filled.Price).Msg("order filled")
	return filled, nil
}

// Cancel cancels a Pending order on behalf of an operator.
func (e *Executor) Cancel(id string) (order.Order, error) {
	o, err := e.book.Cancel(id)
	if err != nil {
		return o, err
	}
	metrics.OrdersTotal.WithLabelValues(string(o.Kind), string(order.Canceled)).Inc()
	e.log.Info().Str("order_id", id).Msg("order canceled")
	return o, nil
}
