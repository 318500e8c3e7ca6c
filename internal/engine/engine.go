// Package engine assembles the configured feed, strategies, order book, executor and journal
// into one runnable unit.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/config"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/coordinator"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/events"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/exchange"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/execution"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/journal"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/order"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/strategy"
)

const (
	defaultBuffer       = 1024
	defaultStartingCash = 1000.0
)

// Engine is a fully wired decision engine.
type Engine struct {
	Config      *config.Config
	Bus         *events.Bus
	Book        *order.Book
	Executor    *execution.Executor
	Coordinator *coordinator.Coordinator
	Ledger      *journal.Ledger
	Account     *journal.Account
	Store       *journal.Store

	log       zerolog.Logger
	recorders []journal.Recorder
	closers   []io.Closer
}

type options struct {
	feed  exchange.MarketData
	venue execution.Venue
}

// Option overrides a component built from configuration.
type Option func(*options)

// WithFeed replaces the configured market data provider.
func WithFeed(feed exchange.MarketData) Option {
	return func(o *options) { o.feed = feed }
}

// WithVenue replaces the simulated venue.
func WithVenue(v execution.Venue) Option {
	return func(o *options) { o.venue = v }
}

// New validates cfg and builds every component. Streaming feeds are bound to ctx.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	feed := o.feed
	if feed == nil {
		var err error
		feed, err = exchange.NewSource(ctx, exchange.Settings{
			Provider:          cfg.Market.Provider,
			Symbol:            cfg.Market.Symbol,
			BaseURL:           cfg.Market.BaseURL,
			RequestsPerSecond: cfg.Market.RequestsPerSecond,
			Timeout:           time.Duration(cfg.Market.TimeoutMs) * time.Millisecond,
			Seed:              cfg.App.Seed,
			SimulateMissing:   cfg.Market.SimulateMissing,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("market data: %w", err)
		}
	}

	venue := o.venue
	if venue == nil {
		venue = execution.NewSimulatedVenue(cfg.Execution.MinLatency(), cfg.Execution.MaxLatency(), cfg.Execution.FailureRate, cfg.App.Seed)
	}

	e := &Engine{Config: cfg, Bus: events.NewBus(), log: log}
	e.Book = order.NewBook(order.WithPublisher(e.Bus))
	e.Executor = execution.NewExecutor(e.Book, venue, log,
		execution.WithLimits(cfg.Risk),
		execution.WithPublisher(e.Bus),
	)
	e.Coordinator = coordinator.New(feed, e.Executor, log,
		coordinator.WithPublisher(e.Bus),
		coordinator.WithSymbol(cfg.Market.Symbol),
		coordinator.WithSeed(cfg.App.Seed),
		coordinator.WithWarmup(cfg.Market.WarmupDays),
		coordinator.WithVenueJitter(cfg.Market.VenueJitter),
	)

	for i, sc := range cfg.Enabled() {
		s, err := strategy.Build(sc.Kind, sc.Params, sizerFor(cfg.App.Seed, i))
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", sc.Name, err)
		}
		if err := e.Coordinator.Add(strategy.Named(sc.Name, s), sc.Interval()); err != nil {
			return nil, err
		}
	}

	if err := e.openJournal(); err != nil {
		_ = e.Close()
		return nil, err
	}
	return e, nil
}

func sizerFor(seed uint64, i int) strategy.Sizer {
	if seed == 0 {
		return strategy.NewRandomSizer(uint64(time.Now().UnixNano()) + uint64(i))
	}
	return strategy.NewRandomSizer(seed + uint64(i)*7919)
}

func (e *Engine) openJournal() error {
	jc := e.Config.Journal
	cash := jc.StartingCash
	if cash <= 0 {
		cash = defaultStartingCash
	}
	e.Ledger = journal.NewLedger(256)
	e.Account = journal.NewAccount(cash)
	e.recorders = append(e.recorders, e.Ledger, e.Account)

	if jc.JSONLPath != "" {
		rec, err := journal.NewJSONLRecorder(jc.JSONLPath)
		if err != nil {
			return fmt.Errorf("open jsonl journal: %w", err)
		}
		e.recorders = append(e.recorders, rec)
		e.closers = append(e.closers, rec)
	}
	if jc.SQLitePath != "" {
		store, err := journal.OpenStore(jc.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite journal: %w", err)
		}
		e.Store = store
		e.recorders = append(e.recorders, store)
		e.closers = append(e.closers, store)
	}
	return nil
}

// Run drives the coordinator until ctx is canceled, then flushes the journal.
func (e *Engine) Run(ctx context.Context) error {
	buffer := e.Config.Journal.Buffer
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	ch, unsub := e.Bus.Subscribe(buffer)
	pumped := make(chan struct{})
	go func() {
		defer close(pumped)
		// the channel closing ends the pump, so late fills are still journaled
		journal.Pump(context.WithoutCancel(ctx), ch, e.log, e.recorders...)
	}()

	e.log.Info().Strs("strategies", e.Coordinator.Names()).Msg("engine started")
	err := e.Coordinator.Run(ctx)
	unsub()
	<-pumped

	if dropped := e.Bus.Dropped(); dropped > 0 {
		e.log.Warn().Uint64("dropped", dropped).Msg("journal subscriber fell behind")
	}
	counts := e.Book.Counts()
	e.log.Info().
		Int("pending", counts[order.Pending]).
		Int("filled", counts[order.Filled]).
		Int("canceled", counts[order.Canceled]).
		Msg("engine stopped")
	return err
}

// Close releases journal files and databases.
func (e *Engine) Close() error {
	var errs []error
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}
