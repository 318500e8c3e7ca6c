// Package coordinator runs every registered strategy on its own ticker against a shared market
// data feed and forwards actionable signals to the executor.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/events"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/exchange"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/execution"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/metrics"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/strategy"
)

var (
	// ErrNoStrategies is returned by Run when nothing was registered.
	ErrNoStrategies = errors.New("no strategies registered")
	// ErrUnknownStrategy is returned by RunOnce for an unregistered name.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Venues quoted in the simulated arbitrage snapshot.
var Venues = []string{"ExchangeA", "ExchangeB", "ExchangeC"}

const (
	// DefaultVenueJitter bounds how far each simulated venue quote strays from the fetched price.
	DefaultVenueJitter = 0.2

	pairRatioMin = 0.015
	pairRatioMax = 0.025
)

// Submitter accepts signals for execution.
type Submitter interface {
	Submit(ctx context.Context, sig signal.Signal) (execution.Result, error)
}

type runner struct {
	mu       sync.Mutex // serializes Evaluate between the loop and RunOnce
	strategy strategy.Strategy
	interval time.Duration
	needs    strategy.Inputs
}

// Coordinator owns one loop per strategy. Strategies never share state; the order book behind
// the Submitter is the only shared mutable resource.
type Coordinator struct {
	feed   exchange.MarketData
	exec   Submitter
	log    zerolog.Logger
	pub    events.Publisher
	symbol string
	now    func() time.Time
	warmup int
	jitter float64

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu      sync.Mutex
	runners []*runner
	byName  map[string]*runner
	running bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPublisher emits SignalEmitted events for actionable signals.
func WithPublisher(pub events.Publisher) Option {
	return func(c *Coordinator) {
		if pub != nil {
			c.pub = pub
		}
	}
}

// WithSymbol labels samples with the traded instrument.
func WithSymbol(symbol string) Option {
	return func(c *Coordinator) { c.symbol = symbol }
}

// WithClock overrides sample timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithSeed makes the simulated venue and pair quotes reproducible.
func WithSeed(seed uint64) Option {
	return func(c *Coordinator) { c.rnd = rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb)) }
}

// WithWarmup backfills price-only strategies with days of history before the first tick when
// the feed supports it.
func WithWarmup(days int) Option {
	return func(c *Coordinator) { c.warmup = days }
}

// WithVenueJitter sets the half-width of the uniform noise applied to each simulated venue
// quote. The widest possible spread is twice this value.
func WithVenueJitter(jitter float64) Option {
	return func(c *Coordinator) {
		if jitter > 0 {
			c.jitter = jitter
		}
	}
}

// New constructs a coordinator over feed and exec.
func New(feed exchange.MarketData, exec Submitter, log zerolog.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		feed:   feed,
		exec:   exec,
		log:    log,
		pub:    events.Nop{},
		jitter: DefaultVenueJitter,
		now:    func() time.Time { return time.Now().UTC() },
		rnd:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		byName: make(map[string]*runner),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add registers s to tick every interval. Names must be unique.
func (c *Coordinator) Add(s strategy.Strategy, interval time.Duration) error {
	if s == nil {
		return errors.New("nil strategy")
	}
	if interval <= 0 {
		return fmt.Errorf("strategy %s: interval must be positive", s.Name())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return fmt.Errorf("strategy %s: coordinator already running", s.Name())
	}
	if _, dup := c.byName[s.Name()]; dup {
		return fmt.Errorf("strategy %s: already registered", s.Name())
	}
	r := &runner{strategy: s, interval: interval, needs: strategy.Requirements(s)}
	c.runners = append(c.runners, r)
	c.byName[s.Name()] = r
	return nil
}

// Names lists registered strategies in registration order.
func (c *Coordinator) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.runners))
	for i, r := range c.runners {
		out[i] = r.strategy.Name()
	}
	return out
}

// Run ticks every strategy until ctx is canceled. A Submit already in flight when ctx ends runs
// to completion; Run returns once every loop has exited.
func (c *Coordinator) Run(ctx context.Context) error {
	c.mu.Lock()
	if len(c.runners) == 0 {
		c.mu.Unlock()
		return ErrNoStrategies
	}
	if c.running {
		c.mu.Unlock()
		return errors.New("coordinator already running")
	}
	c.running = true
	runners := append([]*runner(nil), c.runners...)
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	if c.warmup > 0 {
		c.Warmup(ctx, c.warmup)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range runners {
		g.Go(func() error {
			c.loop(gctx, r)
			return nil
		})
	}
	c.log.Info().Int("strategies", len(runners)).Msg("coordinator started")
	err := g.Wait()
	c.log.Info().Msg("coordinator stopped")
	return err
}

func (c *Coordinator) loop(ctx context.Context, r *runner) {
	log := c.log.With().Str("strategy", r.strategy.Name()).Logger()
	log.Debug().Dur("interval", r.interval).Msg("strategy loop started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		_, _, _ = c.tick(ctx, r, log)
		select {
		case <-ctx.Done():
			log.Debug().Msg("strategy loop stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single synchronous tick of the named strategy.
func (c *Coordinator) RunOnce(ctx context.Context, name string) (signal.Signal, execution.Result, error) {
	c.mu.Lock()
	r, ok := c.byName[name]
	c.mu.Unlock()
	if !ok {
		return signal.Signal{}, execution.Result{}, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
	}
	return c.tick(ctx, r, c.log.With().Str("strategy", name).Logger())
}

func (c *Coordinator) tick(ctx context.Context, r *runner, log zerolog.Logger) (signal.Signal, execution.Result, error) {
	name := r.strategy.Name()
	if ctx.Err() != nil {
		return signal.Signal{}, execution.Result{}, ctx.Err()
	}
	sample, err := c.sample(ctx, r.needs)
	if err != nil {
		metrics.TickSkipsTotal.WithLabelValues(name).Inc()
		if ctx.Err() == nil {
			log.Warn().Err(err).Msg("market data unavailable; tick skipped")
		}
		return signal.Signal{}, execution.Result{}, err
	}
	metrics.TicksTotal.WithLabelValues(name).Inc()

	r.mu.Lock()
	sig := r.strategy.Evaluate(sample)
	r.mu.Unlock()
	if sig.Strategy == "" {
		sig.Strategy = name
	}
	metrics.SignalsTotal.WithLabelValues(name, string(sig.Action)).Inc()

	if sig.IsHold() {
		log.Debug().Float64("px", sample.Price).Str("reason", sig.Reason).Msg("hold")
		return sig, execution.Result{Held: true}, nil
	}

	log.Info().Str("action", string(sig.Action)).Float64("amount", sig.Amount).Float64("px", sig.Price).Str("reason", sig.Reason).Msg("signal")
	c.pub.Publish(events.Event{Kind: events.SignalEmitted, Ts: sig.Ts, Payload: sig})

	// shutdown must not abandon an order between create and fill
	res, err := c.exec.Submit(context.WithoutCancel(ctx), sig)
	if err != nil {
		log.Error().Err(err).Msg("submit failed")
		return sig, res, err
	}
	return sig, res, nil
}

func (c *Coordinator) sample(ctx context.Context, needs strategy.Inputs) (signal.Sample, error) {
	price, err := c.feed.Price(ctx)
	if err != nil {
		return signal.Sample{}, dataErr("price", err)
	}
	s := signal.Sample{Symbol: c.symbol, Price: price, Ts: c.now()}

	if needs.Has(strategy.NeedsVolume) {
		vs, ok := c.feed.(exchange.VolumeSource)
		if !ok {
			return signal.Sample{}, dataErr("volume", errors.New("feed does not report volume"))
		}
		v, err := vs.Volume(ctx)
		if err != nil {
			return signal.Sample{}, dataErr("volume", err)
		}
		s = s.WithVolume(v)
	}
	if needs.Has(strategy.NeedsSentiment) {
		ss, ok := c.feed.(exchange.SentimentSource)
		if !ok {
			return signal.Sample{}, dataErr("sentiment", errors.New("feed does not report sentiment"))
		}
		score, headline, err := ss.Sentiment(ctx)
		if err != nil {
			return signal.Sample{}, dataErr("sentiment", err)
		}
		s = s.WithSentiment(score, headline)
	}
	if needs.Has(strategy.NeedsPair) {
		px, err := c.pairPrice(ctx, price)
		if err != nil {
			return signal.Sample{}, dataErr("pair price", err)
		}
		s = s.WithPairPrice(px)
	}
	if needs.Has(strategy.NeedsQuotes) {
		s = s.WithQuotes(c.quotes(price))
	}
	return s, nil
}

func dataErr(input string, err error) error {
	if errors.Is(err, exchange.ErrDataUnavailable) {
		return fmt.Errorf("%s: %w", input, err)
	}
	return fmt.Errorf("%w: %s: %w", exchange.ErrDataUnavailable, input, err)
}

// pairPrice prices the correlated instrument, simulating it from the base price when the feed
// cannot.
func (c *Coordinator) pairPrice(ctx context.Context, base float64) (float64, error) {
	if ps, ok := c.feed.(exchange.PairSource); ok {
		return ps.PairPrice(ctx)
	}
	c.rndMu.Lock()
	ratio := pairRatioMin + c.rnd.Float64()*(pairRatioMax-pairRatioMin)
	c.rndMu.Unlock()
	return base * ratio, nil
}

// quotes derives one snapshot per venue from a single fetched price.
func (c *Coordinator) quotes(price float64) []signal.Quote {
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	out := make([]signal.Quote, len(Venues))
	for i, venue := range Venues {
		out[i] = signal.Quote{Venue: venue, Price: price + (c.rnd.Float64()*2-1)*c.jitter}
	}
	return out
}

// Warmup pushes daily history into the price windows of primable strategies so indicators are
// ready before live ticks. Strategies keeping other state (grid levels, last price) are left
// untouched and nothing is evaluated.
func (c *Coordinator) Warmup(ctx context.Context, days int) int {
	hs, ok := c.feed.(exchange.HistorySource)
	if !ok {
		return 0
	}
	points, err := hs.History(ctx, days)
	if err != nil {
		c.log.Warn().Err(err).Int("days", days).Msg("warmup history unavailable")
		return 0
	}
	c.mu.Lock()
	runners := append([]*runner(nil), c.runners...)
	c.mu.Unlock()

	primed := 0
	for _, r := range runners {
		primer, ok := strategy.AsPrimer(r.strategy)
		if !ok || r.needs != 0 {
			continue
		}
		r.mu.Lock()
		for _, p := range points {
			primer.Prime(p.Price)
		}
		r.mu.Unlock()
		primed++
	}
	c.log.Info().Int("points", len(points)).Int("strategies", primed).Msg("warmup complete")
	return primed
}
