package exchange

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
)

// Headline is a canned news item with its sentiment score.
type Headline struct {
	Text  string
	Score float64
}

// DefaultHeadlines is the news flow replayed by the stub.
var DefaultHeadlines = []Headline{
	{"Solana adoption rises among institutions", 0.8},
	{"Crypto market experiences significant pullback", -0.7},
	{"Solana announces breakthrough in TPS performance", 0.9},
	{"Regulatory uncertainty looms over crypto markets", -0.6},
	{"Stable price action observed for Solana", 0.0},
}

const (
	stubMinPrice  = 20.0
	stubMaxPrice  = 30.0
	stubMaxStep   = 0.25
	stubMinVolume = 5000
	stubMaxVolume = 20000
)

// Stub is a seeded offline source: a bounded random walk in [20, 30], volume in [5000, 20000]
// and headlines drawn from DefaultHeadlines. It is safe for concurrent use.
type Stub struct {
	mu    sync.Mutex
	rnd   *rand.Rand
	price float64
}

// NewStub seeds the walk. Equal seeds replay equal sequences.
func NewStub(seed uint64) *Stub {
	rnd := rand.New(rand.NewPCG(seed, seed^0x5bd1e995))
	return &Stub{rnd: rnd, price: stubMinPrice + rnd.Float64()*(stubMaxPrice-stubMinPrice)}
}

// Price advances the walk by one step.
func (s *Stub) Price(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, unavailable("%v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.price + (s.rnd.Float64()*2-1)*stubMaxStep
	if next < stubMinPrice {
		next = 2*stubMinPrice - next
	}
	if next > stubMaxPrice {
		next = 2*stubMaxPrice - next
	}
	s.price = next
	return math.Round(next*100) / 100, nil
}

// Volume draws a traded volume.
func (s *Stub) Volume(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, unavailable("%v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return stubMinVolume + s.rnd.Uint64N(stubMaxVolume-stubMinVolume+1), nil
}

// Sentiment replays a random canned headline.
func (s *Stub) Sentiment(ctx context.Context) (float64, string, error) {
	if err := ctx.Err(); err != nil {
		return 0, "", unavailable("%v", err)
	}
	s.mu.Lock()
	h := DefaultHeadlines[s.rnd.IntN(len(DefaultHeadlines))]
	s.mu.Unlock()
	return h.Score, h.Text, nil
}
