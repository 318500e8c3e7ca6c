package execution

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/order"
)

// ErrVenueRejected is returned by SimulatedVenue when a failure is rolled.
var ErrVenueRejected = errors.New("venue rejected order")

// SimulatedVenue models a confirmation round-trip: a uniform latency in [MinLatency, MaxLatency]
// and an independent failure probability.
type SimulatedVenue struct {
	MinLatency  time.Duration
	MaxLatency  time.Duration
	FailureRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSimulatedVenue seeds a venue. A zero seed draws from the runtime source.
func NewSimulatedVenue(minLatency, maxLatency time.Duration, failureRate float64, seed uint64) *SimulatedVenue {
	if seed == 0 {
		seed = rand.Uint64()
	}
	if maxLatency < minLatency {
		maxLatency = minLatency
	}
	return &SimulatedVenue{
		MinLatency:  minLatency,
		MaxLatency:  maxLatency,
		FailureRate: failureRate,
		rnd:         rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

func (v *SimulatedVenue) roll() (time.Duration, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.rnd == nil {
		v.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	d := v.MinLatency
	if span := v.MaxLatency - v.MinLatency; span > 0 {
		d += time.Duration(v.rnd.Int64N(int64(span) + 1))
	}
	return d, v.rnd.Float64() < v.FailureRate
}

// Execute waits out the simulated latency unless ctx is canceled first.
func (v *SimulatedVenue) Execute(ctx context.Context, o order.Order) error {
	d, fail := v.roll()
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	if fail {
		return fmt.Errorf("%w: %s", ErrVenueRejected, o.ID)
	}
	return nil
}
