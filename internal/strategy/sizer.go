package strategy

import (
	"math/rand/v2"
	"sync"
)

// Sizer picks a position size within [lo, hi]. Direction decisions never consult it.
type Sizer interface {
	Size(lo, hi float64) float64
}

// RandomSizer draws sizes uniformly from [lo, hi]. It is safe for concurrent use.
type RandomSizer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSizer seeds a sizer; the same seed reproduces the same size sequence.
func NewRandomSizer(seed uint64) *RandomSizer {
	return &RandomSizer{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Size returns a uniform draw from [lo, hi].
func (r *RandomSizer) Size(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	r.mu.Lock()
	f := r.rnd.Float64()
	r.mu.Unlock()
	return lo + f*(hi-lo)
}

// FixedSizer always returns its value clamped into [lo, hi].
type FixedSizer float64

// Size clamps the fixed value into the requested bounds.
func (f FixedSizer) Size(lo, hi float64) float64 {
	return clamp(float64(f), lo, hi)
}

// Bounds is an inclusive sizing range.
type Bounds struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
}

func (b Bounds) orDefault(def Bounds) Bounds {
	if b.Lo <= 0 && b.Hi <= 0 {
		return def
	}
	if b.Hi < b.Lo {
		b.Hi = b.Lo
	}
	return b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
