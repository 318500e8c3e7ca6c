// Package strategy contains the signal generators evaluated by the coordinator on every tick.
package strategy

import (
	"fmt"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/indicator"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
)

// Strategy turns one market sample into a decision. Evaluate mutates the strategy's own
// windows exactly once per call; implementations are not safe for concurrent use.
type Strategy interface {
	Name() string
	Evaluate(s signal.Sample) signal.Signal
}

// Inputs flags the optional sample fields a strategy consumes.
type Inputs uint8

const (
	NeedsVolume Inputs = 1 << iota
	NeedsSentiment
	NeedsPair
	NeedsQuotes
)

// Has reports whether flag is set.
func (i Inputs) Has(flag Inputs) bool { return i&flag != 0 }

// InputAware is implemented by strategies that need more than the price.
type InputAware interface {
	Inputs() Inputs
}

// Requirements returns the optional inputs s consumes.
func Requirements(s Strategy) Inputs {
	if ia, ok := s.(InputAware); ok {
		return ia.Inputs()
	}
	return 0
}

// Primer is implemented by strategies whose state is only a price window. Prime pushes a price
// without deciding, so history can be replayed before live samples arrive.
type Primer interface {
	Prime(price float64)
}

// AsPrimer returns the Primer behind s, looking through Named wrappers.
func AsPrimer(s Strategy) (Primer, bool) {
	for {
		if p, ok := s.(Primer); ok {
			return p, true
		}
		n, ok := s.(*named)
		if !ok {
			return nil, false
		}
		s = n.inner
	}
}

// base carries the naming and sizing shared by every variant.
type base struct {
	name  string
	size  Bounds
	sizer Sizer
}

func newBase(name string, size, def Bounds, sizer Sizer) base {
	if sizer == nil {
		sizer = NewRandomSizer(1)
	}
	return base{name: name, size: size.orDefault(def), sizer: sizer}
}

// Name returns the strategy identifier used in logs and metrics.
func (b base) Name() string { return b.name }

func (b base) hold(s signal.Sample, reason string, args ...any) signal.Signal {
	sig := signal.HoldSignal(reason, args...)
	sig.Strategy = b.name
	sig.Price = s.Price
	sig.Ts = s.Ts
	return sig
}

func (b base) insufficient(s signal.Sample, have, need int) signal.Signal {
	return b.hold(s, "%s: %d/%d samples", indicator.ErrInsufficientData, have, need)
}

func (b base) trade(action signal.Action, s signal.Sample, reason string, args ...any) signal.Signal {
	return signal.Signal{
		Strategy: b.name,
		Action:   action,
		Amount:   b.sizer.Size(b.size.Lo, b.size.Hi),
		Price:    s.Price,
		Reason:   fmt.Sprintf(reason, args...),
		Ts:       s.Ts,
	}
}

// Named reports s under a configured name. Emitted signals and their hedge legs are
// re-attributed; the input declaration of s is kept.
func Named(name string, s Strategy) Strategy {
	if name == "" || name == s.Name() {
		return s
	}
	return &named{name: name, inner: s}
}

type named struct {
	name  string
	inner Strategy
}

func (n *named) Name() string   { return n.name }
func (n *named) Inputs() Inputs { return Requirements(n.inner) }

func (n *named) Evaluate(s signal.Sample) signal.Signal {
	sig := n.inner.Evaluate(s)
	sig.Strategy = n.name
	if sig.Hedge != nil {
		hedge := *sig.Hedge
		hedge.Strategy = n.name
		sig.Hedge = &hedge
	}
	return sig
}
