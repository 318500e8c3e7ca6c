package order

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/events"
)

const maxIDAttempts = 16

// Book is a concurrency-safe registry of orders keyed by transaction id. Every mutation runs
// under a single book-wide lock, so transitions on one id are linearizable.
type Book struct {
	mu     sync.RWMutex
	orders map[string]*Order
	newID  func() string
	now    func() time.Time
	pub    events.Publisher
}

// Option configures Book construction parameters.
type Option func(*Book)

// WithIDGenerator overrides transaction id generation.
func WithIDGenerator(gen func() string) Option {
	return func(b *Book) {
		if gen != nil {
			b.newID = gen
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(b *Book) {
		if now != nil {
			b.now = now
		}
	}
}

// WithPublisher emits OrderCreated/OrderFilled/OrderCanceled events to pub.
func WithPublisher(pub events.Publisher) Option {
	return func(b *Book) {
		if pub != nil {
			b.pub = pub
		}
	}
}

// NewTransactionID returns a txn_-prefixed random id.
func NewTransactionID() string {
	return "txn_" + uuid.NewString()[:8]
}

// NewBook constructs an empty order book.
func NewBook(opts ...Option) *Book {
	b := &Book{
		orders: make(map[string]*Order),
		newID:  NewTransactionID,
		now:    func() time.Time { return time.Now().UTC() },
		pub:    events.Nop{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Create inserts a Pending order and returns a copy of it.
func (b *Book) Create(kind Kind, amount float64) (Order, error) {
	return b.CreateFor("", kind, amount, 0)
}

// CreateFor inserts a Pending order attributed to a strategy at a reference price.
func (b *Book) CreateFor(strategy string, kind Kind, amount, price float64) (Order, error) {
	if kind != Buy && kind != Sell {
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Order{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	b.mu.Lock()
	id, err := b.uniqueIDLocked()
	if err != nil {
		b.mu.Unlock()
		return Order{}, err
	}
	now := b.now()
	o := &Order{
		ID:        id,
		Strategy:  strategy,
		Kind:      kind,
		Amount:    amount,
		Price:     price,
		Status:    Pending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.orders[id] = o
	out := *o
	b.mu.Unlock()

	b.pub.Publish(events.Event{Kind: events.OrderCreated, Ts: now, Payload: out})
	return out, nil
}

func (b *Book) uniqueIDLocked() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := b.newID()
		if id == "" {
			continue
		}
		if _, taken := b.orders[id]; !taken {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

// Cancel moves a Pending order to Canceled.
func (b *Book) Cancel(id string) (Order, error) {
	return b.transition(id, Canceled, events.OrderCanceled)
}

// MarkFilled moves a Pending order to Filled.
func (b *Book) MarkFilled(id string) (Order, error) {
	return b.transition(id, Filled, events.OrderFilled)
}

func (b *Book) transition(id string, to Status, kind events.Kind) (Order, error) {
	b.mu.Lock()
	o, ok := b.orders[id]
	if !ok {
		b.mu.Unlock()
		return Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	if o.Status.Terminal() {
		out := *o
		b.mu.Unlock()
		return out, fmt.Errorf("%w: %s is %s", ErrInvalidTransition, id, out.Status)
	}
	o.Status = to
	o.UpdatedAt = b.now()
	out := *o
	b.mu.Unlock()

	b.pub.Publish(events.Event{Kind: kind, Ts: out.UpdatedAt, Payload: out})
	return out, nil
}

// Status returns the lifecycle state of id.
func (b *Book) Status(id string) (Status, error) {
	o, err := b.Get(id)
	if err != nil {
		return "", err
	}
	return o.Status, nil
}

// Get returns a copy of the order.
func (b *Book) Get(id string) (Order, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.orders[id]
	if !ok {
		return Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return *o, nil
}

// Snapshot returns copies of every order ordered by creation time.
func (b *Book) Snapshot() []Order {
	b.mu.RLock()
	out := make([]Order, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, *o)
	}
	b.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Counts tallies orders by status.
func (b *Book) Counts() map[Status]int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	counts := make(map[Status]int, 3)
	for _, o := range b.orders {
		counts[o.Status]++
	}
	return counts
}

// Len returns the number of tracked orders.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.orders)
}
