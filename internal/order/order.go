// Package order owns the canonical order records shared by every strategy runner.
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrOrderNotFound is returned when an id does not reference a known order.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidTransition is returned when mutating an order that already reached a terminal state.
	ErrInvalidTransition = errors.New("invalid order transition")
	// ErrInvalidAmount rejects non-positive or non-finite amounts.
	ErrInvalidAmount = errors.New("order amount must be positive")
	// ErrInvalidKind rejects anything other than Buy or Sell.
	ErrInvalidKind = errors.New("order kind must be buy or sell")
	// ErrIDExhausted reports that id generation kept colliding.
	ErrIDExhausted = errors.New("could not generate a unique order id")
)

// Kind is the order direction.
type Kind string

const (
	Buy  Kind = "BUY"
	Sell Kind = "SELL"
)

// ParseKind accepts buy/sell in any case.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Status is the lifecycle state of an order.
type Status string

const (
	Pending  Status = "PENDING"
	Filled   Status = "FILLED"
	Canceled Status = "CANCELED"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool { return s == Filled || s == Canceled }

// Order is a tracked unit of trading intent. Values handed out by the Book are copies.
type Order struct {
	ID        string    `json:"id"`
	Strategy  string    `json:"strategy,omitempty"`
	Kind      Kind      `json:"kind"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Notional returns amount * reference price (zero when no price was recorded).
func (o Order) Notional() float64 { return o.Amount * o.Price }
