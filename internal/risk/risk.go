// Package risk holds pre-trade guards applied by the executor before an order reaches the book.
package risk

import (
	"errors"
	"fmt"
)

// ErrLimitExceeded reports an order outside the configured limits.
var ErrLimitExceeded = errors.New("risk limit exceeded")

// Limits caps individual orders. A zero field disables that check.
type Limits struct {
	MaxAmountPerOrder   float64 `yaml:"max_amount_per_order"`
	MaxNotionalPerOrder float64 `yaml:"max_notional_per_order"`
}

// Allow reports whether amount fits under the per-order cap.
func (l Limits) Allow(amount float64) bool {
	return l.MaxAmountPerOrder <= 0 || amount <= l.MaxAmountPerOrder
}

// Check validates amount and, when a reference price is known, the notional value.
func (l Limits) Check(amount, price float64) error {
	if !l.Allow(amount) {
		return fmt.Errorf("%w: amount %.4f > %.4f", ErrLimitExceeded, amount, l.MaxAmountPerOrder)
	}
	if l.MaxNotionalPerOrder > 0 && price > 0 {
		if notional := amount * price; notional > l.MaxNotionalPerOrder {
			return fmt.Errorf("%w: notional %.4f > %.4f", ErrLimitExceeded, notional, l.MaxNotionalPerOrder)
		}
	}
	return nil
}
