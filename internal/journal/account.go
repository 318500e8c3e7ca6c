package journal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/events"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/order"
)

const epsilon = 1e-9

var (
	// ErrInsufficientCash is returned when a buy fill exceeds available cash.
	ErrInsufficientCash = errors.New("insufficient cash for buy")
	// ErrInsufficientPosition is returned when a sell fill exceeds the held position.
	ErrInsufficientPosition = errors.New("insufficient position to sell")
)

type positionState struct {
	Qty     float64
	AvgCost float64
}

// Account marks filled orders against a virtual bankroll, one position per strategy.
type Account struct {
	mu           sync.Mutex
	startingCash float64
	cash         float64
	realizedPnL  float64
	rejected     int
	positions    map[string]positionState
}

// PositionSnapshot exposes a read-only view of a single strategy position.
type PositionSnapshot struct {
	Qty         float64
	AvgCost     float64
	MarketValue float64
	Unrealized  float64
}

// Snapshot represents a thread-safe view of the account state marked at one price.
type Snapshot struct {
	Cash        float64
	RealizedPnL float64
	Equity      float64
	Rejected    int
	Positions   map[string]PositionSnapshot
}

// NewAccount constructs an account populated with starting cash.
func NewAccount(startingCash float64) *Account {
	return &Account{
		startingCash: startingCash,
		cash:         startingCash,
		positions:    make(map[string]positionState),
	}
}

// StartingCash returns the initial bankroll.
func (a *Account) StartingCash() float64 { return a.startingCash }

// Record applies OrderFilled entries; everything else is ignored. Fills the account cannot
// afford are counted as rejected and reported.
func (a *Account) Record(_ context.Context, e Entry) error {
	if e.Kind != events.OrderFilled || e.Price <= 0 {
		return nil
	}
	kind, err := order.ParseKind(e.Side)
	if err != nil {
		return err
	}
	if err := a.Fill(e.Strategy, kind, e.Amount, e.Price); err != nil {
		a.mu.Lock()
		a.rejected++
		a.mu.Unlock()
		return fmt.Errorf("%s %s: %w", e.OrderID, e.Strategy, err)
	}
	return nil
}

// Fill executes a paper fill at price, mutating balances if successful.
func (a *Account) Fill(strategy string, kind order.Kind, qty, price float64) error {
	if qty <= 0 {
		return errors.New("quantity must be positive")
	}
	if price <= 0 {
		return errors.New("price must be positive")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	state := a.positions[strategy]
	notional := qty * price

	switch kind {
	case order.Buy:
		if notional > a.cash+epsilon {
			return ErrInsufficientCash
		}
		newQty := state.Qty + qty
		a.cash -= notional
		a.positions[strategy] = positionState{Qty: newQty, AvgCost: (state.AvgCost*state.Qty + notional) / newQty}

	case order.Sell:
		if state.Qty <= 0 || state.Qty+epsilon < qty {
			return ErrInsufficientPosition
		}
		a.realizedPnL += (price - state.AvgCost) * qty
		a.cash += notional
		if newQty := state.Qty - qty; newQty <= epsilon {
			delete(a.positions, strategy)
		} else {
			a.positions[strategy] = positionState{Qty: newQty, AvgCost: state.AvgCost}
		}

	default:
		return fmt.Errorf("%w: %q", order.ErrInvalidKind, kind)
	}
	return nil
}

// Snapshot returns a copy of balances marked at price (zero leaves positions unmarked).
func (a *Account) Snapshot(price float64) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	positions := make(map[string]PositionSnapshot, len(a.positions))
	equity := a.cash
	for name, pos := range a.positions {
		ps := PositionSnapshot{Qty: pos.Qty, AvgCost: pos.AvgCost}
		if price > 0 {
			ps.MarketValue = pos.Qty * price
			ps.Unrealized = (price - pos.AvgCost) * pos.Qty
		}
		positions[name] = ps
		equity += ps.MarketValue
	}
	return Snapshot{
		Cash:        a.cash,
		RealizedPnL: a.realizedPnL,
		Equity:      equity,
		Rejected:    a.rejected,
		Positions:   positions,
	}
}

// Strategies lists the strategies with an open position, sorted.
func (a *Account) Strategies() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.positions))
	for name := range a.positions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Position returns the current position size of strategy.
func (a *Account) Position(strategy string) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.positions[strategy].Qty
}

// RealizedPnL returns total closed-trade profit and loss.
func (a *Account) RealizedPnL() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.realizedPnL
}
