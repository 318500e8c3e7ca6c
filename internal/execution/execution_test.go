package execution

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/events"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/order"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/risk"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/signal"
)

var instant = VenueFunc(func(context.Context, order.Order) error { return nil })

func buy(amount float64) signal.Signal {
	return signal.Signal{Strategy: "breakout", Action: signal.Buy, Amount: amount, Price: 20.41, Reason: "test"}
}

func TestSubmitLogsOrder(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	exec := NewExecutor(order.NewBook(), instant, logger)
	res, err := exec.Submit(context.Background(), buy(2))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(res.Orders) != 1 || res.Orders[0].Status != order.Filled {
		t.Fatalf("expected one filled order, got %+v", res.Orders)
	}
	out := buf.String()
	if !strings.Contains(out, res.Orders[0].ID) || !strings.Contains(out, `"strategy":"breakout"`) {
		t.Fatalf("log does not contain order fields: %s", out)
	}
}

func TestSubmitHoldLeavesBookUntouched(t *testing.T) {
	book := order.NewBook()
	exec := NewExecutor(book, instant, zerolog.Nop())
	res, err := exec.Submit(context.Background(), signal.HoldSignal("flat"))
	if err != nil || !res.Held {
		t.Fatalf("expected held result, got %+v err %v", res, err)
	}
	if book.Len() != 0 {
		t.Fatalf("hold must not create orders")
	}
}

func TestSubmitInvalidSignal(t *testing.T) {
	book := order.NewBook()
	var buf bytes.Buffer
	exec := NewExecutor(book, instant, zerolog.New(&buf))
	for _, sig := range []signal.Signal{buy(0), buy(-1), {Action: "SHORT", Amount: 1}} {
		if _, err := exec.Submit(context.Background(), sig); !errors.Is(err, ErrInvalidSignal) {
			t.Fatalf("expected ErrInvalidSignal for %+v, got %v", sig, err)
		}
	}
	if book.Len() != 0 {
		t.Fatalf("invalid signals must not create orders")
	}
	if !strings.Contains(buf.String(), "warn") {
		t.Fatalf("expected rejection to be logged: %s", buf.String())
	}
}

func TestSubmitRiskRejected(t *testing.T) {
	book := order.NewBook()
	exec := NewExecutor(book, instant, zerolog.Nop(), WithLimits(risk.Limits{MaxAmountPerOrder: 1.5}))
	_, err := exec.Submit(context.Background(), buy(2))
	if !errors.Is(err, ErrRiskRejected) || !errors.Is(err, risk.ErrLimitExceeded) {
		t.Fatalf("expected risk rejection, got %v", err)
	}
	if book.Len() != 0 {
		t.Fatalf("rejected signal must not create orders")
	}
}

func TestSubmitVenueFailureLeavesPending(t *testing.T) {
	book := order.NewBook()
	bus := events.NewBus()
	failed, unsub := bus.Subscribe(1, events.OrderFailed)
	defer unsub()

	boom := errors.New("rpc down")
	venue := VenueFunc(func(context.Context, order.Order) error { return boom })
	exec := NewExecutor(book, venue, zerolog.Nop(), WithPublisher(bus))

	res, err := exec.Submit(context.Background(), buy(1))
	if !errors.Is(err, ErrExecutionFailed) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped execution failure, got %v", err)
	}
	if len(res.Orders) != 1 {
		t.Fatalf("expected the pending order to be reported")
	}
	st, _ := book.Status(res.Orders[0].ID)
	if st != order.Pending {
		t.Fatalf("expected order to stay pending, got %s", st)
	}
	select {
	case ev := <-failed:
		if ev.Err == "" {
			t.Fatalf("failure event must carry the cause")
		}
	case <-time.After(time.Second):
		t.Fatalf("expected OrderFailed event")
	}
}

func TestCancelWhileExecutingWins(t *testing.T) {
	book := order.NewBook()
	started := make(chan string, 1)
	release := make(chan struct{})
	venue := VenueFunc(func(_ context.Context, o order.Order) error {
		started <- o.ID
		<-release
		return nil
	})
	exec := NewExecutor(book, venue, zerolog.Nop())

	errCh := make(chan error, 1)
	go func() {
		_, err := exec.Submit(context.Background(), buy(1))
		errCh <- err
	}()

	id := <-started
	if _, err := exec.Cancel(id); err != nil {
		t.Fatalf("cancel pending order: %v", err)
	}
	close(release)

	if err := <-errCh; !errors.Is(err, ErrCanceled) {
		t.Fatalf("expected ErrCanceled, got %v", err)
	}
	if st, _ := book.Status(id); st != order.Canceled {
		t.Fatalf("expected canceled status, got %s", st)
	}
}

func TestCancelAfterFillRejected(t *testing.T) {
	book := order.NewBook()
	exec := NewExecutor(book, instant, zerolog.Nop())
	res, err := exec.Submit(context.Background(), buy(1))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := exec.Cancel(res.Orders[0].ID); !errors.Is(err, order.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSubmitHedgeLegs(t *testing.T) {
	book := order.NewBook()
	exec := NewExecutor(book, instant, zerolog.Nop())
	sig := signal.Signal{
		Strategy: "arbitrage",
		Action:   signal.Buy,
		Amount:   1,
		Price:    24.8,
		Hedge:    &signal.Signal{Action: signal.Sell, Amount: 1, Price: 25.4},
	}
	res, err := exec.Submit(context.Background(), sig)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(res.Orders) != 2 {
		t.Fatalf("expected two orders, got %d", len(res.Orders))
	}
	if res.Orders[0].Kind != order.Buy || res.Orders[1].Kind != order.Sell {
		t.Fatalf("unexpected leg order %s/%s", res.Orders[0].Kind, res.Orders[1].Kind)
	}
	if res.Orders[1].Strategy != "arbitrage" {
		t.Fatalf("hedge leg should inherit strategy, got %q", res.Orders[1].Strategy)
	}
}

func TestSimulatedVenueHonorsContext(t *testing.T) {
	venue := NewSimulatedVenue(time.Hour, time.Hour, 0, 7)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := venue.Execute(ctx, order.Order{ID: "txn_x"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestSimulatedVenueFailureRate(t *testing.T) {
	venue := NewSimulatedVenue(0, time.Millisecond, 1, 7)
	if err := venue.Execute(context.Background(), order.Order{ID: "txn_x"}); !errors.Is(err, ErrVenueRejected) {
		t.Fatalf("expected rejection at failure rate 1, got %v", err)
	}
	venue = NewSimulatedVenue(0, time.Millisecond, 0, 7)
	if err := venue.Execute(context.Background(), order.Order{ID: "txn_y"}); err != nil {
		t.Fatalf("expected success at failure rate 0, got %v", err)
	}
}
