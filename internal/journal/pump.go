package journal

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/events"
)

// Pump drains ch into every recorder until ch closes or ctx is canceled. A failing recorder is
// logged and never stops the others.
func Pump(ctx context.Context, ch <-chan events.Event, log zerolog.Logger, recorders ...Recorder) {
	for {
		select {
		case <-ctx.Done():
			drain(ch, log, recorders)
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			record(ev, log, recorders)
		}
	}
}

// drain flushes whatever is already buffered so shutdown does not lose the last fills.
func drain(ch <-chan events.Event, log zerolog.Logger, recorders []Recorder) {
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			record(ev, log, recorders)
		default:
			return
		}
	}
}

func record(ev events.Event, log zerolog.Logger, recorders []Recorder) {
	entry, ok := FromEvent(ev)
	if !ok {
		log.Debug().Str("kind", string(ev.Kind)).Msg("journal skipped event with unknown payload")
		return
	}
	ctx := context.Background()
	for _, r := range recorders {
		if err := r.Record(ctx, entry); err != nil {
			line := log.Warn()
			if errors.Is(err, ErrInsufficientCash) || errors.Is(err, ErrInsufficientPosition) {
				line = log.Debug()
			}
			line.Err(err).Str("kind", string(entry.Kind)).Str("order_id", entry.OrderID).Msg("journal record failed")
		}
	}
}
