package journal

import (
	"context"
	"sync"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/events"
)

// Ledger stores entries in memory for quick inspection.
type Ledger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewLedger creates an empty ledger optionally pre-sizing storage.
func NewLedger(capacity int) *Ledger {
	if capacity < 0 {
		capacity = 0
	}
	return &Ledger{entries: make([]Entry, 0, capacity)}
}

// Record appends an entry to the ledger.
func (l *Ledger) Record(_ context.Context, e Entry) error {
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the recorded entries, optionally filtered by kind.
func (l *Ledger) Snapshot(kinds ...events.Kind) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(kinds) == 0 {
		out := make([]Entry, len(l.entries))
		copy(out, l.entries)
		return out
	}
	var out []Entry
	for _, e := range l.entries {
		for _, k := range kinds {
			if e.Kind == k {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Len returns the number of stored entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Reset clears all stored entries.
func (l *Ledger) Reset() {
	l.mu.Lock()
	l.entries = l.entries[:0]
	l.mu.Unlock()
}
