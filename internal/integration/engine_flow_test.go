package integration

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/config"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/engine"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/events"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/execution"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/order"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/risk"
)

func TestEngineFlowJournalsEveryOrder(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		App:       config.App{Name: "engine-it", Seed: 5},
		Market:    config.Market{Provider: "stub", Symbol: "SOL"},
		Execution: config.Execution{MaxLatencyMs: 1},
		Risk:      risk.Limits{MaxAmountPerOrder: 2.5},
		Journal: config.Journal{
			JSONLPath:  filepath.Join(dir, "trade_logs.jsonl"),
			SQLitePath: filepath.Join(dir, "journal.db"),
			Buffer:     4096,
		},
		Strategies: []config.Strategy{
			{Name: "momentum", Kind: "momentum", IntervalMs: 5, Enabled: true},
			{Name: "scalping", Kind: "scalping", IntervalMs: 5, Enabled: true},
			{Name: "news", Kind: "news_sentiment", IntervalMs: 5, Enabled: true},
			{Name: "volume", Kind: "volume_spike", IntervalMs: 5, Enabled: true},
			{Name: "pairs", Kind: "pair_trading", IntervalMs: 5, Enabled: true},
			{Name: "arb", Kind: "arbitrage", IntervalMs: 5, Enabled: true},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	venue := execution.VenueFunc(func(context.Context, order.Order) error { return nil })
	eng, err := engine.New(ctx, cfg, zerolog.Nop(), engine.WithVenue(venue))
	require.NoError(t, err)
	defer eng.Close()

	require.NoError(t, eng.Run(ctx))

	counts := eng.Book.Counts()
	require.Positive(t, counts[order.Filled], "stub market should trigger trades")
	require.Zero(t, counts[order.Pending], "instant venue leaves nothing pending")
	require.Zero(t, eng.Bus.Dropped())

	for _, o := range eng.Book.Snapshot() {
		require.LessOrEqual(t, o.Amount, 2.5, "risk cap must hold for %s", o.ID)
	}

	filled := eng.Ledger.Snapshot(events.OrderFilled)
	require.Len(t, filled, counts[order.Filled])
	require.Len(t, eng.Ledger.Snapshot(events.OrderCreated), eng.Book.Len())
	require.NotEmpty(t, eng.Ledger.Snapshot(events.SignalEmitted))

	stored, err := eng.Store.Orders(context.Background(), order.Filled, 100000)
	require.NoError(t, err)
	require.Len(t, stored, counts[order.Filled])

	require.NoError(t, eng.Close())
	file, err := os.Open(cfg.Journal.JSONLPath)
	require.NoError(t, err)
	defer file.Close()
	lines := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines++
	}
	require.Equal(t, eng.Ledger.Len(), lines)
}

func TestEngineSurvivesVenueFailures(t *testing.T) {
	cfg := &config.Config{
		App:       config.App{Seed: 9},
		Market:    config.Market{Provider: "stub"},
		Execution: config.Execution{MaxLatencyMs: 1, FailureRate: 1},
		Strategies: []config.Strategy{
			{Name: "news", Kind: "news_sentiment", IntervalMs: 5, Enabled: true},
		},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	eng, err := engine.New(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer eng.Close()
	require.NoError(t, eng.Run(ctx))

	counts := eng.Book.Counts()
	require.Zero(t, counts[order.Filled])
	require.Equal(t, eng.Book.Len(), counts[order.Pending])
	require.Len(t, eng.Ledger.Snapshot(events.OrderFailed), eng.Book.Len())
}
