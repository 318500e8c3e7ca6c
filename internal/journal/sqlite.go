package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/events"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/order"
)

const schema = `
CREATE TABLE IF NOT EXISTS journal (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    ts TEXT NOT NULL,
    order_id TEXT,
    strategy TEXT,
    side TEXT,
    amount REAL NOT NULL DEFAULT 0,
    price REAL NOT NULL DEFAULT 0,
    status TEXT,
    reason TEXT,
    error TEXT
);

CREATE INDEX IF NOT EXISTS idx_journal_order ON journal(order_id);

CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    strategy TEXT,
    side TEXT NOT NULL,
    amount REAL NOT NULL,
    price REAL NOT NULL DEFAULT 0,
    status TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

// Store persists entries to SQLite and keeps the latest state of every order.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and creates if needed) the SQLite database at path and applies the schema.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path is empty")
	}
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record appends e and, for order events, upserts the order row.
func (s *Store) Record(ctx context.Context, e Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	ts := e.Ts.UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO journal (kind, ts, order_id, strategy, side, amount, price, status, reason, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, string(e.Kind), ts, e.OrderID, e.Strategy, e.Side, e.Amount, e.Price, string(e.Status), e.Reason, e.Error); err != nil {
		return fmt.Errorf("insert journal: %w", err)
	}

	if e.OrderID != "" && e.Status != "" {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO orders (id, strategy, side, amount, price, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				status = excluded.status,
				updated_at = excluded.updated_at
		`, e.OrderID, e.Strategy, e.Side, e.Amount, e.Price, string(e.Status), ts, ts); err != nil {
			return fmt.Errorf("upsert order: %w", err)
		}
	}
	return tx.Commit()
}

// Orders returns stored orders, newest first. An empty status returns every order.
func (s *Store) Orders(ctx context.Context, status order.Status, limit int) ([]order.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, COALESCE(strategy, ''), side, amount, price, status, created_at, updated_at
		FROM orders
		WHERE (? = '' OR status = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, string(status), string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		var (
			o                order.Order
			side, st         string
			created, updated string
		)
		if err := rows.Scan(&o.ID, &o.Strategy, &side, &o.Amount, &o.Price, &st, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Kind = order.Kind(side)
		o.Status = order.Status(st)
		o.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		o.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, o)
	}
	return out, rows.Err()
}

// History returns the journal entries of one order in insertion order.
func (s *Store) History(ctx context.Context, orderID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, ts, COALESCE(strategy, ''), COALESCE(side, ''), amount, price,
		       COALESCE(status, ''), COALESCE(reason, ''), COALESCE(error, '')
		FROM journal
		WHERE order_id = ?
		ORDER BY seq
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e            Entry
			kind, ts, st string
		)
		if err := rows.Scan(&kind, &ts, &e.Strategy, &e.Side, &e.Amount, &e.Price, &st, &e.Reason, &e.Error); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		e.Kind = events.Kind(kind)
		e.Status = order.Status(st)
		e.OrderID = orderID
		e.Ts, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the underlying DB handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
