package storage

// sqlite.go — local cache of fetched trade history plus a log of
// replay runs.
//
// Strategy:
//   - `trades`: one row per feed trade, upserted by a synthetic id.
//     Refetching overlapping pages is a no-op, so the follow loop can
//     merge every poll blindly.
//   - `runs`: one row per replay invocation (inputs + headline
//     outputs). Engine state is never stored; a run is reproducible
//     from the cached trades and its config snapshot.
//   - Prune on open: trade rows not refreshed within 90 days.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/polycopy/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
    id            TEXT PRIMARY KEY,
    address       TEXT NOT NULL,
    condition_id  TEXT NOT NULL,
    asset_id      TEXT NOT NULL,
    outcome_index INTEGER NOT NULL DEFAULT 0,
    side          TEXT NOT NULL,
    size          REAL NOT NULL,
    price         REAL NOT NULL,
    ts            INTEGER NOT NULL,
    title         TEXT,
    slug          TEXT,
    outcome       TEXT,
    fetched_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
    id              TEXT PRIMARY KEY,
    address         TEXT NOT NULL,
    initial_capital REAL NOT NULL,
    sizing_mode     TEXT NOT NULL,
    ratio           REAL NOT NULL DEFAULT 0,
    budget          REAL NOT NULL DEFAULT 0,
    start_ts        INTEGER NOT NULL DEFAULT 0,
    end_ts          INTEGER NOT NULL DEFAULT 0,
    partial_fills   INTEGER NOT NULL DEFAULT 0,
    final_equity    REAL NOT NULL,
    pnl             REAL NOT NULL,
    pnl_pct         REAL NOT NULL,
    trades          INTEGER NOT NULL DEFAULT 0,
    skipped         INTEGER NOT NULL DEFAULT 0,
    created_at      DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_addr_ts ON trades(address, ts);
CREATE INDEX IF NOT EXISTS idx_runs_addr      ON runs(address, created_at DESC);
`

const retentionTrades = 90 * 24 * time.Hour

// SQLiteStorage implements ports.TradeStore and ports.RunStore using
// SQLite (pure Go, no CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (or creates) the database at the given path,
// applies the schema and prunes stale trade history.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveTrades upserts trades for one address.
func (s *SQLiteStorage) SaveTrades(ctx context.Context, address string, trades []domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveTrades: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades
			(id, address, condition_id, asset_id, outcome_index, side,
			 size, price, ts, title, slug, outcome, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			size       = excluded.size,
			price      = excluded.price,
			ts         = excluded.ts,
			fetched_at = excluded.fetched_at`)
	if err != nil {
		return fmt.Errorf("storage.SaveTrades: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, t := range trades {
		if _, err := stmt.ExecContext(ctx,
			tradeRowID(address, t), address,
			t.Key.ConditionID, t.Key.AssetID, t.Key.OutcomeIndex,
			string(t.Side), t.Size, t.Price, t.Timestamp,
			t.Title, t.Slug, t.Outcome, now,
		); err != nil {
			return fmt.Errorf("storage.SaveTrades: insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveTrades: commit: %w", err)
	}
	return nil
}

// GetTrades returns the cached history for one address ordered by
// timestamp ascending.
func (s *SQLiteStorage) GetTrades(ctx context.Context, address string) ([]domain.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT condition_id, asset_id, outcome_index, side, size, price,
		       ts, title, slug, outcome
		FROM trades WHERE address = ? ORDER BY ts ASC`, address)
	if err != nil {
		return nil, fmt.Errorf("storage.GetTrades: query: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var t domain.Trade
		var side string
		var title, slug, outcome sql.NullString
		if err := rows.Scan(
			&t.Key.ConditionID, &t.Key.AssetID, &t.Key.OutcomeIndex,
			&side, &t.Size, &t.Price, &t.Timestamp,
			&title, &slug, &outcome,
		); err != nil {
			return nil, fmt.Errorf("storage.GetTrades: scan: %w", err)
		}
		t.Side = domain.Side(side)
		t.Title = title.String
		t.Slug = slug.String
		t.Outcome = outcome.String
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// LatestTradeTs returns the newest cached timestamp for the address,
// or 0 when nothing is cached.
func (s *SQLiteStorage) LatestTradeTs(ctx context.Context, address string) (int64, error) {
	var ts sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(ts) FROM trades WHERE address = ?`, address,
	).Scan(&ts)
	if err != nil {
		return 0, fmt.Errorf("storage.LatestTradeTs: %w", err)
	}
	return ts.Int64, nil
}

// SaveRun records one replay invocation.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run domain.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
			(id, address, initial_capital, sizing_mode, ratio, budget,
			 start_ts, end_ts, partial_fills, final_equity, pnl, pnl_pct,
			 trades, skipped, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Address, run.InitialCapital, string(run.SizingMode),
		run.Ratio, run.Budget, run.StartTs, run.EndTs, run.PartialFills,
		run.FinalEquity, run.PnL, run.PnLPct, run.Trades, run.SkippedTrades,
		run.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: %w", err)
	}
	return nil
}

// GetRuns returns the recorded runs for one address, newest first.
func (s *SQLiteStorage) GetRuns(ctx context.Context, address string) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, address, initial_capital, sizing_mode, ratio, budget,
		       start_ts, end_ts, partial_fills, final_equity, pnl, pnl_pct,
		       trades, skipped, created_at
		FROM runs WHERE address = ? ORDER BY created_at DESC`, address)
	if err != nil {
		return nil, fmt.Errorf("storage.GetRuns: query: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var r domain.Run
		var mode string
		if err := rows.Scan(
			&r.ID, &r.Address, &r.InitialCapital, &mode, &r.Ratio, &r.Budget,
			&r.StartTs, &r.EndTs, &r.PartialFills, &r.FinalEquity, &r.PnL,
			&r.PnLPct, &r.Trades, &r.SkippedTrades, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("storage.GetRuns: scan: %w", err)
		}
		r.SizingMode = domain.SizingMode(mode)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close closes the database cleanly.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld removes trade rows not refreshed within the retention
// window. Best effort: a failed prune never blocks startup.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionTrades)
	s.db.ExecContext(ctx, `DELETE FROM trades WHERE fetched_at < ?`, cutoff)
}

// tradeRowID builds the upsert key. The activity feed exposes no stable
// trade id, so address + market key + side + ts + size is the identity.
func tradeRowID(address string, t domain.Trade) string {
	return fmt.Sprintf("%s|%s|%s|%d|%g", address, t.Key.String(), t.Side, t.Timestamp, t.Size)
}
