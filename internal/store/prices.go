package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sync"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"yt-opinion-backtest/internal/types"
)

// PriceStore persists per-ticker daily close series in a SQLite database.
// Closes downloaded as null are stored as NULL and read back as NaN so the
// evaluator can tell "no trading day" (absent row) from "day with no price".
type PriceStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewPriceStore opens (or creates) the SQLite database and runs migrations.
func NewPriceStore(dbPath string) (*PriceStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the backtest stage can read while a download is running.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &PriceStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *PriceStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_close (
			ticker TEXT NOT NULL,
			date   TEXT NOT NULL,
			close  REAL,
			PRIMARY KEY (ticker, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_close_ticker ON daily_close(ticker)`,

		`CREATE TABLE IF NOT EXISTS missing_tickers (
			ticker    TEXT PRIMARY KEY,
			chunk_idx INTEGER NOT NULL
		)`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("exec %q: %w", q[:40], err)
		}
	}
	return nil
}

// SaveSeries upserts every data point of the series in one transaction.
func (s *PriceStore) SaveSeries(ctx context.Context, series *types.PriceSeries) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO daily_close (ticker, date, close) VALUES (?,?,?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for date, close := range series.Close {
		var v any
		if !math.IsNaN(close) {
			v = close
		}
		if _, err := stmt.Exec(series.Ticker, date, v); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s %s: %w", series.Ticker, date, err)
		}
	}
	return tx.Commit()
}

// Series loads a ticker's full close series. Returns (nil, nil) when the
// store has no rows for the ticker.
func (s *PriceStore) Series(ctx context.Context, ticker string) (*types.PriceSeries, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, close FROM daily_close WHERE ticker = ?`, ticker)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", ticker, err)
	}
	defer rows.Close()

	closes := map[string]float64{}
	for rows.Next() {
		var date string
		var close sql.NullFloat64
		if err := rows.Scan(&date, &close); err != nil {
			return nil, err
		}
		if close.Valid {
			closes[date] = close.Float64
		} else {
			closes[date] = math.NaN()
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(closes) == 0 {
		return nil, nil
	}
	return &types.PriceSeries{Ticker: ticker, Close: closes}, nil
}

// MarkMissing records tickers that failed to download, tagged with the
// download chunk they belonged to.
func (s *PriceStore) MarkMissing(ctx context.Context, chunkIdx int, tickers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range tickers {
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO missing_tickers (ticker, chunk_idx) VALUES (?,?)`, t, chunkIdx); err != nil {
			return fmt.Errorf("mark missing %s: %w", t, err)
		}
	}
	return nil
}

// MissingRegistry loads the full missing-ticker set.
func (s *PriceStore) MissingRegistry(ctx context.Context) (*Registry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ticker FROM missing_tickers`)
	if err != nil {
		return nil, fmt.Errorf("query missing tickers: %w", err)
	}
	defer rows.Close()

	reg := NewRegistry()
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		reg.Add(t)
	}
	return reg, rows.Err()
}

// Close closes the underlying database connection.
func (s *PriceStore) Close() error {
	return s.db.Close()
}

// Registry is the set of tickers known to have no retrievable price data.
// Queried by exact ticker string during batch evaluation.
type Registry struct {
	tickers map[string]struct{}
}

func NewRegistry(tickers ...string) *Registry {
	r := &Registry{tickers: make(map[string]struct{}, len(tickers))}
	for _, t := range tickers {
		r.Add(t)
	}
	return r
}

func (r *Registry) Add(ticker string) {
	r.tickers[ticker] = struct{}{}
}

func (r *Registry) Contains(ticker string) bool {
	_, ok := r.tickers[ticker]
	return ok
}

func (r *Registry) Len() int {
	return len(r.tickers)
}
