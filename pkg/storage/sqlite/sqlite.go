// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/masumhasan/comAI/pkg/core/schema"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed implementation of HistoryStore. It is the
// zero-dependency persistent option for single-node deployments.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store backed by the database file at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	stmt := `CREATE TABLE IF NOT EXISTS exchanges (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		answer TEXT NOT NULL DEFAULT '',
		sources TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL
	)`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("sqlite create tables: %w", err)
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_exchanges_created ON exchanges(created_at)`); err != nil {
		return fmt.Errorf("sqlite create index: %w", err)
	}
	return nil
}

// SaveExchange inserts one exchange.
func (s *Store) SaveExchange(ctx context.Context, exchange *schema.Exchange) error {
	sourcesJSON, err := json.Marshal(exchange.Sources)
	if err != nil {
		return fmt.Errorf("marshal sources: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO exchanges (id, query, answer, sources, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		exchange.ID, exchange.Query, exchange.Answer, string(sourcesJSON),
		exchange.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert exchange %s: %w", exchange.ID, err)
	}
	return nil
}

// ListExchanges returns up to limit exchanges, newest first.
func (s *Store) ListExchanges(ctx context.Context, limit int) ([]*schema.Exchange, error) {
	query := `SELECT id, query, answer, sources, created_at
		 FROM exchanges ORDER BY created_at DESC`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}
	defer rows.Close()

	var out []*schema.Exchange
	for rows.Next() {
		var (
			ex         schema.Exchange
			sourcesStr string
			createdAt  string
		)
		if err := rows.Scan(&ex.ID, &ex.Query, &ex.Answer, &sourcesStr, &createdAt); err != nil {
			return nil, fmt.Errorf("scan exchange: %w", err)
		}
		if err := json.Unmarshal([]byte(sourcesStr), &ex.Sources); err != nil {
			return nil, fmt.Errorf("unmarshal sources: %w", err)
		}
		ex.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, &ex)
	}
	return out, rows.Err()
}
