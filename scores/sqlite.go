/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore keeps records in a single table. The full record is kept as
// JSON next to the columns used for filtering and ranking.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates the database and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			game TEXT NOT NULL DEFAULT '',
			points INTEGER,
			seconds INTEGER,
			date TEXT NOT NULL,
			record TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_game ON scores(game);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_name ON scores(name COLLATE NOCASE);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Submit(ctx context.Context, r Record) (Record, error) {
	rec, err := Normalize(r, s.now())
	if err != nil {
		return Record{}, err
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return Record{}, err
	}

	var seconds any
	if v, ok := rec.SecondsValue(); ok {
		seconds = v
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scores (id, name, game, points, seconds, date, record)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		rec.ID,
		rec.Name,
		rec.Game,
		rec.PointsValue(),
		seconds,
		rec.Date.Format(time.RFC3339Nano),
		string(body),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert score: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]Record, error) {
	query := `SELECT record FROM scores`
	switch f {
	case Maboul:
		query += ` WHERE game = '' OR game = 'maboul'`
	case Andrea:
		query += ` WHERE game LIKE 'andrea%'`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []Record
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var rec Record
		if err := json.Unmarshal([]byte(body), &rec); err != nil {
			return nil, fmt.Errorf("decode score: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	Sort(out, f)
	return out, nil
}
