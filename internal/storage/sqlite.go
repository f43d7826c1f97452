// Package storage persists practice match results in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// Online matches are never recorded here; the server owns those.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// PracticeResult is one finished practice match against the CPU.
type PracticeResult struct {
	ID           int64
	Difficulty   string // "easy", "normal", "hard"
	Side         string // Wall the player defended
	Score        int    // Player's final score
	Won          bool
	DurationSecs int
	CreatedAt    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS practice_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			difficulty TEXT NOT NULL,
			side TEXT NOT NULL,
			score INTEGER NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_practice_difficulty ON practice_results(difficulty);
		CREATE INDEX IF NOT EXISTS idx_practice_top ON practice_results(difficulty, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a finished practice match.
// Returns the ID of the inserted record.
func (s *Store) SaveResult(r PracticeResult) (int64, error) {
	won := 0
	if r.Won {
		won = 1
	}
	res, err := s.db.Exec(
		`INSERT INTO practice_results (difficulty, side, score, won, duration_secs)
		 VALUES (?, ?, ?, ?, ?)`,
		r.Difficulty, r.Side, r.Score, won, r.DurationSecs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopResults retrieves the best practice results for a difficulty,
// ordered by score descending.
func (s *Store) TopResults(difficulty string, limit int) ([]PracticeResult, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, difficulty, side, score, won, duration_secs, created_at
		 FROM practice_results
		 WHERE difficulty = ?
		 ORDER BY score DESC, duration_secs ASC
		 LIMIT ?`,
		difficulty, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []PracticeResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// RecentResults retrieves the most recently played practice matches across
// all difficulties.
func (s *Store) RecentResults(limit int) ([]PracticeResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, difficulty, side, score, won, duration_secs, created_at
		 FROM practice_results
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []PracticeResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// BestScore returns the highest practice score for the given difficulty.
// Returns 0 if no results exist.
func (s *Store) BestScore(difficulty string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM practice_results WHERE difficulty = ?",
		difficulty,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearResults deletes all practice results for the given difficulty.
func (s *Store) ClearResults(difficulty string) error {
	_, err := s.db.Exec("DELETE FROM practice_results WHERE difficulty = ?", difficulty)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

func scanResult(rows *sql.Rows) (PracticeResult, error) {
	var r PracticeResult
	var won int
	var createdAt any
	if err := rows.Scan(&r.ID, &r.Difficulty, &r.Side, &r.Score, &won, &r.DurationSecs, &createdAt); err != nil {
		return r, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	r.Won = won != 0

	// The driver may hand back time.Time or the raw DATETIME string.
	switch v := createdAt.(type) {
	case time.Time:
		r.CreatedAt = v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			r.CreatedAt = parsed
		}
	}
	return r, nil
}
