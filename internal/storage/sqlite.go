// Package storage provides SQLite-based persistence for level progress
// and best times. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tileworld/internal/pack"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// BestTime is one completed level's record.
type BestTime struct {
	Pack  string
	Level int
	// SecondsLeft is the best time left at completion, or -1 for untimed
	// levels (completion is still recorded).
	SecondsLeft int
	CompletedAt time.Time
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

	// Create parent directories
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
		CREATE TABLE IF NOT EXISTS best_times (
			pack TEXT NOT NULL,
			level INTEGER NOT NULL,
			seconds_left INTEGER,
			completed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (pack, level)
		);
		CREATE INDEX IF NOT EXISTS idx_best_times_pack ON best_times(pack);
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

// SaveResult records a level completion. secondsLeft is the time left at
// completion, or -1 for an untimed level. Only improvements overwrite an
// existing best time; the completion itself is always kept.
func (s *Store) SaveResult(packName string, level int, secondsLeft int) error {
	var stored sql.NullInt64
	if secondsLeft >= 0 {
		stored = sql.NullInt64{Int64: int64(secondsLeft), Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO best_times (pack, level, seconds_left) VALUES (?, ?, ?)
		 ON CONFLICT (pack, level) DO UPDATE SET
		   seconds_left = excluded.seconds_left,
		   completed_at = CURRENT_TIMESTAMP
		 WHERE excluded.seconds_left IS NOT NULL
		   AND (best_times.seconds_left IS NULL
		        OR excluded.seconds_left > best_times.seconds_left)`,
		packName, level, stored,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save result: %w", err)
	}
	return nil
}

// BestTime returns the best time left for a level. ok is false if the
// level was never completed; a completed untimed level yields -1.
func (s *Store) BestTime(packName string, level int) (secondsLeft int, ok bool, err error) {
	var stored sql.NullInt64
	err = s.db.QueryRow(
		"SELECT seconds_left FROM best_times WHERE pack = ? AND level = ?",
		packName, level,
	).Scan(&stored)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best time: %w", err)
	}
	if !stored.Valid {
		return -1, true, nil
	}
	return int(stored.Int64), true, nil
}

// BestTimes retrieves all completions for a pack, ordered by level.
func (s *Store) BestTimes(packName string) ([]BestTime, error) {
	rows, err := s.db.Query(
		`SELECT level, seconds_left, completed_at
		 FROM best_times
		 WHERE pack = ?
		 ORDER BY level`,
		packName,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best times: %w", err)
	}
	defer rows.Close()

	var entries []BestTime
	for rows.Next() {
		e := BestTime{Pack: packName}
		var stored sql.NullInt64
		var completedAt any
		if err := rows.Scan(&e.Level, &stored, &completedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.SecondsLeft = -1
		if stored.Valid {
			e.SecondsLeft = int(stored.Int64)
		}

		// Parse the datetime - handle both time.Time and string
		switch v := completedAt.(type) {
		case time.Time:
			e.CompletedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				e.CompletedAt = parsed
			}
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// Progress assembles a pack's unlock progress from the stored
// completions. firstSecret is the zero-based index of the pack's first
// secret level.
func (s *Store) Progress(packName string, levelCount, firstSecret int) (pack.Progress, error) {
	pr := pack.Progress{Completed: make([]bool, levelCount)}

	rows, err := s.db.Query(
		"SELECT level FROM best_times WHERE pack = ?",
		packName,
	)
	if err != nil {
		return pr, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level int
		if err := rows.Scan(&level); err != nil {
			return pr, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if level < 1 || level > levelCount {
			continue
		}
		pr.Completed[level-1] = true
		if level-1 >= firstSecret {
			pr.SecretUnlocked = true
		}
	}

	if err := rows.Err(); err != nil {
		return pr, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return pr, nil
}

// ClearPack deletes all progress for a pack.
func (s *Store) ClearPack(packName string) error {
	_, err := s.db.Exec("DELETE FROM best_times WHERE pack = ?", packName)
	if err != nil {
		return fmt.Errorf("storage: cannot clear pack: %w", err)
	}
	return nil
}
