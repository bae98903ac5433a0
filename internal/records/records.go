// Package records keeps the history of finished runs in SQLite.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/tomz197/aviator/internal/loop"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("records: store closed")

// Run is one finished flight.
type Run struct {
	ID       int64
	Player   string
	Distance int
	Level    int
	Duration time.Duration
	EndedAt  time.Time
}

// Entry is one leaderboard line: a player's best distance, highest level
// and number of runs.
type Entry struct {
	Rank     int    `json:"rank"`
	Player   string `json:"player"`
	Distance int    `json:"distance"`
	Level    int    `json:"level"`
	Runs     int    `json:"runs"`
}

// Store wraps the SQLite connection.
type Store struct {
	mu     sync.RWMutex
	conn   *sql.DB
	closed bool
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("busy timeout: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection. Later calls return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player TEXT NOT NULL,
		distance INTEGER NOT NULL,
		level INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		ended_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_player ON runs(player);
	CREATE INDEX IF NOT EXISTS idx_runs_distance ON runs(distance DESC);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Save stores a finished run and returns its id.
func (s *Store) Save(ctx context.Context, r Run) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	player := strings.TrimSpace(r.Player)
	if player == "" {
		player = "anonymous"
	}
	res, err := s.conn.ExecContext(ctx,
		"INSERT INTO runs (player, distance, level, duration_ms, ended_at) VALUES (?, ?, ?, ?, ?)",
		player, r.Distance, r.Level, r.Duration.Milliseconds(), r.EndedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("save run: %w", err)
	}
	return res.LastInsertId()
}

// Best returns each player's longest run, best first. Ties go to the
// player who got there first.
func (s *Store) Best(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT player, MAX(distance) AS best, MAX(level), COUNT(*),
			MIN(CASE WHEN distance = (SELECT MAX(distance) FROM runs r2 WHERE r2.player = runs.player) THEN ended_at END) AS reached
		FROM runs
		GROUP BY player
		ORDER BY best DESC, reached ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("best runs: %w", err)
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var (
			e       Entry
			reached int64
		)
		if err := rows.Scan(&e.Player, &e.Distance, &e.Level, &e.Runs, &reached); err != nil {
			return nil, err
		}
		e.Rank = len(result) + 1
		result = append(result, e)
	}
	return result, rows.Err()
}

// Recent returns the latest runs of player, newest first.
func (s *Store) Recent(ctx context.Context, player string, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, player, distance, level, duration_ms, ended_at
		FROM runs WHERE player = ? ORDER BY ended_at DESC, id DESC LIMIT ?`,
		player, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	defer rows.Close()

	var result []Run
	for rows.Next() {
		var (
			r        Run
			duration int64
			ended    int64
		)
		if err := rows.Scan(&r.ID, &r.Player, &r.Distance, &r.Level, &duration, &ended); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(duration) * time.Millisecond
		r.EndedAt = time.UnixMilli(ended)
		result = append(result, r)
	}
	return result, rows.Err()
}

// Recorder returns a game-over callback that saves each finished run of
// player. Save errors are logged; a lost record never interrupts a game.
func (s *Store) Recorder(ctx context.Context, player string, logger *log.Logger) func(loop.Summary) {
	return func(sum loop.Summary) {
		run := Run{
			Player:   player,
			Distance: int(sum.Distance),
			Level:    sum.Level,
			Duration: sum.Duration,
			EndedAt:  sum.EndedAt,
		}
		if _, err := s.Save(ctx, run); err != nil {
			logger.Error("save run", "player", player, "err", err)
			return
		}
		logger.Debug("run saved", "player", player, "distance", run.Distance, "level", run.Level)
	}
}
