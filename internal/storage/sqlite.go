// Package storage provides SQLite-based persistence for run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/mirrorhouse/internal/mirror"
)

const timeLayout = "2006-01-02 15:04:05.000"

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// RunRecord is one finished run.
type RunRecord struct {
	ID        int64
	BoardID   string
	BoardHash string
	Width     int
	Height    int
	Mirrors   int
	Outcome   mirror.OutcomeKind
	ExitPos   mirror.Coord
	ExitDir   mirror.Dir
	Steps     int
	MaxSteps  int
	Source    string // cli, api, ssh
	CreatedAt time.Time
}

// Solved reports whether the beam left the board.
func (r RunRecord) Solved() bool {
	return r.Outcome == mirror.OutcomeExited
}

// NewRunRecord builds a record from a finished run.
func NewRunRecord(boardID, boardHash string, b *mirror.Board, out mirror.Outcome, maxSteps int, source string) RunRecord {
	return RunRecord{
		BoardID:   boardID,
		BoardHash: boardHash,
		Width:     b.W,
		Height:    b.H,
		Mirrors:   b.MirrorCount(),
		Outcome:   out.Kind,
		ExitPos:   out.Pos,
		ExitDir:   out.Dir,
		Steps:     out.Steps,
		MaxSteps:  maxSteps,
		Source:    source,
	}
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
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			board_id TEXT NOT NULL,
			board_hash TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			mirrors INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			exit_x INTEGER NOT NULL,
			exit_y INTEGER NOT NULL,
			exit_dir TEXT NOT NULL,
			steps INTEGER NOT NULL,
			max_steps INTEGER NOT NULL,
			source TEXT NOT NULL DEFAULT 'cli',
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_board_id ON runs(board_id);
		CREATE INDEX IF NOT EXISTS idx_runs_board_hash ON runs(board_hash);
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

// SaveRun records a finished run. A zero CreatedAt is stamped with the
// current time. Returns the ID of the inserted record.
func (s *Store) SaveRun(r RunRecord) (int64, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if r.Source == "" {
		r.Source = "cli"
	}

	result, err := s.db.Exec(
		`INSERT INTO runs
		 (board_id, board_hash, width, height, mirrors, outcome, exit_x, exit_y, exit_dir, steps, max_steps, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.BoardID,
		r.BoardHash,
		r.Width,
		r.Height,
		r.Mirrors,
		r.Outcome.String(),
		r.ExitPos.X,
		r.ExitPos.Y,
		r.ExitDir.String(),
		r.Steps,
		r.MaxSteps,
		r.Source,
		r.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, board_id, board_hash, width, height, mirrors, outcome,
	exit_x, exit_y, exit_dir, steps, max_steps, source, created_at`

// RecentRuns retrieves the most recent runs across all boards, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// RunsForBoard retrieves the most recent runs of one board, newest first.
func (s *Store) RunsForBoard(boardID string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE board_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		boardID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query board runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			r         RunRecord
			outcome   string
			exitDir   string
			createdAt string
		)
		if err := rows.Scan(
			&r.ID,
			&r.BoardID,
			&r.BoardHash,
			&r.Width,
			&r.Height,
			&r.Mirrors,
			&outcome,
			&r.ExitPos.X,
			&r.ExitPos.Y,
			&exitDir,
			&r.Steps,
			&r.MaxSteps,
			&r.Source,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		kind, err := mirror.ParseOutcomeKind(outcome)
		if err != nil {
			return nil, fmt.Errorf("storage: run %d: %w", r.ID, err)
		}
		r.Outcome = kind

		dir, err := mirror.ParseDir(exitDir)
		if err != nil {
			return nil, fmt.Errorf("storage: run %d: %w", r.ID, err)
		}
		r.ExitDir = dir
		r.CreatedAt = parseTime(createdAt)

		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// ClearRuns deletes all runs of the given board.
func (s *Store) ClearRuns(boardID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE board_id = ?", boardID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// BoardStats contains aggregated statistics for a board.
type BoardStats struct {
	BoardID  string
	Runs     int
	Exits    int
	StepCaps int
	AvgSteps float64
	LastRun  time.Time
}

// BoardStats retrieves aggregated statistics for a specific board.
// A board that was never run yields zero counts.
func (s *Store) BoardStats(boardID string) (*BoardStats, error) {
	stats := &BoardStats{BoardID: boardID}

	var lastRun sql.NullString
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(AVG(steps), 0),
		        MAX(created_at)
		 FROM runs WHERE board_id = ?`,
		mirror.OutcomeExited.String(), boardID,
	).Scan(&stats.Runs, &stats.Exits, &stats.AvgSteps, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get board stats: %w", err)
	}

	stats.StepCaps = stats.Runs - stats.Exits
	if lastRun.Valid {
		stats.LastRun = parseTime(lastRun.String)
	}
	return stats, nil
}

// AllBoardStats retrieves statistics for every board that has been run.
func (s *Store) AllBoardStats() (map[string]*BoardStats, error) {
	rows, err := s.db.Query(
		`SELECT board_id, COUNT(*),
		        SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		        AVG(steps), MAX(created_at)
		 FROM runs
		 GROUP BY board_id`,
		mirror.OutcomeExited.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all board stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*BoardStats)
	for rows.Next() {
		var bs BoardStats
		var lastRun string
		if err := rows.Scan(&bs.BoardID, &bs.Runs, &bs.Exits, &bs.AvgSteps, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		bs.StepCaps = bs.Runs - bs.Exits
		bs.LastRun = parseTime(lastRun)
		stats[bs.BoardID] = &bs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// RunByID retrieves a single run. Returns ErrRunNotFound if absent.
func (s *Store) RunByID(id int64) (RunRecord, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	if err != nil {
		return RunRecord{}, fmt.Errorf("storage: cannot query run: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return RunRecord{}, err
	}
	if len(runs) == 0 {
		return RunRecord{}, ErrRunNotFound
	}
	return runs[0], nil
}

// ErrRunNotFound is returned by RunByID for an unknown ID.
var ErrRunNotFound = errors.New("storage: run not found")

// parseTime handles the stored layout and SQLite's CURRENT_TIMESTAMP form.
func parseTime(v string) time.Time {
	for _, layout := range []string{timeLayout, "2006-01-02 15:04:05", time.RFC3339Nano} {
		if parsed, err := time.Parse(layout, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
