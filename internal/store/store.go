// Package store keeps snapshots of processed competitions in a SQLite
// database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ezBadminton/volleyrank/core"
	"github.com/ezBadminton/volleyrank/internal/telemetry"

	_ "modernc.org/sqlite"
)

var (
	ErrUnknownRun = errors.New("unknown run")
)

// Run describes one saved processing of a competition.
type Run struct {
	ID       string
	Ts       time.Time
	Name     string
	Season   string
	Category string
	Strategy string
	LastDay  int
}

// Standing is one line of the global board of a day.
type Standing struct {
	Day       int
	Rank      int
	TeamID    string
	TeamName  string
	Points    int
	Matches   int
	MatchWon  int
	MatchLost int
	SetWon    int
	SetLost   int
	PointWon  int
	PointLost int
	Mu        float64
	Sigma     float64

	// Mu less three sigmas
	Conservative float64
	Pool         string
	PoolRank     int
}

type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the database at path. ":memory:" opens a
// private in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
		dsn += "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Also keeps an in-memory database alive between statements
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id        TEXT    PRIMARY KEY,
			ts        TEXT    NOT NULL,
			name      TEXT    NOT NULL,
			season    TEXT,
			category  TEXT,
			strategy  TEXT    NOT NULL,
			last_day  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS standings (
			run_id     TEXT    NOT NULL REFERENCES runs(id),
			day        INTEGER NOT NULL,
			position   INTEGER NOT NULL,
			team_id    TEXT    NOT NULL,
			team_name  TEXT,
			points     INTEGER NOT NULL,
			matches    INTEGER NOT NULL,
			match_won  INTEGER NOT NULL,
			match_lost INTEGER NOT NULL,
			set_won    INTEGER NOT NULL,
			set_lost   INTEGER NOT NULL,
			point_won  INTEGER NOT NULL,
			point_lost INTEGER NOT NULL,
			mu         REAL    NOT NULL,
			sigma      REAL    NOT NULL,
			conservative REAL  NOT NULL,
			pool       TEXT,
			pool_rank  INTEGER,
			PRIMARY KEY (run_id, day, team_id)
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			run_id          TEXT    NOT NULL REFERENCES runs(id),
			match_id        TEXT    NOT NULL,
			day             INTEGER NOT NULL,
			team_a          TEXT    NOT NULL,
			team_b          TEXT    NOT NULL,
			winner          TEXT,
			set_a           INTEGER NOT NULL,
			set_b           INTEGER NOT NULL,
			total_a         INTEGER NOT NULL,
			total_b         INTEGER NOT NULL,
			win_probability REAL    NOT NULL,
			victory         TEXT    NOT NULL,
			PRIMARY KEY (run_id, match_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(ts)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema (%s): %w", stmt, err)
		}
	}

	var count int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		db.Close()
		return nil, fmt.Errorf("read run count: %w", err)
	}
	telemetry.Debugf("Opened snapshot db  path=%s  runs=%d", path, count)

	return &Store{db: db}, nil
}

// SaveCompetition stores the global board of every day and the matches
// of the competition under a new run ID.
func (s *Store) SaveCompetition(ctx context.Context, c *core.Competition) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	runID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, ts, name, season, category, strategy, last_day) VALUES (?,?,?,?,?,?,?)`,
		runID, time.Now().UTC().Format(time.RFC3339Nano),
		c.Name, c.Season, c.Category, c.Strategy.String(), c.LastDay,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for day := 1; day <= c.DayCount; day++ {
		for i, team := range c.Board(core.SortPoints, day, false, false) {
			st := team.GlobalStats(day)
			pool := ""
			if p := team.Pools[day]; p != nil {
				pool = p.Name
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO standings (
					run_id, day, position, team_id, team_name,
					points, matches, match_won, match_lost,
					set_won, set_lost, point_won, point_lost,
					mu, sigma, conservative, pool, pool_rank
				) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
				runID, day, i+1, team.ID, team.Name,
				st.Points, st.MatchCount, st.MatchWon, st.MatchLost,
				st.SetWon, st.SetLost, st.PointWon, st.PointLost,
				st.Rating.Mu, st.Rating.Sigma, st.Rating.Conservative(), pool, team.PoolRank(day),
			)
			if err != nil {
				return "", fmt.Errorf("insert standing %s day %d: %w", team.ID, day, err)
			}
		}
	}

	for _, m := range c.Matches {
		var winner *string
		if m.Winner != nil {
			winner = &m.Winner.ID
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO matches (
				run_id, match_id, day, team_a, team_b, winner,
				set_a, set_b, total_a, total_b, win_probability, victory
			) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
			runID, m.ID, m.Day, m.TeamA.ID, m.TeamB.ID, winner,
			m.SetA, m.SetB, m.TotalA, m.TotalB, m.WinProbability, m.Victory.String(),
		)
		if err != nil {
			return "", fmt.Errorf("insert match %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit snapshot: %w", err)
	}
	telemetry.Infof("Saved snapshot  run=%s  days=%d  matches=%d", runID, c.DayCount, len(c.Matches))
	return runID, nil
}

// Runs lists the saved runs, latest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, name, season, category, strategy, last_day FROM runs ORDER BY ts DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ts string
		if err := rows.Scan(&r.ID, &ts, &r.Name, &r.Season, &r.Category, &r.Strategy, &r.LastDay); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Ts, _ = time.Parse(time.RFC3339Nano, ts)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Standings returns the board of a day of a run by rank.
func (s *Store) Standings(ctx context.Context, runID string, day int) ([]Standing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&n); err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT day, position, team_id, team_name,
			points, matches, match_won, match_lost,
			set_won, set_lost, point_won, point_lost,
			mu, sigma, conservative, pool, pool_rank
		FROM standings WHERE run_id = ? AND day = ? ORDER BY position`,
		runID, day)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	defer rows.Close()

	var standings []Standing
	for rows.Next() {
		var st Standing
		err := rows.Scan(&st.Day, &st.Rank, &st.TeamID, &st.TeamName,
			&st.Points, &st.Matches, &st.MatchWon, &st.MatchLost,
			&st.SetWon, &st.SetLost, &st.PointWon, &st.PointLost,
			&st.Mu, &st.Sigma, &st.Conservative, &st.Pool, &st.PoolRank)
		if err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		standings = append(standings, st)
	}
	return standings, rows.Err()
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
