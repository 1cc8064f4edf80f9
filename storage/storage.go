package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fiveinarow/game"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("game not found")

// timeLayout has fixed width so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Termination tells how a stored game ended.
type Termination string

const (
	Five      Termination = "five"
	Draw      Termination = "draw"
	Abandoned Termination = "abandoned" // Restarted or stopped before the end
)

type GameRecord struct {
	ID          string       `json:"id"`
	StartedAt   time.Time    `json:"startedAt"`
	EndedAt     time.Time    `json:"endedAt"`
	Rows        int          `json:"rows"`
	Cols        int          `json:"cols"`
	Black       string       `json:"black"` // Who played each side, e.g. "human" or "greedy"
	White       string       `json:"white"`
	Winner      game.Owner   `json:"winner"`
	Termination Termination  `json:"termination"`
	Moves       []game.Stone `json:"moves"` // In placement order
}

// Replay rebuilds the final state of the game.
func (r GameRecord) Replay(rules game.Rules) (*game.GameState, error) {
	first := game.Black
	if len(r.Moves) > 0 {
		first = r.Moves[0].Owner
	}
	return game.RestoreGameState(r.Rows, r.Cols, rules, first, r.Moves)
}

// Store archives finished games in SQLite.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		started_at TEXT,
		ended_at TEXT,
		rows INTEGER,
		cols INTEGER,
		black TEXT,
		white TEXT,
		winner TEXT,
		termination TEXT,
		moves TEXT
	);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	log.Info().Msgf("database initialized at %s", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveGame(ctx context.Context, r GameRecord) error {
	moves, err := json.Marshal(r.Moves)
	if err != nil {
		return fmt.Errorf("failed to encode moves: %w", err)
	}

	insertSQL := `
	INSERT INTO games (id, started_at, ended_at, rows, cols, black, white, winner, termination, moves)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, insertSQL,
		r.ID,
		r.StartedAt.UTC().Format(timeLayout),
		r.EndedAt.UTC().Format(timeLayout),
		r.Rows,
		r.Cols,
		r.Black,
		r.White,
		r.Winner.String(),
		string(r.Termination),
		string(moves),
	)
	if err != nil {
		return fmt.Errorf("failed to save game %s: %w", r.ID, err)
	}
	log.Debug().Msgf("game %s saved to database", r.ID)
	return nil
}

const selectSQL = `SELECT id, started_at, ended_at, rows, cols, black, white, winner, termination, moves FROM games`

func (s *Store) GetGame(ctx context.Context, id string) (GameRecord, error) {
	row := s.db.QueryRowContext(ctx, selectSQL+` WHERE id = ?`, id)
	r, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return GameRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// ListGames returns up to limit games, most recently finished first.
func (s *Store) ListGames(ctx context.Context, limit int) ([]GameRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectSQL+` ORDER BY ended_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	records := []GameRecord{}
	for rows.Next() {
		r, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (GameRecord, error) {
	var r GameRecord
	var startedAt, endedAt, winner, termination, moves string
	err := row.Scan(&r.ID, &startedAt, &endedAt, &r.Rows, &r.Cols, &r.Black, &r.White, &winner, &termination, &moves)
	if err != nil {
		return r, err
	}

	if r.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return r, fmt.Errorf("bad start time of game %s: %w", r.ID, err)
	}
	if r.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
		return r, fmt.Errorf("bad end time of game %s: %w", r.ID, err)
	}
	if err = r.Winner.UnmarshalText([]byte(winner)); err != nil {
		return r, err
	}
	r.Termination = Termination(termination)
	if err = json.Unmarshal([]byte(moves), &r.Moves); err != nil {
		return r, fmt.Errorf("bad moves of game %s: %w", r.ID, err)
	}
	return r, nil
}
