// Package history keeps an append-only sqlite log of revealed games.
package history

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/robalobadob/guessreveal/internal/game"
)

// DefaultLimit is used by Recent when limit <= 0.
const DefaultLimit = 20

// Entry is one finished game.
type Entry struct {
	GameID          string    `json:"gameId"`
	Mode            game.Mode `json:"mode"`
	Player1         string    `json:"player1"`
	Player2         string    `json:"player2"`
	Secret          int       `json:"secret"`
	CommitmentValid bool      `json:"commitmentValid"`
	GuessesMade     int       `json:"guessesMade"`
	Result          string    `json:"result"`
	Winner          string    `json:"winner,omitempty"`
	CommittedAt     string    `json:"committedAt"`
	RevealedAt      time.Time `json:"revealedAt"`
}

// EntryFromSession builds the log row for a session in the result phase.
func EntryFromSession(s game.Session) (Entry, error) {
	if s.Phase != game.PhaseResult || s.Result == nil {
		return Entry{}, errors.New("history: session has no result")
	}
	return Entry{
		GameID:          s.GameID,
		Mode:            s.Mode,
		Player1:         s.Player1,
		Player2:         s.Player2,
		Secret:          s.Result.SecretNumber,
		CommitmentValid: s.Result.CommitmentValid,
		GuessesMade:     s.Result.GuessesMade,
		Result:          s.Result.ResultText,
		Winner:          s.Result.Winner,
		CommittedAt:     s.Result.CommittedAt,
	}, nil
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts e. A game id already logged is ignored.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.RevealedAt.IsZero() {
		e.RevealedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO games
            (game_id, mode, player1, player2, secret, commitment_valid,
             guesses_made, result, winner, committed_at, revealed_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.GameID, string(e.Mode), e.Player1, e.Player2, e.Secret, e.CommitmentValid,
		e.GuessesMade, e.Result, e.Winner, e.CommittedAt, e.RevealedAt.UTC(),
	)
	return err
}

// Recent returns the latest entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT game_id, mode, player1, player2, secret, commitment_valid,
               guesses_made, result, winner, committed_at, revealed_at
        FROM games
        ORDER BY revealed_at DESC, id DESC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var mode string
		if err := rows.Scan(&e.GameID, &mode, &e.Player1, &e.Player2, &e.Secret, &e.CommitmentValid,
			&e.GuessesMade, &e.Result, &e.Winner, &e.CommittedAt, &e.RevealedAt); err != nil {
			return nil, err
		}
		e.Mode = game.Mode(mode)
		out = append(out, e)
	}
	return out, rows.Err()
}
