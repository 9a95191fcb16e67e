// internal/api/types.go
//
// Wire payloads for the commit/reveal game backend.
// Field names follow the backend's snake_case JSON; only fields the client
// reads are declared.

package api

import "github.com/robalobadob/guessreveal/internal/game"

// Envelope is embedded in every game response: success flag plus an error
// message when success is false.
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (e Envelope) envelope() Envelope { return e }

// enveloped is implemented by every response that carries an Envelope.
type enveloped interface{ envelope() Envelope }

// CreateGameRequest is the body of POST /api/game/create.
type CreateGameRequest struct {
	Mode    game.Mode `json:"mode"`
	Player1 string    `json:"player1"`
	Player2 string    `json:"player2"`
}

type CreateGameResponse struct {
	Envelope
	GameID     string    `json:"game_id"`
	Mode       game.Mode `json:"mode"`
	Player1    string    `json:"player1"`
	Player2    string    `json:"player2"`
	Min        int       `json:"min"`
	Max        int       `json:"max"`
	MaxGuesses int       `json:"max_guesses"`
}

type commitRequest struct {
	Secret int `json:"secret"`
}

type CommitResponse struct {
	Envelope
	CommitmentHash string `json:"commitment_hash"`
	Message        string `json:"message"`
}

type guessRequest struct {
	Guess int `json:"guess"`
}

type GuessResponse struct {
	Envelope
	Guess     int    `json:"guess"`
	Feedback  string `json:"feedback"`
	Attempt   int    `json:"attempt"`
	Remaining int    `json:"remaining"`
	GameOver  bool   `json:"game_over"`
}

type RevealResponse struct {
	Envelope
	SecretNumber    int     `json:"secret_number"`
	CommitmentValid bool    `json:"commitment_valid"`
	GuessesMade     int     `json:"guesses_made"`
	Result          string  `json:"result"`
	GameWinner      *string `json:"game_winner"`
	Timestamp       string  `json:"timestamp"`
}

// RevealResult converts the payload into the domain value.
func (r *RevealResponse) RevealResult() game.RevealResult {
	out := game.RevealResult{
		SecretNumber:    r.SecretNumber,
		CommitmentValid: r.CommitmentValid,
		ResultText:      r.Result,
		GuessesMade:     r.GuessesMade,
		CommittedAt:     r.Timestamp,
	}
	if r.GameWinner != nil {
		out.Winner = *r.GameWinner
	}
	return out
}

// StatsResponse is returned by GET /api/game/{id}/stats.
type StatsResponse struct {
	Envelope
	Phase            string `json:"phase"`
	GuessesMade      int    `json:"guesses_made"`
	GuessesRemaining int    `json:"guesses_remaining"`
	GameOver         bool   `json:"game_over"`
	RecentGuesses    []int  `json:"recent_guesses"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type conceptsResponse struct {
	Concepts []game.Concept `json:"concepts"`
}
