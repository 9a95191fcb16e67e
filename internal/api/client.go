// internal/api/client.go
//
// HTTP client for the commit/reveal game backend.
// Responsibilities:
//   - POST /api/game/create, /api/game/{id}/commit, /api/game/{id}/guess, /api/game/{id}/reveal.
//   - GET /api/game/{id}/stats, /api/concepts, /api/health.
//   - Turn every failure (network, non-2xx, bad JSON, success:false) into a *RequestError.
//
// Notes:
//   - No retries and no deduplication; one call per player action.
//   - The only deadline is the http.Client timeout plus whatever the caller's context carries.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessreveal/internal/game"
)

// DefaultBaseURL is used when no backend URL is configured.
const DefaultBaseURL = "http://localhost:5000"

// maxBody bounds how much of a response body is read.
const maxBody = 1 << 20

// Client talks to one backend base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL with the given request timeout.
// An empty baseURL falls back to DefaultBaseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient lets tests and callers supply their own transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: hc}
}

// BaseURL reports the backend this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// CreateGame starts a new game session on the backend.
func (c *Client) CreateGame(ctx context.Context, req CreateGameRequest) (*CreateGameResponse, error) {
	var res CreateGameResponse
	if err := c.do(ctx, OpCreateGame, http.MethodPost, "/api/game/create", req, &res); err != nil {
		return nil, err
	}
	if res.GameID == "" {
		return nil, &RequestError{Op: OpCreateGame, Err: errors.New("response carried no game_id")}
	}
	return &res, nil
}

// Commit locks in the secret number and returns the commitment hash.
func (c *Client) Commit(ctx context.Context, gameID string, secret int) (*CommitResponse, error) {
	var res CommitResponse
	if err := c.do(ctx, OpCommit, http.MethodPost, gamePath(gameID, "commit"), commitRequest{Secret: secret}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Guess submits one guess and returns the backend's hot/cold feedback.
func (c *Client) Guess(ctx context.Context, gameID string, guess int) (*GuessResponse, error) {
	var res GuessResponse
	if err := c.do(ctx, OpGuess, http.MethodPost, gamePath(gameID, "guess"), guessRequest{Guess: guess}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Reveal discloses the secret and reports whether the commitment verified.
func (c *Client) Reveal(ctx context.Context, gameID string) (*RevealResponse, error) {
	var res RevealResponse
	if err := c.do(ctx, OpReveal, http.MethodPost, gamePath(gameID, "reveal"), struct{}{}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Stats fetches the backend's view of an ongoing game.
func (c *Client) Stats(ctx context.Context, gameID string) (*StatsResponse, error) {
	var res StatsResponse
	if err := c.do(ctx, OpStats, http.MethodGet, gamePath(gameID, "stats"), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Concepts fetches the educational content served by the backend.
func (c *Client) Concepts(ctx context.Context) ([]game.Concept, error) {
	var res conceptsResponse
	if err := c.do(ctx, OpConcepts, http.MethodGet, "/api/concepts", nil, &res); err != nil {
		return nil, err
	}
	return res.Concepts, nil
}

// Health pings the backend.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var res HealthResponse
	if err := c.do(ctx, OpHealth, http.MethodGet, "/api/health", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func gamePath(gameID, action string) string {
	return "/api/game/" + url.PathEscape(gameID) + "/" + action
}

// do performs one JSON round trip. out is decoded even for non-2xx replies so
// the backend's error text can reach the player.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &RequestError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("backend call")
	if err != nil {
		return &RequestError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	decodeErr := json.Unmarshal(raw, out)
	env, hasEnvelope := out.(enveloped)
	var e Envelope
	if hasEnvelope && decodeErr == nil {
		e = env.envelope()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Op: op, Status: resp.StatusCode, Message: e.Error}
	}
	if decodeErr != nil {
		return &RequestError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", decodeErr)}
	}
	if hasEnvelope && !e.Success {
		return &RequestError{Op: op, Status: resp.StatusCode, Message: e.Error}
	}
	return nil
}
