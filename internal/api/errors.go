package api

import (
	"fmt"
	"net/http"
)

// Operation names, also used to build the alert shown to the player.
const (
	OpCreateGame = "create game"
	OpCommit     = "commit secret"
	OpGuess      = "make guess"
	OpReveal     = "reveal answer"
	OpStats      = "load stats"
	OpConcepts   = "load concepts"
	OpHealth     = "check health"
)

// RequestError covers every failed backend call: transport failure,
// non-2xx status, undecodable body, or a decoded success:false.
type RequestError struct {
	Op     string // one of the Op* constants
	Status int    // HTTP status, 0 when no response arrived
	// Message is the backend's own error text, empty when it sent none.
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" && e.Status >= 300 {
		msg = http.StatusText(e.Status)
	}
	if msg == "" {
		msg = "backend reported failure"
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %d: %s", e.Op, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *RequestError) Unwrap() error { return e.Err }
