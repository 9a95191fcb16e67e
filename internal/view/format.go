// internal/view/format.go
//
// Formatting helpers shared by the terminal and web fronts.
// Responsibilities:
//   - Render backend timestamps for people.
//   - Map action errors to the alert text a player sees.
//   - Label a commitment as honest or cheated.

package view

import (
	"errors"
	"time"

	"github.com/robalobadob/guessreveal/internal/api"
	"github.com/robalobadob/guessreveal/internal/controller"
	"github.com/robalobadob/guessreveal/internal/game"
)

// The backend sends naive ISO timestamps (no zone) with microseconds;
// RFC 3339 is accepted too.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// FormatTimestamp renders a backend timestamp for people. Unparseable
// input is returned unchanged.
func FormatTimestamp(raw string) string {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006 3:04:05 PM")
		}
	}
	return raw
}

// Honesty labels a commitment by whether it verified.
func Honesty(valid bool) string {
	if valid {
		return "Honest ✓"
	}
	return "Cheated ✗"
}

// Alert turns an action error into the message shown to the player.
func Alert(err error) string {
	if err == nil {
		return ""
	}

	var verr *game.ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	if errors.Is(err, controller.ErrBusy) {
		return "Please wait, the previous request is still in progress"
	}
	if errors.Is(err, controller.ErrNoGame) {
		return "No active game, start a new one from the menu"
	}
	if errors.Is(err, game.ErrWrongPhase) {
		return "That action is not available right now"
	}

	var rerr *api.RequestError
	if errors.As(err, &rerr) {
		// Guess failures show the backend's own reason as-is.
		if rerr.Op == api.OpGuess && rerr.Message != "" {
			return rerr.Message
		}
		msg := "Failed to " + rerr.Op
		if rerr.Message != "" {
			msg += ": " + rerr.Message
		}
		return msg
	}
	return "Something went wrong"
}
