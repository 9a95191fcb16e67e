// internal/game/validate.go
//
// Player input checks run before any backend call.
// Responsibilities:
//   - Parse secrets and guesses as integers in [MinNumber, MaxNumber].
//   - Report bad input as *ValidationError with the player-facing reason.

package game

import (
	"fmt"
	"strconv"
	"strings"
)

// RangeHint is the message players see when a number is missing or out of range.
var RangeHint = fmt.Sprintf("Please enter a number between %d and %d", MinNumber, MaxNumber)

// ParseNumber validates a secret or guess typed by the player.
// Empty, non-integer and out-of-range input all yield a *ValidationError.
func ParseNumber(input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, &ValidationError{Input: input, Reason: RangeHint}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < MinNumber || n > MaxNumber {
		return 0, &ValidationError{Input: input, Reason: RangeHint}
	}
	return n, nil
}
