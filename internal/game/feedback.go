// internal/game/feedback.go
//
// Classification of the backend's free-text guess feedback.
// Notes:
//   - The backend only sends a sentence; the class is derived from marker
//     words in it and drives colouring in both fronts.
//   - Text without a known marker is treated as very cold.

package game

import "strings"

// FeedbackClass is the display category of a guess feedback message.
type FeedbackClass string

const (
	FeedbackExact    FeedbackClass = "exact"
	FeedbackHot      FeedbackClass = "hot"
	FeedbackWarm     FeedbackClass = "warm"
	FeedbackCold     FeedbackClass = "cold"
	FeedbackVeryCold FeedbackClass = "very-cold"
)

// Checked top to bottom; the first marker found wins.
var feedbackMarkers = []struct {
	marker string
	class  FeedbackClass
}{
	{"CORRECT", FeedbackExact},
	{"Very close", FeedbackHot},
	{"warmer", FeedbackWarm},
	{"colder", FeedbackCold},
}

// ClassifyFeedback maps any feedback text to exactly one class.
// Text with no known marker (including "") is very cold.
func ClassifyFeedback(feedback string) FeedbackClass {
	for _, m := range feedbackMarkers {
		if strings.Contains(feedback, m.marker) {
			return m.class
		}
	}
	return FeedbackVeryCold
}
