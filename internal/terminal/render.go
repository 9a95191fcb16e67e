package terminal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/guessreveal/internal/game"
	"github.com/robalobadob/guessreveal/internal/view"
)

// render draws one screen. It has no side effects.
func render(sc view.Screen) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(view.Title))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(view.Subtitle))
	b.WriteString("\n\n")

	var body []string
	body = append(body, headingStyle.Render(sc.Heading))
	if sc.Players != "" && sc.Phase != game.PhaseResult {
		body = append(body, fg(clrSubtle).Render(sc.Players))
	}
	body = append(body, sc.Lines...)

	switch sc.Phase {
	case game.PhaseMenu:
		for i, c := range sc.Controls {
			body = append(body, fmt.Sprintf("%d. %s (%s)", i+1, c.Label, c.Hint))
		}
		body = append(body, fmt.Sprintf("%d. Exit", len(sc.Controls)+1))

	case game.PhaseGuessing, game.PhaseReveal:
		if sc.HashPreview != "" {
			body = append(body, "📝 Commitment Hash: "+hashStyle.Render(sc.HashPreview))
		}
		body = append(body, "📊 "+sc.Progress())
		if sc.Phase == game.PhaseGuessing {
			body = append(body, "Remaining: "+strconv.Itoa(sc.Remaining))
		}
		if sc.Feedback != "" {
			body = append(body, feedbackStyle(sc.FeedbackClass).Render(sc.Feedback))
		}
		if sc.History != "" {
			body = append(body, "Your Guesses: "+sc.History)
		}

	case game.PhaseResult:
		if r := sc.Result; r != nil {
			verdict := bold(clrRed).Render(r.Verdict)
			if r.Valid {
				verdict = bold(clrGreen).Render(r.Verdict)
			}
			body = append(body,
				"Secret Number: "+bold(clrGold).Render(strconv.Itoa(r.Secret)),
				verdict,
				r.Message,
				"Guesses Made: "+strconv.Itoa(r.GuessesMade),
				"Committed At: "+r.CommittedAt,
				"Commitment: "+r.Honesty,
			)
			if r.Winner != "" {
				body = append(body, "Winner: "+r.Winner)
			}
		}

	case game.PhaseLearn:
		for i, c := range sc.Concepts {
			body = append(body, fmt.Sprintf("%d. What is %s?", i+1, c.Title))
		}
		body = append(body,
			fmt.Sprintf("%d. Complete Overview", len(sc.Concepts)+1),
			fmt.Sprintf("%d. %s", len(sc.Concepts)+2, "Back to Menu"),
		)
	}

	for _, h := range sc.Hints {
		body = append(body, hintStyle.Render(h))
	}
	if sc.Busy {
		body = append(body, hintStyle.Render("… waiting for the backend"))
	}

	b.WriteString(boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, body...)))
	b.WriteString("\n")
	return b.String()
}

// renderConcept draws the detail card of one learn-mode concept.
func renderConcept(c game.Concept) string {
	lines := []string{headingStyle.Render(strings.ToUpper(c.Title)), c.Description, ""}
	for _, p := range c.KeyPoints {
		lines = append(lines, "  • "+p)
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)) + "\n"
}

func renderAlert(msg string) string {
	return alertStyle.Render("❌ "+msg) + "\n"
}
