package terminal

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/guessreveal/internal/game"
)

var (
	clrBorder = lipgloss.Color("#30363d")
	clrSubtle = lipgloss.Color("#8b949e")
	clrTitle  = lipgloss.Color("#58a6ff")
	clrGreen  = lipgloss.Color("#3fb950")
	clrRed    = lipgloss.Color("#f85149")
	clrGold   = lipgloss.Color("#e3b341")
	clrOrange = lipgloss.Color("#f0883e")
	clrIce    = lipgloss.Color("#79c0ff")
	clrWhite  = lipgloss.Color("#e6edf3")
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func bold(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

var (
	titleStyle   = bold(clrTitle)
	headingStyle = bold(clrWhite)
	hintStyle    = fg(clrSubtle).Italic(true)
	alertStyle   = bold(clrRed)
	hashStyle    = fg(clrGold)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(clrBorder).
			Padding(0, 1)

	feedbackStyles = map[game.FeedbackClass]lipgloss.Style{
		game.FeedbackExact:    bold(clrGreen),
		game.FeedbackHot:      bold(clrRed),
		game.FeedbackWarm:     fg(clrOrange),
		game.FeedbackCold:     fg(clrIce),
		game.FeedbackVeryCold: fg(clrSubtle),
	}
)

func feedbackStyle(c game.FeedbackClass) lipgloss.Style {
	if s, ok := feedbackStyles[c]; ok {
		return s
	}
	return fg(clrWhite)
}
