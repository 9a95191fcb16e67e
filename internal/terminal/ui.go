// Package terminal is a line-oriented front for the guessing game: it reads
// choices and numbers from an io.Reader and draws each phase with lipgloss.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessreveal/internal/controller"
	"github.com/robalobadob/guessreveal/internal/game"
	"github.com/robalobadob/guessreveal/internal/view"
)

// UI drives one controller from a terminal.
type UI struct {
	in   *bufio.Scanner
	out  io.Writer
	ctrl *controller.Controller

	// concepts is loaded once per visit to learn mode.
	concepts []game.Concept
}

// New wires a UI reading from in and drawing to out.
func New(in io.Reader, out io.Writer, ctrl *controller.Controller) *UI {
	return &UI{in: bufio.NewScanner(in), out: out, ctrl: ctrl}
}

// Run loops until the player exits, input ends, or ctx is done.
func (u *UI) Run(ctx context.Context) error {
	cancel := u.ctrl.Subscribe(func(s game.Session) {
		if s.Busy {
			fmt.Fprintln(u.out, hintStyle.Render("… contacting backend"))
		}
	})
	defer cancel()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		snap := u.ctrl.Snapshot()
		sc := view.Project(snap)
		if snap.Phase == game.PhaseLearn {
			sc.Concepts = u.loadConcepts(ctx)
		}
		fmt.Fprint(u.out, render(sc))

		quit, err := u.step(ctx, snap)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(u.out)
			return nil
		}
		if err != nil {
			fmt.Fprint(u.out, renderAlert(view.Alert(err)))
		}
		if quit {
			fmt.Fprintln(u.out, "👋 Thanks for playing! Remember: commit first, reveal later.")
			return nil
		}
	}
}

// step handles one round of input for the current phase.
func (u *UI) step(ctx context.Context, snap game.Session) (quit bool, err error) {
	switch snap.Phase {
	case game.PhaseMenu:
		return u.menu(ctx)
	case game.PhaseLearn:
		return false, u.learn()
	case game.PhaseCommitment:
		if snap.Mode == game.ModeTwo {
			fmt.Fprintf(u.out, "🔒 %s: commit to a secret number while %s looks away.\n", snap.Player1, snap.Player2)
		}
		line, err := u.readLine("Enter secret number (1-100): ")
		if err != nil {
			return false, err
		}
		if err := u.ctrl.CommitSecret(ctx, line); err != nil {
			return false, err
		}
		if snap.Mode == game.ModeTwo {
			_, err = u.readLine(fmt.Sprintf("[Press Enter when %s has left the area...]", snap.Player1))
		}
		return false, err
	case game.PhaseGuessing:
		line, err := u.readLine(fmt.Sprintf("Guess %d (1-100): ", snap.GuessCount()+1))
		if err != nil {
			return false, err
		}
		return false, u.ctrl.MakeGuess(ctx, line)
	case game.PhaseReveal:
		if _, err := u.readLine("[Press Enter to reveal & verify the commitment...]"); err != nil {
			return false, err
		}
		return false, u.ctrl.RevealAnswer(ctx)
	case game.PhaseResult:
		line, err := u.readLine("Play again? [Y/n]: ")
		if err != nil {
			return false, err
		}
		if a := strings.ToLower(strings.TrimSpace(line)); a == "n" || a == "no" {
			return true, nil
		}
		return false, u.ctrl.Reset()
	}
	return false, fmt.Errorf("unknown phase %q", snap.Phase)
}

func (u *UI) menu(ctx context.Context) (bool, error) {
	line, err := u.readLine("Enter choice (1-4): ")
	if err != nil {
		return false, err
	}
	switch strings.TrimSpace(line) {
	case "1":
		return false, u.ctrl.CreateGame(ctx, game.ModeSingle, "", "")
	case "2":
		p1, err := u.readLine("Player 1 name (will commit to secret): ")
		if err != nil {
			return false, err
		}
		p2, err := u.readLine("Player 2 name (will guess): ")
		if err != nil {
			return false, err
		}
		return false, u.ctrl.CreateGame(ctx, game.ModeTwo, p1, p2)
	case "3":
		u.concepts = nil
		return false, u.ctrl.EnterLearnMode()
	case "4":
		return true, nil
	}
	fmt.Fprint(u.out, renderAlert("Invalid choice. Please try again."))
	return false, nil
}

func (u *UI) learn() error {
	n := len(u.concepts)
	line, err := u.readLine(fmt.Sprintf("Choose (1-%d): ", n+2))
	if err != nil {
		return err
	}
	choice, convErr := strconv.Atoi(strings.TrimSpace(line))
	switch {
	case convErr == nil && choice >= 1 && choice <= n:
		fmt.Fprint(u.out, renderConcept(u.concepts[choice-1]))
	case choice == n+1:
		fmt.Fprint(u.out, boxStyle.Render(game.Overview)+"\n")
	case choice == n+2:
		u.concepts = nil
		return u.ctrl.Reset()
	default:
		fmt.Fprint(u.out, renderAlert("Invalid choice. Please try again."))
		return nil
	}
	_, err = u.readLine("Press Enter to continue...")
	return err
}

func (u *UI) loadConcepts(ctx context.Context) []game.Concept {
	if u.concepts == nil {
		u.concepts = u.ctrl.Concepts(ctx)
		log.Debug().Int("concepts", len(u.concepts)).Msg("learn content loaded")
	}
	return u.concepts
}

// readLine prompts and returns one line of input, or io.EOF when input ends.
func (u *UI) readLine(prompt string) (string, error) {
	fmt.Fprint(u.out, prompt)
	if !u.in.Scan() {
		if err := u.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return u.in.Text(), nil
}
