package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/abhisek/mathcraft/internal/game"
	"github.com/abhisek/mathcraft/internal/scoring"
	"github.com/abhisek/mathcraft/internal/session"
	"github.com/abhisek/mathcraft/internal/ui/theme"
	"github.com/spf13/cobra"
)

// endTimeout bounds the best-effort end-session call on exit.
const endTimeout = 3 * time.Second

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a practice session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

// runPlay connects to the scoring service and runs the drill loop on the
// terminal until the player quits or the process is interrupted.
func runPlay(cmd *cobra.Command) error {
	cfg, err := resolveScoringConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := scoring.WithRetry(scoring.NewClient(cfg), cfg.Retry)
	logger := log.New(cmd.ErrOrStderr(), "mathcraft: ", 0)
	g := game.New(svc, session.WithLogger(logger))

	p := &player{in: cmd.InOrStdin(), out: cmd.OutOrStdout(), game: g}
	return p.run(ctx)
}

// player is the line-oriented terminal front end for a Game.
type player struct {
	in   io.Reader
	out  io.Writer
	game *game.Game
}

func (p *player) run(ctx context.Context) error {
	defer func() {
		endCtx, cancel := context.WithTimeout(context.Background(), endTimeout)
		defer cancel()
		p.game.End(endCtx)
	}()

	q, err := p.game.Start(ctx)
	noQuestion := q.ID == ""
	switch {
	case !noQuestion && err != nil:
		lipgloss.Fprintln(p.out, theme.Warning.Render(fmt.Sprintf("warning: %v", err)))
	case noQuestion && !errors.Is(err, session.ErrQuestionFetchFailed):
		return fmt.Errorf("could not start: %w", err)
	}

	lipgloss.Fprintln(p.out, theme.Title.Render("Mathcraft times tables"))
	lipgloss.Fprintln(p.out, theme.Hint.Render("Type your answer and press enter. 'n' skips, 'q' quits."))
	if noQuestion {
		// The session is up; only the first fetch failed.
		lipgloss.Fprintln(p.out, theme.Warning.Render(fmt.Sprintf("Could not load a question: %v ('n' to retry)", err)))
	} else {
		p.prompt(q)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(p.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(p.out)
			p.summary()
			return nil
		case l, ok := <-lines:
			if !ok {
				p.summary()
				return nil
			}
			line = strings.TrimSpace(l)
		}

		switch strings.ToLower(line) {
		case "":
			p.reprompt()
		case "q", "quit", "exit":
			p.summary()
			return nil
		case "n", "next", "skip":
			p.next(ctx)
		default:
			p.answer(ctx, line)
		}
	}
}

func (p *player) answer(ctx context.Context, line string) {
	out, err := p.game.Submit(ctx, line)
	switch {
	case errors.Is(err, session.ErrValidationFailed):
		lipgloss.Fprintln(p.out, theme.Hint.Render("Please enter a whole number."))
		p.reprompt()
		return
	case errors.Is(err, session.ErrNoQuestion):
		p.next(ctx)
		return
	case err != nil:
		lipgloss.Fprintln(p.out, theme.Warning.Render(fmt.Sprintf("Could not check your answer: %v", err)))
		p.reprompt()
		return
	}

	if !out.Result.Correct {
		lipgloss.Fprintln(p.out, theme.Incorrect.Render(fmt.Sprintf("Not quite. The answer is %d.", out.Result.CorrectAnswer)))
		p.status(out)
		p.reprompt()
		return
	}

	lipgloss.Fprintln(p.out, theme.Correct.Render(fmt.Sprintf("Correct! Next review in %s.", days(out.Result.NextReviewDays))))
	for _, a := range out.Unlocked {
		lipgloss.Fprintln(p.out, theme.Achievement.Render("Achievement unlocked: "+a.Label))
	}
	p.status(out)
	p.next(ctx)
}

func (p *player) next(ctx context.Context) {
	q, err := p.game.Next(ctx)
	if err != nil {
		lipgloss.Fprintln(p.out, theme.Warning.Render(fmt.Sprintf("Could not load a question: %v ('n' to retry)", err)))
		return
	}
	p.prompt(q)
}

func (p *player) prompt(q scoring.Question) {
	fmt.Fprintf(p.out, "%d × %d = ", q.A, q.B)
}

func (p *player) reprompt() {
	if q, ok := p.game.Current(); ok {
		p.prompt(q)
	}
}

func (p *player) status(out game.Outcome) {
	lipgloss.Fprintln(p.out, theme.Status.Render(fmt.Sprintf("Score %d  Streak %d  Answered %d",
		out.State.Score, out.State.Streak, out.State.TotalAnswered)))
}

func (p *player) summary() {
	s := p.game.Snapshot()
	fmt.Fprintf(p.out, "Final score %d of %d answered (%.0f%%).\n", s.Score, s.TotalAnswered, s.Accuracy())
	if unlocked := s.Unlocked(); len(unlocked) > 0 {
		names := make([]string, len(unlocked))
		for i, a := range unlocked {
			names[i] = a.Label
		}
		fmt.Fprintf(p.out, "Achievements: %s\n", strings.Join(names, ", "))
	}
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
