package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/abhisek/mathcraft/internal/scoring"
	"github.com/abhisek/mathcraft/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveScoringConfig(cmd)
		if err != nil {
			return err
		}
		c := scoring.NewClient(cfg)
		d, err := c.Dashboard(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Learner:             %s\n", d.Username)
		fmt.Fprintf(out, "Questions practiced: %d of %d\n", d.QuestionsPracticed, store.MaxFactor*store.MaxFactor)
		fmt.Fprintf(out, "Answers:             %d (%d correct, %d wrong)\n", d.TotalAttempts, d.TotalCorrect, d.TotalWrong)
		fmt.Fprintf(out, "Accuracy:            %.1f%%\n", d.Accuracy)
		fmt.Fprintf(out, "Time practiced:      %.1f min\n", d.TotalTimeMinutes)
		fmt.Fprintf(out, "Due for review:      %d\n", d.QuestionsDue)

		if len(d.RecentSessions) == 0 {
			return nil
		}
		fmt.Fprintln(out, "\nRecent sessions:")
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "STARTED\tANSWERED\tCORRECT\tMINUTES")
		for _, s := range d.RecentSessions {
			minutes := "-"
			if s.EndedAt != nil {
				minutes = fmt.Sprintf("%.1f", s.DurationMinutes)
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n",
				s.StartedAt.Local().Format(time.DateTime), s.QuestionsAnswered, s.CorrectAnswers, minutes)
		}
		return tw.Flush()
	},
}
