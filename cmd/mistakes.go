package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/abhisek/mathcraft/internal/scoring"
	"github.com/spf13/cobra"
)

var mistakesCmd = &cobra.Command{
	Use:   "mistakes",
	Short: "List questions answered incorrectly, most missed first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveScoringConfig(cmd)
		if err != nil {
			return err
		}
		mistakes, err := scoring.NewClient(cfg).Mistakes(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(mistakes) == 0 {
			fmt.Fprintln(out, "No mistakes yet.")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "QUESTION\tWRONG\tCORRECT\tNEXT REVIEW")
		for _, m := range mistakes {
			fmt.Fprintf(tw, "%d × %d = %d\t%d\t%d\t%s\n",
				m.A, m.B, m.Answer, m.WrongCount, m.CorrectCount, m.NextReviewAt.Local().Format(time.DateOnly))
		}
		return tw.Flush()
	},
}
