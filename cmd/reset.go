package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/mathcraft/internal/store"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
	Long: "Delete one learner's progress, sessions and answer history from the local database. " +
		"With --all every learner is reset. Learner profiles and the question catalogue are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		all, _ := cmd.Flags().GetBool("all")
		learner, err := resolveLearner(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			if all {
				fmt.Fprintf(out, "Erase data for all learners in %s? [y/N] ", dbPath)
			} else {
				fmt.Fprintf(out, "Erase data for learner %q in %s? [y/N] ", learner, dbPath)
			}
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if all {
			if err := st.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, "Learner data reset.")
			return nil
		}

		u, err := st.UserRepo().Get(cmd.Context(), learner)
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(out, "No data for learner %q.\n", learner)
			return nil
		}
		if err != nil {
			return err
		}
		if err := st.ResetUser(cmd.Context(), u.ID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Learner data reset for %s.\n", learner)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	resetCmd.Flags().Bool("all", false, "Reset every learner")
}
