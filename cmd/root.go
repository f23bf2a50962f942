package cmd

import (
	"fmt"

	"github.com/abhisek/mathcraft/internal/scoring"
	"github.com/abhisek/mathcraft/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mathcraft",
	Short: "Multiplication drills with spaced repetition",
	Long:  "Mathcraft: a terminal multiplication trainer for the 1-9 times tables, backed by a spaced-repetition scoring service.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MATHCRAFT_DB env var)")
	rootCmd.PersistentFlags().String("server", "", "Scoring service URL (overrides MATHCRAFT_SERVER_URL env var)")
	rootCmd.PersistentFlags().StringP("user", "u", "", "Learner profile (overrides MATHCRAFT_USER env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(mistakesCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MATHCRAFT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveScoringConfig loads the client config from the environment and
// applies the --server and --user flags on top.
func resolveScoringConfig(cmd *cobra.Command) (scoring.Config, error) {
	cfg, err := scoring.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	if u, _ := cmd.Flags().GetString("server"); u != "" {
		cfg.BaseURL = u
	}
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		cfg.User = u
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("scoring config: %w", err)
	}
	return cfg, nil
}

// resolveLearner returns the learner selected by --user or MATHCRAFT_USER,
// falling back to the server's default learner.
func resolveLearner(cmd *cobra.Command) (string, error) {
	cfg, err := resolveScoringConfig(cmd)
	if err != nil {
		return "", err
	}
	if cfg.User == "" {
		return scoring.DefaultUser, nil
	}
	return cfg.User, nil
}
