package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/mathcraft/internal/server"
	"github.com/abhisek/mathcraft/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scoring service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := server.ConfigFromEnv()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := server.OptionsFromStore(st)
		opts.Logger = log.New(os.Stderr, "mathcraft: ", log.LstdFlags)
		opts.Logger.Printf("using database %s", dbPath)
		return server.New(opts).ListenAndServe(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides MATHCRAFT_ADDR env var)")
}
