package cmd

import (
	"fmt"

	"github.com/nfrund/wastewise/internal/app"
	"github.com/nfrund/wastewise/internal/logging"
	"github.com/nfrund/wastewise/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web front-end",
	Long: `Run the web front-end until interrupted.

It is configured from the environment and an optional .env file, for
example APP_ADDR, BACKEND_URL and SESSION_SECRET. --backend overrides
BACKEND_URL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateServer(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger := logging.NewWithWriter(cfg.GetLogFormat(), cfg.GetLogLevel(), cmd.OutOrStdout())

		deps, err := app.Resolve(app.NewInjector(cfg, logger))
		if err != nil {
			return fmt.Errorf("wire services: %w", err)
		}
		s := server.New(deps)
		s.RegisterRoutes()
		return s.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
