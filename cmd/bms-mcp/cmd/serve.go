package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Virtus92/Rising-BSM-Dev/internal/server"
	"github.com/Virtus92/Rising-BSM-Dev/pkg/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP event streaming server",
	Long: `Starts the HTTP server: the change poller watches the BMS API and
detected changes are streamed to clients via /sse/events and /ws/events.
Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := logging.Default()
		logger.Info().
			Str("version", Version).
			Str("bms_api", cfg.BMSAPIURL).
			Msg("Starting event streaming server")

		return server.New(cfg, logger).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
