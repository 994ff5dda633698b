package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Virtus92/Rising-BSM-Dev/internal/bms"
	"github.com/Virtus92/Rising-BSM-Dev/internal/mcpserver"
	"github.com/Virtus92/Rising-BSM-Dev/pkg/logging"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server over stdio",
	Long: `Starts the Model Context Protocol server on stdin/stdout for use by
MCP clients such as AI assistants. Exposes BMS tools, resources, and
prompts. Runs until the client closes the transport.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client := bms.NewClient(cfg.BMSAPIURL, cfg.BMSAPIKey)
		auth := bms.NewAuthClient(client, cfg.BMSAPIKey)
		logger := logging.Default()

		if info, err := auth.ServiceAccountInfo(cmd.Context()); err != nil {
			logger.Warn().Err(err).Msg("Could not verify service account, continuing anyway")
		} else {
			logger.Info().Str("account", info.Email).Msg("Authenticated against BMS API")
		}

		return mcpserver.New(cfg.ServerName, cfg.ServerVersion, client, auth, logger).Run()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
