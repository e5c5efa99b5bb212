package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage reviewdash configuration file values.",
	Long: `Create, edit, display, and delete the reviewdash configuration file.

The configuration stores the dataset source and server settings:
- dataset.inputs / dataset.format / dataset.date_column
- server.port / server.cors_origins / server.open_browser
- storage.db_path
- log.level / log.format

Every key can be overridden with an environment variable prefixed REVIEWDASH_
(for example REVIEWDASH_SERVER_PORT=9090), also read from a .env file.`,
	Example: `
  # Create default config in $HOME/.reviewdash.yaml
  reviewdash config create

  # Show active config and source file
  reviewdash config show

  # Open active config in editor (creates example if missing)
  reviewdash config edit

  # Delete active config file
  reviewdash config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
