package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reviewdash/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the effective configuration (file, REVIEWDASH_* environment and defaults
merged) and the config file it was read from.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  reviewdash config show

  # Check what an environment override resolves to
  REVIEWDASH_SERVER_PORT=9090 reviewdash config show
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		printConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), *cfg)
		return nil
	},
}

func printConfig(out io.Writer, source string, cfg config.Config) {
	if source == "" {
		source = "(none, defaults and environment only)"
	}
	fmt.Fprintln(out, "Config file loaded from:", source)
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "%s: [%s]\n", config.KeyDatasetInputs, strings.Join(cfg.Dataset.Inputs, ", "))
	fmt.Fprintf(out, "%s: %s\n", config.KeyDatasetFormat, valueOr(cfg.Dataset.Format, "(by extension)"))
	fmt.Fprintf(out, "%s: %s\n", config.KeyDatasetDateColumn, cfg.Dataset.DateColumn)
	fmt.Fprintf(out, "%s: %d\n", config.KeyServerPort, cfg.Server.Port)
	fmt.Fprintf(out, "%s: [%s]\n", config.KeyServerCORSOrigins, strings.Join(cfg.Server.CORSOrigins, ", "))
	fmt.Fprintf(out, "%s: %t\n", config.KeyServerOpenBrowser, cfg.Server.OpenBrowser)
	fmt.Fprintf(out, "%s: %s\n", config.KeyStorageDBPath, cfg.Storage.DBPath)
	fmt.Fprintf(out, "%s: %s\n", config.KeyLogLevel, cfg.Log.Level)
	fmt.Fprintf(out, "%s: %s\n", config.KeyLogFormat, cfg.Log.Format)
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
