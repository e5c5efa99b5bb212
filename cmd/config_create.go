package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reviewdash/config"
)

var configCreateForce bool

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Write the example configuration to $HOME/.reviewdash.yaml (or --configFile).

An existing file is validated and kept unless --force is given.`,
	Example: `
  # Create default config at $HOME/.reviewdash.yaml
  reviewdash config create

  # Reset a custom config file to the template
  reviewdash --configFile ./team.yaml config create --force
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return createConfig(cmd.OutOrStdout(), cfgFile, viper.ConfigFileUsed(), configCreateForce)
	},
}

func createConfig(out io.Writer, configFileFlag, configFileUsed string, force bool) error {
	path, err := resolveConfigPath(configFileFlag, configFileUsed)
	if err != nil {
		return err
	}

	written, err := writeConfigTemplate(path, force)
	if err != nil {
		return err
	}
	if written {
		fmt.Fprintf(out, "New config file created at: %s\n", path)
		return nil
	}

	fmt.Fprintf(out, "Config file already exists at: %s\n", path)
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading existing config failed: %w", err)
	}
	if _, err := config.ValidateYAMLContent(content); err != nil {
		fmt.Fprintf(out, "Warning: existing config is invalid: %v\n", err)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().BoolVar(&configCreateForce, "force", false, "Overwrite an existing config file with the template")
}
