/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"reviewdash/config"
)

const envPrefix = "REVIEWDASH"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reviewdash",
	Short: "Monthly reporting dashboard for document-review work entries.",
	Long: `
**********************************************
*     InSource Document Review Dashboard     *
**********************************************

This CLI loads pre-cleaned document-review work entries (Excel, CSV), derives monthly
summaries (hours, documents coded, review type, cases, jurisdictions, billable share)
and serves them as a year-filterable web dashboard. Entries can be kept in a local
SQLite snapshot and the summaries exported to CSV or Excel.

Supported input formats:
- Excel: .xlsx, .xlsm, .xls
- CSV: .csv
`,
	Example: `
  # Create configuration file
  reviewdash config create

  # Serve the dashboard straight from exports
  reviewdash serve -i reviews-2023.csv -i reviews-2024.xlsx

  # Keep entries in the SQLite snapshot, then serve from it
  reviewdash import -i reviews-2024.xlsx --db ./reviewdash.db
  reviewdash serve --db ./reviewdash.db

  # List the years present in the data
  reviewdash years --db ./reviewdash.db

  # Export the summaries of every year to one workbook
  reviewdash export --all --output ./summaries.xlsx
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.reviewdash.yaml, then ./.reviewdash.yaml)")
}

// initConfig reads in config file, .env and ENV variables if set.
func initConfig() {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".reviewdash")
	}

	// REVIEWDASH_SERVER_PORT overrides server.port and so on.
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: reviewdash config create")
	}
}
