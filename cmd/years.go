package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"reviewdash/config"
	"reviewdash/dataset"
	"reviewdash/internal/logging"
	"reviewdash/worklog"

	"github.com/spf13/cobra"
)

var yearsDataset datasetFlags

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List the years available in the dashboard dropdown",
	Long: `Load the dataset and print every year with dated entries, the way the dashboard
dropdown offers them. The default (latest) year is marked.`,
	Example: `
  reviewdash years -i reviews.csv
  reviewdash years --db ./reviewdash.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		table, err := loadTable(yearsDataset.resolve(*cfg), logger)
		if err != nil {
			return err
		}
		return writeYears(cmd.OutOrStdout(), table)
	},
}

func init() {
	rootCmd.AddCommand(yearsCmd)

	addDatasetFlags(yearsCmd, &yearsDataset)
}

func writeYears(out io.Writer, table *dataset.Table) error {
	years := table.Years()
	if len(years) == 0 {
		_, err := fmt.Fprintln(out, "No dated entries.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tENTRIES\tHOURS\t")
	for _, year := range years {
		var entries int
		var hours float64
		table.EachEntryInYear(year, func(entry worklog.Entry) {
			entries++
			hours += entry.Hours
		})
		marker := ""
		if year == table.DefaultYear() {
			marker = "default"
		}
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%s\n", year, entries, hours, marker)
	}
	return tw.Flush()
}
