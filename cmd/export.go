package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"reviewdash/config"
	"reviewdash/dataset"
	"reviewdash/internal/logging"
	"reviewdash/internal/timeutil"
	"reviewdash/output"
	"reviewdash/report"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	exportDataset      datasetFlags
	exportYear         string
	exportAll          bool
	exportOutputFormat string
	exportOutput       string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export monthly summaries to CSV or Excel",
	Long: `Compute the six monthly summaries for one year (default: latest) or every year
and write them out.

- csv: --output is a directory; one file per summary and year (<year>_<summary>.csv)
- excel: --output is a workbook; one sheet per summary and year ("<year> <summary>")

The output format can be selected explicitly via --output-format or inferred from the
--output extension (.xlsx means excel, anything else csv).`,
	Example: `
  # Latest year as CSV files
  reviewdash export -i reviews.csv --output ./summaries

  # One year from the snapshot as a workbook
  reviewdash export --db ./reviewdash.db --year 2023 --output ./2023.xlsx

  # Every year in one workbook
  reviewdash export --all --output ./summaries.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		if exportAll && strings.TrimSpace(exportYear) != "" {
			return fmt.Errorf("--year and --all are mutually exclusive")
		}

		logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		table, err := loadTable(exportDataset.resolve(*cfg), logger)
		if err != nil {
			return err
		}

		format := exportOutputFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}
		return runExport(cmd.Context(), cmd.OutOrStdout(), table, exportYearsFor(table, exportYear, exportAll), format, exportOutput)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	addDatasetFlags(exportCmd, &exportDataset)
	exportCmd.Flags().StringVar(&exportYear, "year", "", "Year to export, format YYYY (default: latest year)")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every year in the dataset")
	exportCmd.Flags().StringVar(&exportOutputFormat, "output-format", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output directory (csv) or workbook path (excel)")

	_ = exportCmd.MarkFlagRequired("output")
}

func exportYearsFor(table *dataset.Table, year string, all bool) []string {
	if all {
		return table.Years()
	}
	if year = strings.TrimSpace(year); year != "" {
		return []string{year}
	}
	if def := table.DefaultYear(); def != "" {
		return []string{def}
	}
	return nil
}

// runExport aggregates the requested years concurrently and writes them in
// the requested order.
func runExport(ctx context.Context, out io.Writer, table *dataset.Table, years []string, format, path string) error {
	if len(years) == 0 {
		return fmt.Errorf("nothing to export: the dataset has no dated entries")
	}
	for _, year := range years {
		if !timeutil.IsYear(year) {
			return fmt.Errorf("invalid year %q (expected YYYY)", year)
		}
		if !table.HasYear(year) {
			return fmt.Errorf("year %s not present in dataset (available: %s)", year, strings.Join(table.Years(), ", "))
		}
	}

	writer, err := output.WriterForFormat(format)
	if err != nil {
		return err
	}

	bundles := make([]report.Bundle, len(years))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, year := range years {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			bundles[i] = report.Aggregate(table, year)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("aggregate years: %w", err)
	}

	if err := writer.Write(path, bundles); err != nil {
		return err
	}
	tables := 0
	for _, bundle := range bundles {
		tables += len(output.Tables(bundle))
	}
	fmt.Fprintf(out, "Export completed. Years: %s, Tables: %d, Format: %s, Output: %s\n",
		strings.Join(years, ", "),
		tables,
		format,
		path,
	)
	return nil
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "xlsx", "xlsm":
		return "excel"
	default:
		return "csv"
	}
}
