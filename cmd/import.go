package cmd

import (
	"fmt"
	"io"
	"os"

	"reviewdash/config"
	"reviewdash/storage"

	"github.com/spf13/cobra"
)

var (
	importDataset datasetFlags
	importReplace bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CSV/Excel work entries into the local SQLite snapshot",
	Long: `Read source files, normalize each row and persist the entries in SQLite.

The snapshot stores work entries only; summaries are always computed when needed.
Re-importing the same file is idempotent (rows are keyed by file and row number).
Use --replace to drop everything already stored before importing.
When --format is omitted, format is inferred from each input file extension.`,
	Example: `
  # Import two yearly exports
  reviewdash import -i reviews-2023.csv -i reviews-2024.xlsx --db ./reviewdash.db

  # Rebuild the snapshot from a fresh export
  reviewdash import -i reviews-all.xlsx --replace

  # Date column named differently in the export
  reviewdash import -i export.csv --date-column work_date
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		return runImport(cmd.OutOrStdout(), importDataset.resolve(*cfg), importReplace)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	addDatasetFlags(importCmd, &importDataset)
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Delete all stored entries before importing")
}

func runImport(out io.Writer, src datasetSource, replace bool) error {
	if len(src.Inputs) == 0 {
		return fmt.Errorf("no input files: pass --input or set dataset.inputs")
	}

	result, err := importEntries(src)
	if err != nil {
		return err
	}

	store, err := storage.OpenSQLite(src.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var persisted int
	if replace {
		persisted, err = store.ReplaceEntries(result.Entries)
	} else {
		persisted, err = store.InsertEntries(result.Entries)
	}
	if err != nil {
		return err
	}

	total, err := store.CountEntries()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Import completed. Files: %d, Rows read: %d, Rows mapped: %d, Rows skipped: %d, Rows undated: %d, Rows persisted: %d, Stored total: %d\n",
		result.FilesProcessed,
		result.RowsRead,
		result.RowsMapped,
		result.RowsSkipped,
		result.RowsUndated,
		persisted,
		total,
	)
	if result.RowsUndated > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d rows have no parseable date and will not appear in any year\n", result.RowsUndated)
	}
	return nil
}
