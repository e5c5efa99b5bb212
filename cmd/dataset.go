package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reviewdash/config"
	"reviewdash/dataset"
	"reviewdash/importer"
	"reviewdash/storage"
)

var errNoDataset = errors.New("no dataset: pass --input files or run \"reviewdash import\" first")

// datasetFlags are shared by every command that needs the work-entry table.
type datasetFlags struct {
	inputs     []string
	format     string
	dateColumn string
	dbPath     string
}

type datasetSource struct {
	Inputs     []string
	Format     string
	DateColumn string
	DBPath     string
}

func addDatasetFlags(cmd *cobra.Command, flags *datasetFlags) {
	cmd.Flags().StringArrayVarP(&flags.inputs, "input", "i", nil, "Input file path (repeatable, overrides dataset.inputs)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	cmd.Flags().StringVar(&flags.dateColumn, "date-column", "", "Header of the date column (default from config: local_date)")
	cmd.Flags().StringVar(&flags.dbPath, "db", "", "Path to local SQLite snapshot (default from config: reviewdash.db)")
}

// resolve merges explicit flags over the loaded configuration.
func (f datasetFlags) resolve(cfg config.Config) datasetSource {
	src := datasetSource{
		Inputs:     cfg.Dataset.Inputs,
		Format:     cfg.Dataset.Format,
		DateColumn: cfg.Dataset.DateColumn,
		DBPath:     cfg.Storage.DBPath,
	}
	if len(f.inputs) > 0 {
		src.Inputs = f.inputs
	}
	if strings.TrimSpace(f.format) != "" {
		src.Format = strings.ToLower(strings.TrimSpace(f.format))
	}
	if strings.TrimSpace(f.dateColumn) != "" {
		src.DateColumn = strings.TrimSpace(f.dateColumn)
	}
	if strings.TrimSpace(f.dbPath) != "" {
		src.DBPath = strings.TrimSpace(f.dbPath)
	}
	return src
}

// importEntries reads and normalizes the configured input files.
func importEntries(src datasetSource) (*importer.Result, error) {
	mapper, err := importer.MapperByName("review", src.DateColumn)
	if err != nil {
		return nil, err
	}
	return importer.Run(src.Inputs, src.Format, mapper)
}

// loadTable builds the in-memory table from input files when any are
// configured and from the SQLite snapshot otherwise.
func loadTable(src datasetSource, logger *slog.Logger) (*dataset.Table, error) {
	if len(src.Inputs) > 0 {
		result, err := importEntries(src)
		if err != nil {
			return nil, err
		}
		logger.Info("dataset loaded from files",
			"files", result.FilesProcessed,
			"rows_read", result.RowsRead,
			"entries", result.RowsMapped,
			"skipped", result.RowsSkipped,
			"undated", result.RowsUndated,
		)
		if result.RowsUndated > 0 {
			logger.Warn("entries without a parseable date are excluded from every year", "undated", result.RowsUndated)
		}
		return dataset.Load(result.Entries), nil
	}

	if _, err := os.Stat(src.DBPath); err != nil {
		if os.IsNotExist(err) {
			return nil, errNoDataset
		}
		return nil, fmt.Errorf("check sqlite snapshot: %w", err)
	}

	store, err := storage.OpenSQLite(src.DBPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	entries, err := store.ListEntries()
	if err != nil {
		return nil, err
	}
	logger.Info("dataset loaded from snapshot", "db", src.DBPath, "entries", len(entries))
	return dataset.Load(entries), nil
}
