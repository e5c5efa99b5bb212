package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"reviewdash/report"
)

// CSVWriter writes one file per summary and year into the directory path,
// named <year>_<summary>.csv.
type CSVWriter struct{}

func (w *CSVWriter) Write(path string, bundles []report.Bundle) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create csv output directory %s: %w", path, err)
	}

	for _, bundle := range bundles {
		for _, table := range Tables(bundle) {
			name := filepath.Join(path, fmt.Sprintf("%s_%s.csv", bundle.Year, table.Name))
			if err := writeCSVTable(name, table); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeCSVTable(path string, table Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(table.Headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, values := range table.Rows {
		row := make([]string, len(values))
		for i, value := range values {
			row[i] = formatCell(value)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
