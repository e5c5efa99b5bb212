package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"reviewdash/worklog"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsMapped     int
	RowsSkipped    int
	RowsUndated    int
	Entries        []worklog.Entry
}

// Run reads every input file, checks its columns against the mapper and
// normalizes each row. Any read, column or numeric parse failure aborts the run.
func Run(paths []string, format string, mapper Mapper) (*Result, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input files given")
	}

	result := &Result{Entries: make([]worklog.Entry, 0, 256)}
	for _, path := range paths {
		sourceFormat, err := inferFormat(path, format)
		if err != nil {
			return nil, err
		}

		reader, err := ReaderForFormat(sourceFormat)
		if err != nil {
			return nil, err
		}

		sheet, err := reader.Read(path)
		if err != nil {
			return nil, err
		}
		if err := CheckColumns(sheet.Headers, mapper.RequiredColumns()); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		result.FilesProcessed++
		result.RowsRead += len(sheet.Records)

		for _, record := range sheet.Records {
			entry, ok, mapErr := mapper.Map(record, path)
			if mapErr != nil {
				return nil, fmt.Errorf("%s: %w", path, mapErr)
			}
			if !ok || entry == nil {
				result.RowsSkipped++
				continue
			}
			result.RowsMapped++
			if !entry.HasPeriod() {
				result.RowsUndated++
			}
			result.Entries = append(result.Entries, *entry)
		}
	}

	return result, nil
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "xlsx", "xlsm", "xls":
		return "excel", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}
