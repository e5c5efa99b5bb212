package output

import (
	"fmt"
	"strings"

	"reviewdash/report"
)

// Writer persists one or more yearly bundles to path.
type Writer interface {
	Write(path string, bundles []report.Bundle) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
