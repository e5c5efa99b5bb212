package importer

import (
	"strings"
	"time"
)

type Record struct {
	RowNumber int
	Values    map[string]string
	// Serials holds the stored number behind formatted spreadsheet cells,
	// keyed like Values. Only the Excel reader fills it.
	Serials  map[string]float64
	Date1904 bool
}

func (r Record) Get(keys ...string) string {
	for _, key := range keys {
		normalized := normalizeHeader(key)
		if value, ok := r.Values[normalized]; ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Raw returns the untrimmed value of the first matching column.
func (r Record) Raw(keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := r.Values[normalizeHeader(key)]; ok {
			return value, true
		}
	}
	return "", false
}

// Date resolves the first matching column as a date. A spreadsheet serial
// wins over the displayed text, which depends on the cell's number format.
func (r Record) Date(keys ...string) (time.Time, bool) {
	for _, key := range keys {
		if serial, ok := r.Serials[normalizeHeader(key)]; ok {
			return serialDate(serial, r.Date1904)
		}
	}
	return parseDate(r.Get(keys...))
}

// Blank reports whether every cell of the record is empty.
func (r Record) Blank() bool {
	for _, value := range r.Values {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func normalizeHeader(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	trimmed = strings.TrimPrefix(trimmed, "\ufeff")
	trimmed = strings.ReplaceAll(trimmed, "_", "")
	trimmed = strings.ReplaceAll(trimmed, "-", "")
	trimmed = strings.ReplaceAll(trimmed, " ", "")
	return trimmed
}
