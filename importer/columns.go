package importer

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMissingColumns = errors.New("missing required columns")

// Column is a required input column. Aliases are alternative header names
// accepted for the same column.
type Column struct {
	Name    string
	Aliases []string
}

func (c Column) Keys() []string {
	return append([]string{c.Name}, c.Aliases...)
}

// CheckColumns verifies that every required column is present in headers.
func CheckColumns(headers []string, required []Column) error {
	present := make(map[string]bool, len(headers))
	for _, header := range headers {
		present[normalizeHeader(header)] = true
	}

	missing := make([]string, 0)
	for _, column := range required {
		found := false
		for _, key := range column.Keys() {
			if present[normalizeHeader(key)] {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, column.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
}
