package importer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

var jurisdictionPattern = regexp.MustCompile(`[A-Z]{2}`)

var billableValues = map[string]bool{
	"yes":  true,
	"true": true,
	"1":    true,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"01/02/06",
	"1/2/06",
}

// parseDate accepts the date layouts common in spreadsheet exports. The
// returned bool is false when no layout matches.
func parseDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// serialDate converts an Excel date serial to a wall-clock time in the
// local zone, matching how parseDate reads text dates.
func serialDate(serial float64, date1904 bool) (time.Time, bool) {
	if serial <= 0 || math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, false
	}
	value, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(value.Year(), value.Month(), value.Day(),
		value.Hour(), value.Minute(), value.Second(), 0, time.Local), true
}

func parseHours(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, nil
	}

	hours, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse hours %q: %w", raw, err)
	}
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, fmt.Errorf("parse hours %q: not a finite number", raw)
	}
	if hours < 0 {
		return 0, fmt.Errorf("hours must not be negative")
	}
	return hours, nil
}

// parseCount accepts whole counts, also when a spreadsheet wrote them as
// floats ("12.0"). Fractional counts are rejected.
func parseCount(raw string) (int, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, nil
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse count %q: %w", raw, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("parse count %q: not a finite number", raw)
	}

	if value != math.Trunc(value) {
		return 0, fmt.Errorf("count %q is not a whole number", raw)
	}
	if value < 0 {
		return 0, fmt.Errorf("count must not be negative")
	}
	return int(value), nil
}

// IsBillable normalizes a free-form billable flag.
func IsBillable(raw string) bool {
	return billableValues[strings.ToLower(strings.TrimSpace(raw))]
}

// ExtractJurisdictions returns every standalone two-letter uppercase code in
// notes, in order of appearance.
// Word boundaries are Unicode-aware: "éCA" holds no code.
func ExtractJurisdictions(notes string) []string {
	var codes []string
	for _, loc := range jurisdictionPattern.FindAllStringIndex(notes, -1) {
		before, _ := utf8.DecodeLastRuneInString(notes[:loc[0]])
		after, _ := utf8.DecodeRuneInString(notes[loc[1]:])
		if isWordRune(before) || isWordRune(after) {
			continue
		}
		codes = append(codes, notes[loc[0]:loc[1]])
	}
	return codes
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
