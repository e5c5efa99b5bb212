package timeutil

import "time"

const PeriodLayout = "2006-01"

// PeriodKey formats the year-month key used to group entries, e.g. "2024-07".
func PeriodKey(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(PeriodLayout)
}

// PeriodYear returns the first four characters of a period key, or "" for
// keys too short to carry a year.
func PeriodYear(period string) string {
	if len(period) < 4 {
		return ""
	}
	return period[:4]
}

// IsYear reports whether value is a four-digit year.
func IsYear(value string) bool {
	if len(value) != 4 {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
