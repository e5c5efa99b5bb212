// Package dataset holds the normalized work-entry table shared by every
// aggregation. A Table is built once and never mutated afterwards.
package dataset

import (
	"sort"

	"reviewdash/internal/timeutil"
	"reviewdash/worklog"
)

type Table struct {
	entries []worklog.Entry
	rows    []worklog.Row
	years   []string
}

// Load builds the immutable table: entries are copied, expanded by
// jurisdiction, and the distinct years of their period keys are collected.
func Load(entries []worklog.Entry) *Table {
	table := &Table{
		entries: make([]worklog.Entry, 0, len(entries)),
		rows:    make([]worklog.Row, 0, len(entries)),
	}

	seen := make(map[string]struct{})
	for _, entry := range entries {
		entry.Jurisdictions = append([]string(nil), entry.Jurisdictions...)
		table.entries = append(table.entries, entry)
		table.rows = append(table.rows, entry.Expand()...)

		if year := timeutil.PeriodYear(entry.Period); year != "" {
			seen[year] = struct{}{}
		}
	}

	table.years = make([]string, 0, len(seen))
	for year := range seen {
		table.years = append(table.years, year)
	}
	sort.Strings(table.years)

	return table
}

// Len is the number of expanded rows.
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) EntryCount() int {
	return len(t.entries)
}

// Years lists the distinct years present in period keys, ascending.
func (t *Table) Years() []string {
	return append([]string(nil), t.years...)
}

// DefaultYear is the most recent year, or "" for a table without dated rows.
func (t *Table) DefaultYear() string {
	if len(t.years) == 0 {
		return ""
	}
	return t.years[len(t.years)-1]
}

func (t *Table) HasYear(year string) bool {
	index := sort.SearchStrings(t.years, year)
	return index < len(t.years) && t.years[index] == year
}

// EachEntryInYear calls fn for every entry whose period key falls in year.
// Entries without a period key never match.
func (t *Table) EachEntryInYear(year string, fn func(worklog.Entry)) {
	for _, entry := range t.entries {
		if entry.HasPeriod() && timeutil.PeriodYear(entry.Period) == year {
			fn(entry)
		}
	}
}

// EachRowInYear calls fn for every expanded row whose period key falls in year.
func (t *Table) EachRowInYear(year string, fn func(worklog.Row)) {
	for _, row := range t.rows {
		if row.Period != "" && timeutil.PeriodYear(row.Period) == year {
			fn(row)
		}
	}
}
