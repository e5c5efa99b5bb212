package worklog

import "time"

// Entry is one normalized document-review work entry as read from the source table.
type Entry struct {
	ID             int64
	RowNumber      int
	Date           time.Time
	Period         string
	Hours          float64
	DocumentsCoded int
	Billable       bool
	CaseType       string
	JobCode        string
	Notes          string
	Jurisdictions  []string
	SourceFile     string
}

// HasPeriod reports whether the entry's date could be parsed into a period key.
func (e Entry) HasPeriod() bool {
	return e.Period != ""
}

// Row is an entry expanded by jurisdiction. An entry without jurisdictions
// expands to a single row with an empty Jurisdiction.
type Row struct {
	Period         string
	Hours          float64
	DocumentsCoded int
	Billable       bool
	CaseType       string
	JobCode        string
	Jurisdiction   string
}

// Expand returns one row per jurisdiction mentioned by the entry.
func (e Entry) Expand() []Row {
	base := Row{
		Period:         e.Period,
		Hours:          e.Hours,
		DocumentsCoded: e.DocumentsCoded,
		Billable:       e.Billable,
		CaseType:       e.CaseType,
		JobCode:        e.JobCode,
	}
	if len(e.Jurisdictions) == 0 {
		return []Row{base}
	}

	rows := make([]Row, 0, len(e.Jurisdictions))
	for _, jurisdiction := range e.Jurisdictions {
		row := base
		row.Jurisdiction = jurisdiction
		rows = append(rows, row)
	}
	return rows
}
