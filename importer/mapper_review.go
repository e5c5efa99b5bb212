package importer

import (
	"fmt"
	"strings"

	"reviewdash/internal/timeutil"
	"reviewdash/worklog"
)

const DefaultDateColumn = "local_date"

var (
	columnHours     = Column{Name: "hours"}
	columnDocuments = Column{Name: "#of_documents_coded", Aliases: []string{"documents_coded", "of_documents_coded"}}
	columnBillable  = Column{Name: "billable"}
	columnCaseType  = Column{Name: "affirmative_or_defensive"}
	columnJobCode   = Column{Name: "jobcode_3"}
	columnNotes     = Column{Name: "notes"}
)

// ReviewMapper normalizes one row of a document-review export: it derives
// the period key, the billable flag and the jurisdictions named in notes.
type ReviewMapper struct {
	dateColumn Column
}

func NewReviewMapper(dateColumn string) *ReviewMapper {
	dateColumn = strings.TrimSpace(dateColumn)
	if dateColumn == "" {
		dateColumn = DefaultDateColumn
	}
	return &ReviewMapper{dateColumn: Column{Name: dateColumn}}
}

func (m *ReviewMapper) Name() string {
	return "review"
}

func (m *ReviewMapper) RequiredColumns() []Column {
	return []Column{
		m.dateColumn,
		columnHours,
		columnDocuments,
		columnBillable,
		columnCaseType,
		columnJobCode,
		columnNotes,
	}
}

func (m *ReviewMapper) Map(record Record, sourceFile string) (*worklog.Entry, bool, error) {
	if record.Blank() {
		return nil, false, nil
	}

	hours, err := parseHours(record.Get(columnHours.Keys()...))
	if err != nil {
		return nil, false, fmt.Errorf("row %d: %w", record.RowNumber, err)
	}
	documents, err := parseCount(record.Get(columnDocuments.Keys()...))
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse documents coded: %w", record.RowNumber, err)
	}

	entry := &worklog.Entry{
		RowNumber:      record.RowNumber,
		Hours:          hours,
		DocumentsCoded: documents,
		Billable:       IsBillable(record.Get(columnBillable.Keys()...)),
		CaseType:       record.Get(columnCaseType.Keys()...),
		JobCode:        record.Get(columnJobCode.Keys()...),
		SourceFile:     sourceFile,
	}

	// Unparseable dates keep the row with an empty period key.
	if date, ok := record.Date(m.dateColumn.Keys()...); ok {
		entry.Date = date
		entry.Period = timeutil.PeriodKey(date)
	}

	notes, _ := record.Raw(columnNotes.Keys()...)
	entry.Notes = notes
	entry.Jurisdictions = ExtractJurisdictions(notes)

	return entry, true, nil
}
