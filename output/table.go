package output

import (
	"strconv"

	"reviewdash/report"
)

// Table is one summary of a bundle laid out as header plus rows. Cell values
// are strings, ints or float64s; a nil cell is written empty.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// Tables flattens a bundle into its six summaries in dashboard order.
func Tables(bundle report.Bundle) []Table {
	hours := Table{Name: "hours_by_month", Headers: []string{"year_month", "hours"}}
	for _, row := range bundle.HoursByMonth {
		hours.Rows = append(hours.Rows, []any{row.Period, row.Hours})
	}

	docs := Table{Name: "docs_by_month", Headers: []string{"year_month", "documents_coded"}}
	for _, row := range bundle.DocsByMonth {
		docs.Rows = append(docs.Rows, []any{row.Period, row.DocumentsCoded})
	}

	reviewTypes := Table{Name: "review_by_type_month", Headers: []string{"year_month", "affirmative_or_defensive", "hours"}}
	for _, row := range bundle.ReviewByTypeMonth {
		reviewTypes.Rows = append(reviewTypes.Rows, []any{row.Period, row.CaseType, row.Hours})
	}

	cases := Table{Name: "cases_by_month", Headers: []string{"year_month", "jobcode_3", "hours"}}
	for _, row := range bundle.CasesByMonth {
		cases.Rows = append(cases.Rows, []any{row.Period, row.JobCode, row.Hours})
	}

	jurisdictions := Table{Name: "jurisdictions_by_month", Headers: []string{"year_month", "jurisdiction", "hours"}}
	for _, row := range bundle.JurisdictionsByMonth {
		jurisdictions.Rows = append(jurisdictions.Rows, []any{row.Period, row.Jurisdiction, row.Hours})
	}

	billable := Table{Name: "billable_stats", Headers: []string{"year_month", "total_hours", "billable_hours", "billable_pct"}}
	for _, row := range bundle.BillableStats {
		var pct any
		if row.BillablePct != nil {
			pct = *row.BillablePct
		}
		billable.Rows = append(billable.Rows, []any{row.Period, row.TotalHours, row.BillableHours, pct})
	}

	return []Table{hours, docs, reviewTypes, cases, jurisdictions, billable}
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
