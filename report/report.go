// Package report computes the six monthly summaries shown on the dashboard.
//
// Jurisdiction-expanded rows feed only JurisdictionsByMonth. Every other
// summary is computed from unexpanded entries, so an entry naming several
// jurisdictions counts its hours once outside the jurisdiction breakdown.
package report

import (
	"sort"

	"reviewdash/dataset"
	"reviewdash/worklog"
)

type HoursByMonth struct {
	Period string  `json:"year_month"`
	Hours  float64 `json:"hours"`
}

type DocsByMonth struct {
	Period         string `json:"year_month"`
	DocumentsCoded int    `json:"documents_coded"`
}

type ReviewTypeByMonth struct {
	Period   string  `json:"year_month"`
	CaseType string  `json:"affirmative_or_defensive"`
	Hours    float64 `json:"hours"`
}

type CasesByMonth struct {
	Period  string  `json:"year_month"`
	JobCode string  `json:"jobcode_3"`
	Hours   float64 `json:"hours"`
}

type JurisdictionsByMonth struct {
	Period       string  `json:"year_month"`
	Jurisdiction string  `json:"jurisdiction"`
	Hours        float64 `json:"hours"`
}

// BillableStat carries the billable share of one month. BillablePct is nil
// when the month has no hours at all.
type BillableStat struct {
	Period        string   `json:"year_month"`
	TotalHours    float64  `json:"total_hours"`
	BillableHours float64  `json:"billable_hours"`
	BillablePct   *float64 `json:"billable_pct,omitempty"`
}

// Bundle is the set of summaries for one selected year.
type Bundle struct {
	Year                 string                 `json:"year"`
	HoursByMonth         []HoursByMonth         `json:"hours_by_month"`
	DocsByMonth          []DocsByMonth          `json:"docs_by_month"`
	ReviewByTypeMonth    []ReviewTypeByMonth    `json:"review_by_type_month"`
	CasesByMonth         []CasesByMonth         `json:"cases_by_month"`
	JurisdictionsByMonth []JurisdictionsByMonth `json:"jurisdictions_by_month"`
	BillableStats        []BillableStat         `json:"billable_stats"`
}

type groupKey struct {
	period string
	key    string
}

type billableSums struct {
	total    float64
	billable float64
}

// Aggregate filters table to the entries whose period key starts with year
// and computes every summary. An unknown year yields an empty bundle.
func Aggregate(table *dataset.Table, year string) Bundle {
	bundle := Bundle{
		Year:                 year,
		HoursByMonth:         []HoursByMonth{},
		DocsByMonth:          []DocsByMonth{},
		ReviewByTypeMonth:    []ReviewTypeByMonth{},
		CasesByMonth:         []CasesByMonth{},
		JurisdictionsByMonth: []JurisdictionsByMonth{},
		BillableStats:        []BillableStat{},
	}
	if table == nil || !table.HasYear(year) {
		return bundle
	}

	hours := make(map[string]float64)
	docs := make(map[string]int)
	byType := make(map[groupKey]float64)
	byCase := make(map[groupKey]float64)
	billable := make(map[string]*billableSums)

	table.EachEntryInYear(year, func(entry worklog.Entry) {
		hours[entry.Period] += entry.Hours
		docs[entry.Period] += entry.DocumentsCoded
		if entry.CaseType != "" {
			byType[groupKey{period: entry.Period, key: entry.CaseType}] += entry.Hours
		}
		if entry.JobCode != "" {
			byCase[groupKey{period: entry.Period, key: entry.JobCode}] += entry.Hours
		}

		sums, ok := billable[entry.Period]
		if !ok {
			sums = &billableSums{}
			billable[entry.Period] = sums
		}
		sums.total += entry.Hours
		if entry.Billable {
			sums.billable += entry.Hours
		}
	})

	byJurisdiction := make(map[groupKey]float64)
	table.EachRowInYear(year, func(row worklog.Row) {
		if row.Jurisdiction == "" {
			return
		}
		byJurisdiction[groupKey{period: row.Period, key: row.Jurisdiction}] += row.Hours
	})

	for _, period := range sortedPeriods(hours) {
		bundle.HoursByMonth = append(bundle.HoursByMonth, HoursByMonth{Period: period, Hours: hours[period]})
		bundle.DocsByMonth = append(bundle.DocsByMonth, DocsByMonth{Period: period, DocumentsCoded: docs[period]})

		sums := billable[period]
		stat := BillableStat{
			Period:        period,
			TotalHours:    sums.total,
			BillableHours: sums.billable,
		}
		if sums.total != 0 {
			pct := sums.billable / sums.total * 100
			stat.BillablePct = &pct
		}
		bundle.BillableStats = append(bundle.BillableStats, stat)
	}

	for _, key := range sortedKeys(byType) {
		bundle.ReviewByTypeMonth = append(bundle.ReviewByTypeMonth, ReviewTypeByMonth{Period: key.period, CaseType: key.key, Hours: byType[key]})
	}
	for _, key := range sortedKeys(byCase) {
		bundle.CasesByMonth = append(bundle.CasesByMonth, CasesByMonth{Period: key.period, JobCode: key.key, Hours: byCase[key]})
	}
	for _, key := range sortedKeys(byJurisdiction) {
		bundle.JurisdictionsByMonth = append(bundle.JurisdictionsByMonth, JurisdictionsByMonth{Period: key.period, Jurisdiction: key.key, Hours: byJurisdiction[key]})
	}

	return bundle
}

func sortedPeriods(values map[string]float64) []string {
	periods := make([]string, 0, len(values))
	for period := range values {
		periods = append(periods, period)
	}
	sort.Strings(periods)
	return periods
}

func sortedKeys(values map[groupKey]float64) []groupKey {
	keys := make([]groupKey, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].period == keys[j].period {
			return keys[i].key < keys[j].key
		}
		return keys[i].period < keys[j].period
	})
	return keys
}
