// Package chart describes the dashboard charts declaratively and turns a
// report.Bundle into figures a browser chart library can draw.
package chart

import (
	"fmt"

	"reviewdash/report"
)

type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
)

// Spec is one chart: which summary it draws, how, and which column, if any,
// is encoded as color.
type Spec struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Kind   Kind   `json:"kind"`
	Source string `json:"source"`
	X      string `json:"x"`
	Y      string `json:"y"`
	Color  string `json:"color,omitempty"`
}

var specs = []Spec{
	{ID: "hours-month", Title: "Total Hours Worked Per Month", Kind: KindBar, Source: "hours_by_month", X: "year_month", Y: "hours"},
	{ID: "docs-month", Title: "Documents Reviewed Per Month", Kind: KindLine, Source: "docs_by_month", X: "year_month", Y: "documents_coded"},
	{ID: "review-type", Title: "Review Type by Volume", Kind: KindBar, Source: "review_by_type_month", X: "year_month", Y: "hours", Color: "affirmative_or_defensive"},
	{ID: "cases-over-time", Title: "Cases Worked On", Kind: KindBar, Source: "cases_by_month", X: "year_month", Y: "hours", Color: "jobcode_3"},
	{ID: "jurisdictions", Title: "Jurisdictions Worked On", Kind: KindBar, Source: "jurisdictions_by_month", X: "year_month", Y: "hours", Color: "jurisdiction"},
	{ID: "billable-pct", Title: "Billable Time Percentage", Kind: KindLine, Source: "billable_stats", X: "year_month", Y: "billable_pct"},
}

// Specs returns the dashboard charts in display order.
func Specs() []Spec {
	return append([]Spec(nil), specs...)
}

// Trace is one series of a figure. Name is the color value, empty for
// charts without a color dimension.
type Trace struct {
	Name string    `json:"name,omitempty"`
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
}

type Figure struct {
	Spec   Spec    `json:"spec"`
	Traces []Trace `json:"traces"`
}

// Build renders every spec against the bundle.
func Build(bundle report.Bundle) ([]Figure, error) {
	figures := make([]Figure, 0, len(specs))
	for _, spec := range specs {
		points, err := pointsFor(spec.Source, bundle)
		if err != nil {
			return nil, fmt.Errorf("chart %s: %w", spec.ID, err)
		}
		figures = append(figures, Figure{Spec: spec, Traces: tracesFrom(points)})
	}
	return figures, nil
}

type point struct {
	x     string
	y     float64
	color string
}

func pointsFor(source string, bundle report.Bundle) ([]point, error) {
	var points []point
	switch source {
	case "hours_by_month":
		for _, row := range bundle.HoursByMonth {
			points = append(points, point{x: row.Period, y: row.Hours})
		}
	case "docs_by_month":
		for _, row := range bundle.DocsByMonth {
			points = append(points, point{x: row.Period, y: float64(row.DocumentsCoded)})
		}
	case "review_by_type_month":
		for _, row := range bundle.ReviewByTypeMonth {
			points = append(points, point{x: row.Period, y: row.Hours, color: row.CaseType})
		}
	case "cases_by_month":
		for _, row := range bundle.CasesByMonth {
			points = append(points, point{x: row.Period, y: row.Hours, color: row.JobCode})
		}
	case "jurisdictions_by_month":
		for _, row := range bundle.JurisdictionsByMonth {
			points = append(points, point{x: row.Period, y: row.Hours, color: row.Jurisdiction})
		}
	case "billable_stats":
		for _, row := range bundle.BillableStats {
			// Months without hours have no percentage to plot.
			if row.BillablePct == nil {
				continue
			}
			points = append(points, point{x: row.Period, y: *row.BillablePct})
		}
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
	return points, nil
}

// tracesFrom groups points by color, keeping the order in which each color
// first appears so that legends are stable between requests.
func tracesFrom(points []point) []Trace {
	traces := make([]Trace, 0, 1)
	index := make(map[string]int)
	for _, p := range points {
		i, ok := index[p.color]
		if !ok {
			i = len(traces)
			index[p.color] = i
			traces = append(traces, Trace{Name: p.color, X: []string{}, Y: []float64{}})
		}
		traces[i].X = append(traces[i].X, p.x)
		traces[i].Y = append(traces[i].Y, p.y)
	}
	return traces
}
