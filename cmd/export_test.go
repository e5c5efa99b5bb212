package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"reviewdash/dataset"
	"reviewdash/worklog"
)

func exportTable() *dataset.Table {
	return dataset.Load([]worklog.Entry{
		{Period: "2023-11", Hours: 4, DocumentsCoded: 40, Billable: true, CaseType: "Defensive", JobCode: "J9", Jurisdictions: []string{"TX"}},
		{Period: "2024-03", Hours: 5, DocumentsCoded: 100, Billable: true, CaseType: "Affirmative", JobCode: "X1", Jurisdictions: []string{"CA", "NY"}},
		{Period: "2024-03", Hours: 3, DocumentsCoded: 20, Billable: false, CaseType: "Defensive", JobCode: "X2"},
	})
}

func TestExportYearsFor(t *testing.T) {
	t.Parallel()

	table := exportTable()
	tests := []struct {
		name string
		year string
		all  bool
		want string
	}{
		{name: "default latest", want: "2024"},
		{name: "explicit year", year: "2023", want: "2023"},
		{name: "all years", all: true, want: "2023,2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := strings.Join(exportYearsFor(table, tt.year, tt.all), ",")
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}

	if got := exportYearsFor(dataset.Load(nil), "", false); got != nil {
		t.Fatalf("expected no years for empty table, got %v", got)
	}
}

func TestRunExport_CSVAllYears(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "summaries")
	var out bytes.Buffer
	if err := runExport(context.Background(), &out, exportTable(), []string{"2023", "2024"}, "csv", dir); err != nil {
		t.Fatalf("runExport: %v", err)
	}
	if !strings.Contains(out.String(), "Years: 2023, 2024, Tables: 12") {
		t.Fatalf("unexpected summary: %s", out.String())
	}

	content, err := os.ReadFile(filepath.Join(dir, "2024_hours_by_month.csv"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(content), "2024-03,8") {
		t.Fatalf("unexpected hours export:\n%s", content)
	}
	if _, err := os.Stat(filepath.Join(dir, "2023_billable_stats.csv")); err != nil {
		t.Fatalf("expected 2023 billable export: %v", err)
	}
}

func TestRunExport_Excel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "summaries.xlsx")
	if err := runExport(context.Background(), &bytes.Buffer{}, exportTable(), []string{"2024"}, detectExportFormat(path), path); err != nil {
		t.Fatalf("runExport: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer file.Close()
	if got := len(file.GetSheetList()); got != 6 {
		t.Fatalf("expected 6 sheets, got %d: %v", got, file.GetSheetList())
	}
}

func TestRunExport_RejectsUnknownYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		years []string
		want  string
	}{
		{name: "missing year", years: []string{"1999"}, want: "not present"},
		{name: "malformed year", years: []string{"24"}, want: "invalid year"},
		{name: "empty dataset", years: nil, want: "nothing to export"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := runExport(context.Background(), &bytes.Buffer{}, exportTable(), tt.years, "csv", t.TempDir())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDetectExportFormat(t *testing.T) {
	t.Parallel()

	if got := detectExportFormat("out/summaries.XLSX"); got != "excel" {
		t.Fatalf("expected excel, got %q", got)
	}
	if got := detectExportFormat("out/summaries"); got != "csv" {
		t.Fatalf("expected csv, got %q", got)
	}
}
