package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"reviewdash/storage"
)

func TestRunImport_IsIdempotent(t *testing.T) {
	t.Parallel()

	src := datasetSource{
		Inputs:     []string{writeReviewCSV(t)},
		DateColumn: "local_date",
		DBPath:     filepath.Join(t.TempDir(), "snapshot.db"),
	}

	var out bytes.Buffer
	if err := runImport(&out, src, false); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if !strings.Contains(out.String(), "Rows persisted: 4, Stored total: 4") {
		t.Fatalf("unexpected summary: %s", out.String())
	}
	if !strings.Contains(out.String(), "Rows undated: 1") {
		t.Fatalf("expected undated count in summary: %s", out.String())
	}

	out.Reset()
	if err := runImport(&out, src, false); err != nil {
		t.Fatalf("second import: %v", err)
	}
	if !strings.Contains(out.String(), "Rows persisted: 0, Stored total: 4") {
		t.Fatalf("re-import should not duplicate rows: %s", out.String())
	}

	out.Reset()
	if err := runImport(&out, src, true); err != nil {
		t.Fatalf("replace import: %v", err)
	}
	if !strings.Contains(out.String(), "Rows persisted: 4, Stored total: 4") {
		t.Fatalf("unexpected replace summary: %s", out.String())
	}

	store, err := storage.OpenSQLite(src.DBPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	entries, err := store.ListEntries()
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 4 || strings.Join(entries[0].Jurisdictions, ",") != "CA,NY" {
		t.Fatalf("unexpected stored entries: %+v", entries)
	}
}

func TestRunImport_RequiresInputs(t *testing.T) {
	t.Parallel()

	err := runImport(&bytes.Buffer{}, datasetSource{DBPath: filepath.Join(t.TempDir(), "x.db")}, false)
	if err == nil || !strings.Contains(err.Error(), "no input files") {
		t.Fatalf("expected missing input error, got %v", err)
	}
}
