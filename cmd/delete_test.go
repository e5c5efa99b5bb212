package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reviewdash/storage"
)

func TestRunDelete_ClearsSnapshot(t *testing.T) {
	t.Parallel()

	src := datasetSource{
		Inputs:     []string{writeReviewCSV(t)},
		DateColumn: "local_date",
		DBPath:     filepath.Join(t.TempDir(), "snapshot.db"),
	}
	var out bytes.Buffer
	if err := runImport(&out, src, false); err != nil {
		t.Fatalf("import: %v", err)
	}

	out.Reset()
	if err := runDelete(&out, src.DBPath); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted 4 entries") {
		t.Fatalf("unexpected output: %s", out.String())
	}

	store, err := storage.OpenSQLite(src.DBPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	count, err := store.CountEntries()
	if err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty snapshot, got %d entries", count)
	}
}

func TestRunDelete_MissingSnapshot(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.db")
	if err := runDelete(&bytes.Buffer{}, path); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("delete must not create the database file")
	}
}

func TestConfirmDeletePrompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "confirmed", input: "Y\n", want: true},
		{name: "confirmed without newline", input: "Y", want: true},
		{name: "lowercase", input: "y\n", want: false},
		{name: "empty", input: "", want: false},
		{name: "other", input: "yes\n", want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			got, err := confirmDeletePrompt(strings.NewReader(tc.input), &out, "reviewdash.db")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
			if !strings.Contains(out.String(), "Type Y to confirm") {
				t.Fatalf("missing prompt: %q", out.String())
			}
		})
	}
}
