package cmd

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reviewdash/dataset"
	"reviewdash/internal/logging"
	"reviewdash/worklog"
)

func TestNewHTTPServer_ServesDashboard(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig(t)
	cfg.Server.Port = 9191
	table := dataset.Load([]worklog.Entry{
		{Period: "2024-03", Hours: 5, DocumentsCoded: 100, Billable: true, CaseType: "Affirmative", JobCode: "X1"},
	})

	server := newHTTPServer(cfg, table, logging.Discard())
	if server.Addr != ":9191" {
		t.Fatalf("unexpected addr %q", server.Addr)
	}

	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/years")
	if err != nil {
		t.Fatalf("request years: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"default":"2024"`) {
		t.Fatalf("unexpected years response %d: %s", resp.StatusCode, body)
	}
}
