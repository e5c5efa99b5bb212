package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"reviewdash/dataset"
	"reviewdash/internal/metrics"
	"reviewdash/report"
	"reviewdash/worklog"
)

func sampleTable() *dataset.Table {
	return dataset.Load([]worklog.Entry{
		{Period: "2023-11", Hours: 4, DocumentsCoded: 40, Billable: true, CaseType: "Defensive", JobCode: "J9", Jurisdictions: []string{"TX"}},
		{Period: "2024-03", Hours: 5, DocumentsCoded: 100, Billable: true, CaseType: "Affirmative", JobCode: "X1", Jurisdictions: []string{"CA", "NY"}},
		{Period: "2024-03", Hours: 3, DocumentsCoded: 20, Billable: false, CaseType: "Defensive", JobCode: "X2"},
		{Period: "", Hours: 2, DocumentsCoded: 1, Billable: true, CaseType: "Defensive", JobCode: "X2"},
	})
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewServer(sampleTable(), opts))
	t.Cleanup(ts.Close)
	return ts
}

func getBody(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestServer_DashboardSelectsLatestYear(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Options{})
	status, text := getBody(t, ts.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(text, "InSource Document Review Dashboard") {
		t.Fatalf("dashboard missing title: %s", text)
	}
	if !strings.Contains(text, `<option value="2024" selected>`) {
		t.Fatalf("expected 2024 preselected: %s", text)
	}
	if !strings.Contains(text, `<option value="2023">`) {
		t.Fatalf("expected 2023 option: %s", text)
	}
	for _, id := range []string{"hours-month", "docs-month", "review-type", "cases-over-time", "jurisdictions", "billable-pct"} {
		if !strings.Contains(text, `id="`+id+`"`) {
			t.Fatalf("dashboard missing chart container %q", id)
		}
	}
}

func TestServer_DashboardYearQuery(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Options{})

	_, text := getBody(t, ts.URL+"/?year=2023")
	if !strings.Contains(text, `<option value="2023" selected>`) {
		t.Fatalf("expected 2023 selected: %s", text)
	}

	_, text = getBody(t, ts.URL+"/?year=1999")
	if !strings.Contains(text, `<option value="2024" selected>`) {
		t.Fatalf("unknown year should fall back to latest: %s", text)
	}
}

func TestServer_DashboardWithoutData(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(NewServer(dataset.Load(nil), Options{}))
	defer ts.Close()

	status, text := getBody(t, ts.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if strings.Contains(text, "year-dropdown\" name") {
		t.Fatalf("empty dataset should not render a dropdown: %s", text)
	}
	if !strings.Contains(text, "No dated work entries loaded") {
		t.Fatalf("expected empty notice: %s", text)
	}
}

func TestServer_APIYears(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Options{})
	status, text := getBody(t, ts.URL+"/api/years")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var payload yearsResponse
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		t.Fatalf("decode years: %v", err)
	}
	if strings.Join(payload.Years, ",") != "2023,2024" || payload.Default != "2024" {
		t.Fatalf("unexpected years payload: %+v", payload)
	}
}

func TestServer_APIAggregates(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Options{})
	status, text := getBody(t, ts.URL+"/api/aggregates/2024")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var bundle report.Bundle
	if err := json.Unmarshal([]byte(text), &bundle); err != nil {
		t.Fatalf("decode bundle: %v", err)
	}
	if len(bundle.HoursByMonth) != 1 || bundle.HoursByMonth[0].Hours != 8 {
		t.Fatalf("unexpected hours by month: %+v", bundle.HoursByMonth)
	}
	if len(bundle.JurisdictionsByMonth) != 2 {
		t.Fatalf("unexpected jurisdictions: %+v", bundle.JurisdictionsByMonth)
	}
	stat := bundle.BillableStats[0]
	if stat.BillablePct == nil || *stat.BillablePct != 62.5 {
		t.Fatalf("unexpected billable stat: %+v", stat)
	}
	if !strings.Contains(text, `"year_month":"2024-03"`) {
		t.Fatalf("expected snake_case keys: %s", text)
	}
}

func TestServer_APIAggregatesUnknownYearIsEmpty(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Options{})
	for _, year := range []string{"1999", "abcd", "20241"} {
		status, text := getBody(t, ts.URL+"/api/aggregates/"+year)
		if status != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", year, status)
		}
		for _, key := range []string{"hours_by_month", "docs_by_month", "review_by_type_month", "cases_by_month", "jurisdictions_by_month", "billable_stats"} {
			if !strings.Contains(text, `"`+key+`":[]`) {
				t.Fatalf("%s: expected empty %s, got %s", year, key, text)
			}
		}
	}
}

func TestServer_APICharts(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Options{})
	status, text := getBody(t, ts.URL+"/api/charts/2024")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var payload chartsResponse
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		t.Fatalf("decode charts: %v", err)
	}
	if payload.Year != "2024" || len(payload.Figures) != 6 {
		t.Fatalf("unexpected charts payload: %+v", payload)
	}
	review := payload.Figures[2]
	if review.Spec.ID != "review-type" || len(review.Traces) != 2 {
		t.Fatalf("expected two review-type traces, got %+v", review)
	}
	if review.Traces[0].Name != "Affirmative" || review.Traces[1].Name != "Defensive" {
		t.Fatalf("unexpected trace order: %+v", review.Traces)
	}
}

func TestServer_HealthAndNotFound(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Options{})
	status, text := getBody(t, ts.URL+"/healthz")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var health healthResponse
	if err := json.Unmarshal([]byte(text), &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "ok" || health.Entries != 4 || health.Rows != 5 {
		t.Fatalf("unexpected health: %+v", health)
	}

	status, _ = getBody(t, ts.URL+"/nope")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestServer_MemoizesBundlesAndExposesMetrics(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	ts := newTestServer(t, Options{Metrics: m})

	getBody(t, ts.URL+"/api/aggregates/2024")
	getBody(t, ts.URL+"/api/charts/2024")
	getBody(t, ts.URL+"/api/aggregates/1999")

	_, text := getBody(t, ts.URL+"/metrics")
	for _, want := range []string{
		`reviewdash_aggregations_total{cache="hit"} 1`,
		`reviewdash_aggregations_total{cache="miss"} 2`,
		"reviewdash_dataset_entries 4",
		"reviewdash_dataset_rows 5",
		`reviewdash_http_requests_total{code="200",route="GET /api/aggregates/{year}"} 2`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in metrics:\n%s", want, text)
		}
	}
}

func TestServer_CORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origins []string
		path    string
		want    string
	}{
		{name: "allowed origin on api", origins: []string{"https://reports.example.com"}, path: "/api/years", want: "https://reports.example.com"},
		{name: "page is not cors enabled", origins: []string{"https://reports.example.com"}, path: "/", want: ""},
		{name: "disabled without origins", origins: nil, path: "/api/years", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newTestServer(t, Options{CORSOrigins: tt.origins})
			req, err := http.NewRequest(http.MethodGet, ts.URL+tt.path, nil)
			if err != nil {
				t.Fatalf("build request: %v", err)
			}
			req.Header.Set("Origin", "https://reports.example.com")
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			resp.Body.Close()

			if got := resp.Header.Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Fatalf("Access-Control-Allow-Origin = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServer_ConcurrentRequestsShareBundle(t *testing.T) {
	t.Parallel()

	server := NewServer(sampleTable(), Options{})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/aggregates/2024", nil))
			if rec.Code != http.StatusOK {
				t.Errorf("expected 200, got %d", rec.Code)
			}
		}()
	}
	wg.Wait()

	server.mu.RLock()
	defer server.mu.RUnlock()
	if len(server.bundles) != 1 {
		t.Fatalf("expected one memoized bundle, got %d", len(server.bundles))
	}
}
