// Package web serves the read-only dashboard for a single local user; there
// is no authentication.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/cors"

	"reviewdash/chart"
	"reviewdash/dataset"
	"reviewdash/internal/logging"
	"reviewdash/internal/metrics"
	"reviewdash/internal/timeutil"
	"reviewdash/report"
)

//go:embed templates/*.html
var templateFS embed.FS

const pageTitle = "InSource Document Review Dashboard"

type Options struct {
	// CORSOrigins enables CORS on /api/ for the listed origins.
	CORSOrigins []string
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

type Server struct {
	table   *dataset.Table
	logger  *slog.Logger
	metrics *metrics.Metrics

	mux     *http.ServeMux
	handler http.Handler

	// Bundles per known year. The table never changes, so entries never
	// go stale.
	mu      sync.RWMutex
	bundles map[string]report.Bundle
}

type dashboardPageView struct {
	Title    string
	Years    []string
	Selected string
	Charts   []chart.Spec
	Entries  int
}

type yearsResponse struct {
	Years   []string `json:"years"`
	Default string   `json:"default"`
}

type chartsResponse struct {
	Year    string         `json:"year"`
	Figures []chart.Figure `json:"figures"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Entries int    `json:"entries"`
	Rows    int    `json:"rows"`
}

func NewServer(table *dataset.Table, opts Options) *Server {
	if table == nil {
		table = dataset.Load(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	m.SetDataset(table.EntryCount(), table.Len())

	server := &Server{
		table:   table,
		logger:  logger,
		metrics: m,
		mux:     http.NewServeMux(),
		bundles: make(map[string]report.Bundle),
	}

	server.handle("GET /{$}", server.handleDashboard)
	server.handle("GET /api/years", server.handleAPIYears)
	server.handle("GET /api/aggregates/{year}", server.handleAPIAggregates)
	server.handle("GET /api/charts/{year}", server.handleAPICharts)
	server.handle("GET /healthz", server.handleHealth)
	server.mux.Handle("GET /metrics", m.Handler())

	var handler http.Handler = server.mux
	if len(opts.CORSOrigins) > 0 {
		handler = withAPICORS(handler, opts.CORSOrigins)
	}
	server.handler = logging.Middleware(logger)(handler)
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handle(pattern string, h http.HandlerFunc) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		rec := &logging.StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		h(rec, r)
		s.metrics.IncrementRequest(pattern, rec.Status)
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	selected := strings.TrimSpace(r.URL.Query().Get("year"))
	if !s.table.HasYear(selected) {
		selected = s.table.DefaultYear()
	}

	view := dashboardPageView{
		Title:    pageTitle,
		Years:    s.table.Years(),
		Selected: selected,
		Charts:   chart.Specs(),
		Entries:  s.table.EntryCount(),
	}
	if err := renderTemplate(w, "dashboard.html", view); err != nil {
		s.logger.ErrorContext(r.Context(), "render dashboard", logging.FieldError, err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
	}
}

func (s *Server) handleAPIYears(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, yearsResponse{
		Years:   s.table.Years(),
		Default: s.table.DefaultYear(),
	})
}

func (s *Server) handleAPIAggregates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bundle(r.PathValue("year")))
}

func (s *Server) handleAPICharts(w http.ResponseWriter, r *http.Request) {
	bundle := s.bundle(r.PathValue("year"))
	figures, err := chart.Build(bundle)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "build charts", logging.FieldYear, bundle.Year, logging.FieldError, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to build charts"})
		return
	}
	writeJSON(w, http.StatusOK, chartsResponse{Year: bundle.Year, Figures: figures})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Entries: s.table.EntryCount(),
		Rows:    s.table.Len(),
	})
}

// bundle returns the aggregates for year. Only years present in the table
// are memoized; anything else gets a fresh empty bundle so arbitrary path
// values cannot grow the cache.
func (s *Server) bundle(year string) report.Bundle {
	year = strings.TrimSpace(year)
	if !timeutil.IsYear(year) || !s.table.HasYear(year) {
		s.metrics.IncrementAggregation(false)
		return report.Aggregate(s.table, year)
	}

	s.mu.RLock()
	cached, ok := s.bundles[year]
	s.mu.RUnlock()
	if ok {
		s.metrics.IncrementAggregation(true)
		return cached
	}

	start := time.Now()
	bundle := report.Aggregate(s.table, year)
	s.metrics.ObserveAggregateLatency(time.Since(start))
	s.metrics.IncrementAggregation(false)
	s.logger.Debug("aggregated year", logging.FieldYear, year, "duration", time.Since(start))

	s.mu.Lock()
	if existing, ok := s.bundles[year]; ok {
		bundle = existing
	} else {
		s.bundles[year] = bundle
	}
	s.mu.Unlock()
	return bundle
}

func withAPICORS(next http.Handler, origins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	api := c.Handler(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			api.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func renderTemplate(w http.ResponseWriter, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"toJSON": func(value any) (template.JS, error) {
			encoded, err := json.Marshal(value)
			if err != nil {
				return "", err
			}
			return template.JS(encoded), nil
		},
	}).ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
