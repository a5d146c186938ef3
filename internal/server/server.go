package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dnsdelay/internal/metrics"
	"dnsdelay/internal/models"
	"dnsdelay/internal/monitor"
)

// Server exposes probe session results over HTTP.
type Server struct {
	httpServer   *http.Server
	monitor      *monitor.Monitor
	historyLimit int
}

// New creates a configured HTTP server over the monitor.
func New(addr string, mon *monitor.Monitor, historyLimit int) *Server {
	if historyLimit <= 0 {
		historyLimit = 200
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer:   &http.Server{Addr: addr, Handler: mux},
		monitor:      mon,
		historyLimit: historyLimit,
	}
	s.registerRoutes(mux)
	return s
}

// Run blocks and serves HTTP traffic.
func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	registerMetrics()
	mux.HandleFunc("/api/report", s.handleReport)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/ws/live", s.handleLive)
	mux.Handle("/metrics", promhttp.Handler())
}

// reportPayload pairs a session report with its derived statistics.
type reportPayload struct {
	Report  models.Report   `json:"report"`
	Summary metrics.Summary `json:"summary"`
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	report, ok := s.monitor.Latest()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"report": nil})
		return
	}
	writeJSON(w, http.StatusOK, reportPayload{Report: report, Summary: metrics.Compute(report)})
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	report, ok := s.monitor.Latest()
	if !ok {
		writeJSON(w, http.StatusOK, metrics.Summary{})
		return
	}
	writeJSON(w, http.StatusOK, metrics.Compute(report))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, s.historyLimit)
	history := s.monitor.HistoryN(limit)
	payloads := make([]reportPayload, 0, len(history))
	for _, report := range history {
		payloads = append(payloads, reportPayload{Report: report, Summary: metrics.Compute(report)})
	}
	writeJSON(w, http.StatusOK, payloads)
}

func parseLimit(r *http.Request, fallback int) int {
	if fallback <= 0 {
		return fallback
	}
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if value > fallback {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
