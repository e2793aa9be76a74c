// Package server exposes the analyzer over HTTP. The core stays a
// pure function; this layer owns transport concerns: request
// envelopes, CORS, metrics, request IDs and graceful shutdown.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	semver "github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/Navindu-Ashen/PLCD-grammar-analyzer/internal/analyzer"
	"github.com/Navindu-Ashen/PLCD-grammar-analyzer/internal/history"
)

// Config carries the server dependencies.
type Config struct {
	Version string         // build version, reported by /version
	History *history.Store // nil disables the history endpoints
}

// Server serves the analyzer API.
type Server struct {
	version string
	hist    *history.Store
	metrics *metricsRecorder
	cors    *corsCfg
}

// New creates a server. CORS defaults to allow-all, matching the
// original deployment; PLCD_CORS_ORIGINS restricts it.
func New(cfg Config) *Server {
	return &Server{
		version: cfg.Version,
		hist:    cfg.History,
		metrics: newMetricsRecorder(),
		cors:    getCORS(),
	}
}

// errorEnvelope is the non-200 response body.
type errorEnvelope struct {
	Error   string         `json:"error"`
	Status  string         `json:"status"`
	Example map[string]any `json:"example,omitempty"`
}

// analyzeRequest is the expected POST body.
type analyzeRequest struct {
	Expression string `json:"expression"`
}

// Handler builds the HTTP mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.metrics.wrap("analyze", s.cors, s.handleAnalyze))
	mux.HandleFunc("/healthz", s.metrics.wrap("healthz", s.cors, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{\"ok\":true}"))
	}))
	mux.HandleFunc("/version", s.metrics.wrap("version", s.cors, s.handleVersion))
	mux.HandleFunc("/history", s.metrics.wrap("history", s.cors, s.handleHistory))
	mux.HandleFunc("/metrics", s.metrics.wrap("metrics", s.cors, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.metrics.serve(w)
	}))
	return mux
}

// handleAnalyze is the core endpoint: POST / with {"expression": ...}.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorEnvelope{
			Error:  "Method not allowed. Use POST method.",
			Status: "error",
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes())
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{
			Error:  "Invalid JSON in request body",
			Status: "error",
		})
		return
	}

	expression := strings.TrimSpace(req.Expression)
	if expression == "" {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{
			Error:   "Missing or empty 'expression' field in request body",
			Status:  "error",
			Example: map[string]any{"expression": "int x = 5"},
		})
		return
	}

	result := analyzer.Analyze(expression)

	if s.hist != nil {
		if _, err := s.hist.Record(r.Context(), expression, result.Status, result.ResultType); err != nil {
			log.Printf("history: record failed: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// handleVersion reports the build version decomposed per semver.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	v, err := semver.NewVersion(s.version)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"version": s.version})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version":    v.String(),
		"major":      v.Major(),
		"minor":      v.Minor(),
		"patch":      v.Patch(),
		"prerelease": v.Prerelease(),
	})
}

// handleHistory lists recent analyses when the store is enabled.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.hist == nil {
		writeJSON(w, http.StatusNotFound, errorEnvelope{
			Error:  "History is not enabled",
			Status: "error",
		})
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorEnvelope{
				Error:  "Invalid 'limit' query parameter",
				Status: "error",
			})
			return
		}
		limit = n
	}
	entries, err := s.hist.Recent(r.Context(), limit)
	if err != nil {
		log.Printf("history: query failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorEnvelope{
			Error:  "Internal server error",
			Status: "error",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "application/json")
	if h.Get("Cache-Control") == "" {
		h.Set("Cache-Control", "no-store")
	}
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

// maxBodyBytes reads PLCD_MAX_BODY_BYTES or returns a 1MB default; a
// one-line expression never needs more.
func maxBodyBytes() int64 {
	const def = int64(1 << 20)
	v := strings.TrimSpace(os.Getenv("PLCD_MAX_BODY_BYTES"))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// ---- Metrics / Logging ----

type endpointMetrics struct {
	c2xx  uint64
	c4xx  uint64
	c5xx  uint64
	sumNS uint64
	cnt   uint64
}

type metricsRecorder struct {
	inflight  int64
	by        map[string]*endpointMetrics
	accessLog bool
}

func newMetricsRecorder() *metricsRecorder {
	mr := &metricsRecorder{by: make(map[string]*endpointMetrics)}
	for _, k := range []string{"analyze", "healthz", "version", "history", "metrics"} {
		mr.by[k] = &endpointMetrics{}
	}
	v := strings.TrimSpace(os.Getenv("PLCD_ACCESS_LOG"))
	mr.accessLog = v == "1" || strings.EqualFold(v, "true")
	return mr
}

func (m *metricsRecorder) inc(name string, code int, dur time.Duration) {
	em, ok := m.by[name]
	if !ok {
		return
	}
	switch code / 100 {
	case 2:
		atomic.AddUint64(&em.c2xx, 1)
	case 4:
		atomic.AddUint64(&em.c4xx, 1)
	default:
		atomic.AddUint64(&em.c5xx, 1)
	}
	atomic.AddUint64(&em.cnt, 1)
	atomic.AddUint64(&em.sumNS, uint64(dur.Nanoseconds()))
}

type statusWriter struct {
	rw   http.ResponseWriter
	code int
	n    int
}

func (s *statusWriter) Header() http.Header  { return s.rw.Header() }
func (s *statusWriter) WriteHeader(code int) { s.code = code; s.rw.WriteHeader(code) }
func (s *statusWriter) Write(b []byte) (int, error) {
	if s.code == 0 {
		s.code = http.StatusOK
	}
	n, err := s.rw.Write(b)
	s.n += n
	return n, err
}

// wrap applies security headers, CORS, preflight handling, request
// IDs, panic recovery, metrics and optional access logging.
func (m *metricsRecorder) wrap(name string, cors *corsCfg, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w)
		cors.apply(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", rid)

		start := time.Now()
		atomic.AddInt64(&m.inflight, 1)
		sw := &statusWriter{rw: w}
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					log.Printf("panic: %v request_id=%s", rec, rid)
					if sw.code == 0 {
						writeJSON(sw, http.StatusInternalServerError, errorEnvelope{
							Error:  fmt.Sprintf("Internal server error: %v", rec),
							Status: "error",
						})
					}
				}
			}()
			h(sw, r)
		}()
		if sw.code == 0 {
			sw.code = http.StatusOK
		}
		atomic.AddInt64(&m.inflight, -1)
		dur := time.Since(start)
		m.inc(name, sw.code, dur)
		if m.accessLog {
			log.Printf("%s %s -> %d %dB in %s from %s request_id=%s",
				r.Method, r.URL.RequestURI(), sw.code, sw.n, dur, r.RemoteAddr, rid)
		}
	}
}

// serve writes the metrics in Prometheus text exposition format.
func (m *metricsRecorder) serve(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	var b strings.Builder
	fmt.Fprintf(&b, "# TYPE plcd_inflight gauge\nplcd_inflight %d\n", atomic.LoadInt64(&m.inflight))
	fmt.Fprintf(&b, "# TYPE plcd_requests_total counter\n")
	for name, em := range m.by {
		fmt.Fprintf(&b, "plcd_requests_total{handler=%q,class=\"2xx\"} %d\n", name, atomic.LoadUint64(&em.c2xx))
		fmt.Fprintf(&b, "plcd_requests_total{handler=%q,class=\"4xx\"} %d\n", name, atomic.LoadUint64(&em.c4xx))
		fmt.Fprintf(&b, "plcd_requests_total{handler=%q,class=\"5xx\"} %d\n", name, atomic.LoadUint64(&em.c5xx))
	}
	fmt.Fprintf(&b, "# TYPE plcd_request_duration_seconds summary\n")
	for name, em := range m.by {
		fmt.Fprintf(&b, "plcd_request_duration_seconds_sum{handler=%q} %.6f\n", name, float64(atomic.LoadUint64(&em.sumNS))/1e9)
		fmt.Fprintf(&b, "plcd_request_duration_seconds_count{handler=%q} %d\n", name, atomic.LoadUint64(&em.cnt))
	}
	_, _ = w.Write([]byte(b.String()))
}

// ---- CORS ----

type corsCfg struct {
	origins []string
	any     bool
}

// getCORS reads PLCD_CORS_ORIGINS; unset means allow-all.
func getCORS() *corsCfg {
	v := strings.TrimSpace(os.Getenv("PLCD_CORS_ORIGINS"))
	if v == "" || v == "*" {
		return &corsCfg{any: true}
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return &corsCfg{any: true}
	}
	return &corsCfg{origins: out}
}

func (c *corsCfg) allow(origin string) bool {
	if c.any {
		return true
	}
	for _, o := range c.origins {
		if o == origin {
			return true
		}
	}
	return false
}

func (c *corsCfg) apply(w http.ResponseWriter, r *http.Request) {
	if c.any {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else {
		o := r.Header.Get("Origin")
		if o == "" || !c.allow(o) {
			return
		}
		w.Header().Set("Access-Control-Allow-Origin", o)
		w.Header().Add("Vary", "Origin")
	}
	w.Header().Set("Access-Control-Allow-Methods", "POST,GET,OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func setSecurityHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Referrer-Policy", "no-referrer")
}

// ---- Lifecycle ----

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    16 << 10,
	}
}

// Start serves the API. Blocking.
func (s *Server) Start(addr string) error {
	return newHTTPServer(addr, s.Handler()).ListenAndServe()
}

// StartGraceful serves the API and shuts down when ctx is done.
func (s *Server) StartGraceful(ctx context.Context, addr string) error {
	srv := newHTTPServer(addr, s.Handler())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

// StartTLSGraceful serves the API over HTTPS and shuts down when ctx
// is done.
func (s *Server) StartTLSGraceful(ctx context.Context, addr, certFile, keyFile string) error {
	srv := newHTTPServer(addr, s.Handler())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServeTLS(certFile, keyFile) }()
	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
