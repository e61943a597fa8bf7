// Copyright 2025 Matthew Gall <me@matthewgall.dev>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gorilla/mux"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server
const shutdownTimeout = 30 * time.Second

// ErrorResponse is the JSON body of every error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// SummaryResponse is the JSON body of /api/summary
type SummaryResponse struct {
	Result  *DashboardResult `json:"result"`
	Metrics MetricDisplay    `json:"metrics"`
}

// Server serves the interactive dashboard
type Server struct {
	config   *Config
	dataset  *Dataset
	analyzer *Analyzer
	charts   *ChartGenerator
	html     *HTMLReporter
	cache    *ChartCache
	metrics  *Metrics
	logger   *Logger
	router   *mux.Router
}

// NewServer creates the dashboard server and registers its routes
func NewServer(config *Config, dataset *Dataset, analyzer *Analyzer, charts *ChartGenerator, cache *ChartCache, metrics *Metrics, logger *Logger) *Server {
	s := &Server{
		config:   config,
		dataset:  dataset,
		analyzer: analyzer,
		charts:   charts,
		html:     NewHTMLReporter(logger),
		cache:    cache,
		metrics:  metrics,
		logger:   logger.WithComponent("server"),
		router:   mux.NewRouter(),
	}
	s.RegisterRoutes(s.router)
	return s
}

// RegisterRoutes registers all dashboard routes
func (s *Server) RegisterRoutes(router *mux.Router) {
	router.Use(s.instrument)
	router.NotFoundHandler = s.instrument(http.HandlerFunc(s.NotFound))

	router.HandleFunc("/", s.Dashboard).Methods("GET")
	router.HandleFunc("/charts/{chart}.svg", s.Chart).Methods("GET")
	router.HandleFunc("/api/summary", s.Summary).Methods("GET")
	router.HandleFunc("/health", s.HealthCheck).Methods("GET")
	router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.config.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "address", server.Addr, "version", GetVersion())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("Server stopped")
	return nil
}

// Dashboard handles GET /
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r.URL.Query(), DefaultSelection(s.dataset))
	if err != nil {
		s.sendError(w, err)
		return
	}

	etag := s.etag("dashboard", sel)
	if s.notModified(w, r, etag) {
		return
	}

	result, err := s.analyzer.Analyze(s.dataset, sel)
	if err != nil {
		s.sendError(w, err)
		return
	}

	query := sel.Values().Encode()
	sources := make(map[string]string)
	for _, name := range ChartNames {
		if ChartHasData(name, result) {
			sources[name] = fmt.Sprintf("/charts/%s.svg?%s", name, query)
		}
	}

	var buf bytes.Buffer
	s.html.WriteDashboard(&buf, DashboardPage{
		Result:       result,
		ChartSources: sources,
		Interactive:  true,
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Chart handles GET /charts/{chart}.svg
func (s *Server) Chart(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["chart"]

	sel, err := ParseSelection(r.URL.Query(), DefaultSelection(s.dataset))
	if err != nil {
		s.sendError(w, err)
		return
	}

	etag := s.etag("chart:"+name, sel)
	if s.notModified(w, r, etag) {
		return
	}

	svg, ok := s.cache.Get(etag)
	if !ok {
		result, err := s.analyzer.Analyze(s.dataset, sel)
		if err != nil {
			s.sendError(w, err)
			return
		}

		svg, err = s.charts.Render(name, result, FormatSVG)
		if err != nil {
			s.sendError(w, err)
			return
		}
		s.cache.Set(etag, svg)
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(svg)
}

// Summary handles GET /api/summary
func (s *Server) Summary(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r.URL.Query(), DefaultSelection(s.dataset))
	if err != nil {
		s.sendError(w, err)
		return
	}

	etag := s.etag("summary", sel)
	if s.notModified(w, r, etag) {
		return
	}

	result, err := s.analyzer.Analyze(s.dataset, sel)
	if err != nil {
		s.sendError(w, err)
		return
	}

	s.sendJSON(w, SummaryResponse{
		Result:  result,
		Metrics: FormatMetrics(result),
	}, http.StatusOK)
}

// HealthCheck handles GET /health
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"build":       GetBuildInfo(),
		"hourly_rows": s.dataset.Hourly.Len(),
		"daily_rows":  s.dataset.Daily.Len(),
		"loaded_at":   s.dataset.LoadedAt.UTC().Format(time.RFC3339),
	}

	s.logger.Debug("Health check requested")
	s.sendJSON(w, status, http.StatusOK)
}

// NotFound handles unmatched routes
func (s *Server) NotFound(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, ErrorResponse{
		Error:   http.StatusText(http.StatusNotFound),
		Message: fmt.Sprintf("no route for %s", r.URL.Path),
		Code:    http.StatusNotFound,
	}, http.StatusNotFound)
}

// etag derives an entity tag from the dataset, the resource and the selection
func (s *Server) etag(resource string, sel Selection) string {
	key := fmt.Sprintf("%016x|%s|%s", s.dataset.Fingerprint, resource, sel.Values().Encode())
	return fmt.Sprintf("%q", fmt.Sprintf("%016x", xxhash.Sum64String(key)))
}

// notModified sets the ETag header and answers 304 when the client already
// holds the current representation
func (s *Server) notModified(w http.ResponseWriter, r *http.Request, etag string) bool {
	w.Header().Set("ETag", etag)

	for _, candidate := range strings.Split(r.Header.Get("If-None-Match"), ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag || candidate == "*" {
			w.WriteHeader(http.StatusNotModified)
			return true
		}
	}
	return false
}

// sendJSON sends a JSON response
func (s *Server) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("Failed to encode response", "error", err)
	}
}

// sendError maps an error to a status code and sends it as JSON
func (s *Server) sendError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "internal error"

	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		statusCode = http.StatusBadRequest
		message = validationErr.Error()
	case errors.Is(err, ErrUnknownChart):
		statusCode = http.StatusNotFound
		message = ErrUnknownChart.Error()
	case errors.Is(err, ErrNoData):
		statusCode = http.StatusNotFound
		message = ErrNoData.Error()
	default:
		s.logger.Error("Request failed", "error", err)
	}

	s.sendJSON(w, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}, statusCode)
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument logs and measures every request
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		w.Header().Set("Server", GetServerHeader())

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		elapsed := time.Since(start)
		s.metrics.RecordRequest(route, r.Method, rec.status, elapsed)
		s.logger.LogRequest(r.Method, r.URL.Path, rec.status, elapsed)
	})
}
