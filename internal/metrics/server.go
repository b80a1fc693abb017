// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package metrics

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"grimm.is/nets/internal/errors"
	"grimm.is/nets/internal/logging"
)

// Server exposes /metrics, /healthz and /summary over HTTP.
type Server struct {
	metrics  *Metrics
	registry *prometheus.Registry
	logger   *logging.Logger
	srv      *http.Server
	ln       net.Listener
}

// NewServer registers m in a fresh registry, along with the Go runtime
// and process collectors.
func NewServer(m *Metrics, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.WithComponent("metrics")
	}
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		return nil, errors.Wrap(err, errors.KindInternal, "failed to register metrics")
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{metrics: m, registry: reg, logger: logger}
	s.srv = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods("GET")
	router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	router.HandleFunc("/summary", s.handleSummary).Methods("GET")
	return router
}

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Attr(errors.WrapOS(err, "failed to listen for metrics"), "addr", addr)
	}
	s.ln = ln
	s.logger.Info("metrics server listening", "addr", ln.Addr().String())

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("metrics server stopped")
		}
	}()
	return nil
}

// Addr is the bound listen address, valid after Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, _, err := s.metrics.Snapshot()
	if err != nil {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, updated, _ := s.metrics.Snapshot()
	respondWithJSON(w, http.StatusOK, map[string]any{
		"updated":     updated.UTC(),
		"total":       summary.Total,
		"unique":      summary.Unique,
		"tcp":         summary.TCP,
		"udp":         summary.UDP,
		"established": summary.Established,
		"listen":      summary.Listening,
		"ipv4":        summary.IPv4,
		"ipv6":        summary.IPv6,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
