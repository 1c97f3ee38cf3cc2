package core

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/evilsocket/islazy/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evilsocket/alertboard/models"
)

// SnapshotSource is anything holding the latest snapshot, see Aggregator.
type SnapshotSource interface {
	Snapshot() *models.Snapshot
}

// Server exposes the latest snapshot to the presentation layer.
type Server struct {
	r       *chi.Mux
	source  SnapshotSource
	metrics *Metrics
	http    *http.Server
}

func NewServer(address string, source SnapshotSource, metrics *Metrics) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		source:  source,
		metrics: metrics,
	}

	s.r.Use(middleware.RequestID)
	s.r.Use(middleware.Recoverer)
	s.routes()

	s.http = &http.Server{
		Addr:         address,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) routes() {
	s.r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok")) })

	s.r.Route("/api", func(r chi.Router) {
		r.Get("/snapshot", s.view(func(snap *models.Snapshot) interface{} { return snap }))
		r.Get("/alerts", s.view(func(snap *models.Snapshot) interface{} { return snap.Latest }))
		r.Get("/kpis", s.view(func(snap *models.Snapshot) interface{} { return snap.KPIs }))
		r.Get("/trend", s.view(func(snap *models.Snapshot) interface{} { return snap.Trend }))
		r.Get("/heatmap", s.view(func(snap *models.Snapshot) interface{} { return snap.Heatmap }))
		r.Get("/hosts", s.view(func(snap *models.Snapshot) interface{} { return snap.Hosts }))
		r.Get("/rankings", s.view(func(snap *models.Snapshot) interface{} {
			return map[string][]models.RankEntry{
				"alert_types": snap.TopAlertTypes,
				"processes":   snap.TopProcesses,
			}
		}))
	})

	if s.metrics != nil {
		s.r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}
}

func (s *Server) view(selector func(*models.Snapshot) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.source.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(selector(snap)); err != nil {
			log.Error("error encoding response for %s: %v", r.URL.Path, err)
		}
	}
}

func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(s.r)
}

func (s *Server) Start() {
	go func() {
		log.Info("http server listening on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error: %v", err)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
