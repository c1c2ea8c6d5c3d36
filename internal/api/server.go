package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/shinsei/entregas/internal/anomaly"
	"github.com/shinsei/entregas/internal/config"
	"github.com/shinsei/entregas/internal/storage"
)

type Server struct {
	cfg    config.Config
	store  storage.Storage
	router *chi.Mux
	log    zerolog.Logger
	http   *http.Server
}

// NewServer wires the HTTP routes. store may be nil, in which case reports
// are not kept and the history routes are not mounted.
func NewServer(cfg config.Config, store storage.Storage, log zerolog.Logger) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
		log:   log,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(s.log))

	statusHandler := NewStatusHandler()
	reportHandler := NewReportHandler(s.store, s.cfg.Report, s.log)
	anomalyHandler := NewAnomalyHandler(anomaly.NewDetector(anomaly.Options{
		Contamination: s.cfg.Anomaly.Contamination,
		Trees:         s.cfg.Anomaly.Trees,
		Seed:          s.cfg.Anomaly.Seed,
		MinLoads:      s.cfg.Anomaly.MinLoads,
		MinHistory:    s.cfg.Anomaly.MinHistory,
	}), s.cfg.Report.MaxBodyBytes, s.log)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", statusHandler.Status)

		r.Post("/relatorio", reportHandler.Generate)
		r.Post("/anomalias", anomalyHandler.Analyze)

		if s.store != nil {
			historyHandler := NewHistoryHandler(s.store, s.cfg.Storage.HistoryLimit)
			r.Get("/relatorios", historyHandler.List)
			r.Get("/relatorios/{id}", historyHandler.Get)
		}
	})

	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	s.log.Info().Str("addr", addr).Msg("starting HTTP server")
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(timeout time.Duration) error {
	if s.http == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}
