package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Server serves /metrics on a port of its own, away from search traffic.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

func NewServer(m *Metrics, port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	mux.Handle("GET /{$}", http.RedirectHandler("/metrics", http.StatusFound))

	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
		},
		logger: slog.Default().With("component", "metrics-server"),
	}
}

func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start listens in the background. Listen failures are logged, not fatal:
// search keeps serving without scrapes.
func (s *Server) Start() {
	go func() {
		s.logger.Info("metrics server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server error", "error", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
