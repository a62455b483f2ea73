// Package server exposes the memory agent over HTTP: a JSON API mirroring
// the agent's single operation plus direct memory CRUD, a websocket chat
// endpoint and a small embedded web page.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/attiklabs/recall/agent"
	"github.com/attiklabs/recall/memory"
)

// Config holds the HTTP server settings.
type Config struct {
	Host string
	Port int

	// RateLimit is the number of chat turns allowed per user per
	// RateWindow. Zero disables limiting.
	RateLimit  int64
	RateWindow time.Duration

	// JSONLogs switches request logging to JSON.
	JSONLogs bool
}

// Server serves the agent and store over HTTP.
type Server struct {
	agent      *agent.Agent
	store      memory.Store
	config     Config
	limiter    *rateLimiter
	logger     *slog.Logger
	httpServer *http.Server
}

// New creates a Server. The limiter is only built when cfg.RateLimit > 0.
func New(a *agent.Agent, store memory.Store, cfg Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{
		agent:  a,
		store:  store,
		config: cfg,
		logger: logger,
	}
	if cfg.RateLimit > 0 {
		window := cfg.RateWindow
		if window <= 0 {
			window = time.Minute
		}
		limiter, err := newRateLimiter(cfg.RateLimit, window)
		if err != nil {
			return nil, err
		}
		srv.limiter = limiter
	}
	return srv, nil
}

// Router assembles the HTTP routes.
func (s *Server) Router() http.Handler {
	requestLogger := httplog.NewLogger("recall", httplog.Options{
		LogLevel: slog.LevelInfo,
		JSON:     s.config.JSONLogs,
		Concise:  true,
	})

	r := chi.NewMux()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httplog.RequestLogger(requestLogger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/chat/ws", s.handleChatWS)
		r.Get("/memory/{userID}", s.handleGetMemory)
		r.Put("/memory/{userID}", s.handlePutMemory)
		r.Delete("/memory/{userID}", s.handleDeleteMemory)
		r.Get("/users", s.handleListUsers)
	})
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", s.handleIndex)

	return r
}

// Serve runs the server until ctx is cancelled or a shutdown signal arrives.
func (s *Server) Serve(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("context done, shutting down server")
	case <-quit:
		s.logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.httpServer.SetKeepAlivesEnabled(false)
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server shutdown complete")
	return nil
}
