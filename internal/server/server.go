package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dexusno/NorTrans/internal/config"
	"github.com/dexusno/NorTrans/internal/logging"
	"github.com/dexusno/NorTrans/internal/queue"
	"github.com/dexusno/NorTrans/internal/services"
	"github.com/dexusno/NorTrans/internal/translate"
)

// BackendFactory builds a translation backend for one request. Tests
// substitute a factory returning stub backends.
type BackendFactory func(settings translate.Settings, logger *slog.Logger) (translate.Backend, error)

// Server serves the translation HTTP API.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *queue.Store
	newBackend BackendFactory
	startedAt  time.Time

	listener net.Listener
	server   *http.Server
}

// Option customizes server construction.
type Option func(*Server)

// WithBackendFactory overrides how request backends are built.
func WithBackendFactory(factory BackendFactory) Option {
	return func(s *Server) {
		if factory != nil {
			s.newBackend = factory
		}
	}
}

// New builds a server. The store may be nil, in which case the job
// endpoints report the queue as unavailable.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	srv := &Server{
		cfg:        cfg,
		logger:     logging.WithComponent(logger, "api-server"),
		store:      store,
		newBackend: translate.NewBackend,
		startedAt:  time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(srv)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/translate-srt", srv.handleTranslateSRT)
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/jobs", srv.handleJobs)
	mux.HandleFunc("/api/jobs/", srv.handleJob)

	srv.server = &http.Server{
		Handler:           srv.recoverPanics(srv.withRequestID(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler exposes the routing stack for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins listening on the configured bind address. The server
// shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	bind := strings.TrimSpace(s.cfg.Paths.APIBind)
	if bind == "" {
		return fmt.Errorf("api bind address is empty")
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound address after Start, or "" before.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down.
func (s *Server) Stop() {
	if s == nil || s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// withRequestID tags every request with a correlation identifier that
// flows through the context and comes back in the X-Request-ID header.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := services.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("handler panic",
					logging.String("path", r.URL.Path),
					logging.Any("panic", rec))
				s.writeError(w, http.StatusInternalServerError, "internal", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method", "method not allowed")
		return
	}
	payload := statusResponse{
		Running:   true,
		PID:       os.Getpid(),
		StartedAt: s.startedAt,
		Mode:      s.cfg.Translator.Mode,
		Bind:      s.cfg.Paths.APIBind,
	}
	if s.store != nil {
		payload.QueueDBPath = s.store.Path()
		if health, err := s.store.Health(r.Context()); err == nil {
			payload.Jobs = &health
		}
	}
	s.writeJSON(w, http.StatusOK, payload)
}
