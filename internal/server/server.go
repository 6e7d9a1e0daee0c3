// Package server exposes the analyzer and the verification agent over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ppiankov/credence/internal/model"
)

const (
	// MaxTextBytes is the largest text accepted by the analyze and verify endpoints
	MaxTextBytes = 20000

	shutdownTimeout = 10 * time.Second
)

// Analyzer scores analysis requests
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) *model.AnalysisResult
}

// Agent verifies claims and answers follow-up questions
type Agent interface {
	VerifyClaim(ctx context.Context, req model.VerifyRequest) model.VerifyResult
	ChatWithAgent(ctx context.Context, req model.ChatRequest) model.ChatReply
}

// Server is the HTTP API
type Server struct {
	analyzer Analyzer
	agent    Agent
	cfg      model.ServerConfig
	logger   *slog.Logger
	version  string
}

// New creates a server. A nil agent disables /v1/verify and /v1/chat.
func New(cfg model.ServerConfig, analyzer Analyzer, agent Agent, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = model.DefaultConfig().Server.MaxBodyBytes
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}
	return &Server{analyzer: analyzer, agent: agent, cfg: cfg, logger: logger, version: version}
}

// Handler returns the routed handler wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/verify", s.handleVerify).Methods(http.MethodPost)
	api.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	// mux consults these per router, so the subrouter needs its own
	for _, router := range []*mux.Router{r, api} {
		router.NotFoundHandler = notFound
		router.MethodNotAllowedHandler = notAllowed
	}

	return Chain(r,
		OTel("credence"),
		RequestID(),
		Logger(s.logger),
		Recover(s.logger),
		CORS(s.cfg.CORSOrigin),
	)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
