// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/0xcro3dile/salesinsight-go/internal/domain/entities"
	"github.com/0xcro3dile/salesinsight-go/internal/domain/ports"
	"github.com/0xcro3dile/salesinsight-go/internal/domain/usecases"
)

// defaultTop is the snippet count used when a request omits "top".
const defaultTop = 3

// QueryService answers a question. *usecases.QueryUseCase implements it.
type QueryService interface {
	Query(ctx context.Context, req *entities.ChatRequest) (*entities.ChatResponse, error)
}

// Invalidator drops in-memory state derived from the cache directory.
type Invalidator interface {
	Invalidate()
}

// Server is the HTTP front end for sales questions.
type Server struct {
	queries QueryService
	addr    string
	log     *zap.Logger

	watcher     ports.FileWatcher
	watchDir    string
	invalidator Invalidator
}

// Option customizes a Server.
type Option func(*Server)

// WithCacheWatch invalidates inv whenever a cache file in dir changes.
func WithCacheWatch(watcher ports.FileWatcher, dir string, inv Invalidator) Option {
	return func(s *Server) {
		s.watcher = watcher
		s.watchDir = dir
		s.invalidator = inv
	}
}

// NewServer creates a new HTTP server.
func NewServer(queries QueryService, addr string, log *zap.Logger, opts ...Option) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		queries: queries,
		addr:    addr,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/query", s.handleQuery)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	return corsMiddleware(s.loggingMiddleware(mux))
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.watcher != nil {
		if err := s.watchCache(ctx); err != nil {
			return err
		}
	}

	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second, // generation can be slow
	}

	s.log.Info("sales insight server starting", zap.String("addr", s.addr))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// watchCache forwards cache file changes to the invalidator.
func (s *Server) watchCache(ctx context.Context) error {
	events, err := s.watcher.Watch(ctx, s.watchDir)
	if err != nil {
		return err
	}

	go func() {
		for ev := range events {
			s.log.Debug("cache file changed",
				zap.String("path", ev.Path),
				zap.String("op", ev.Operation.String()),
			)
			if s.invalidator != nil {
				s.invalidator.Invalidate()
			}
		}
	}()
	return nil
}

type queryRequest struct {
	Q     string `json:"q"`
	Cache *bool  `json:"cache"`
	Top   *int   `json:"top"`
}

type queryResponse struct {
	Status     string `json:"status"`
	Answer     string `json:"answer,omitempty"`
	DateRange  string `json:"date_range,omitempty"`
	OrderCount int    `json:"order_count"`
	Error      string `json:"error,omitempty"`
}

// handleQuery answers one question.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, queryResponse{Status: "error", Error: "method not allowed"})
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, queryResponse{Status: "error", Error: "invalid JSON body"})
		return
	}

	question := strings.TrimSpace(req.Q)
	if question == "" {
		writeJSON(w, http.StatusBadRequest, queryResponse{Status: "error", Error: "q is required"})
		return
	}

	useCache := true
	if req.Cache != nil {
		useCache = *req.Cache
	}
	top := defaultTop
	if req.Top != nil {
		top = *req.Top
	}

	resp, err := s.queries.Query(r.Context(), &entities.ChatRequest{
		Question:     question,
		ForceRefresh: !useCache,
		TopK:         top,
	})
	if errors.Is(err, usecases.ErrEmptyQuestion) {
		writeJSON(w, http.StatusBadRequest, queryResponse{Status: "error", Error: err.Error()})
		return
	}
	if err != nil {
		s.log.Error("query failed", zap.String("question", question), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, queryResponse{Status: "error", Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Status:     "ok",
		Answer:     resp.Answer,
		DateRange:  resp.Interval.String(),
		OrderCount: resp.Payload.OrderCount,
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
