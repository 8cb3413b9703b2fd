package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RPCHandler handles JSON-RPC method dispatch.
type RPCHandler interface {
	Handle(ctx context.Context, userID, method string, params json.RawMessage) (any, error)
}

// Option configures the HTTP router.
type Option func(*Server)

// WithMCP mounts a streamable MCP handler at /mcp. The handler performs its
// own authentication.
func WithMCP(h http.Handler) Option {
	return func(s *Server) { s.mcp = h }
}

// WithMetrics serves h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger enables request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// Server wires HTTP handlers.
type Server struct {
	handler RPCHandler
	mcp     http.Handler
	metrics http.Handler
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware. authMiddleware
// guards /rpc and must place the user in the request context.
func NewServer(handler RPCHandler, authMiddleware func(http.Handler) http.Handler, opts ...Option) *chi.Mux {
	srv := &Server{handler: handler}
	for _, opt := range opts {
		opt(srv)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if srv.logger != nil {
		r.Use(srv.logRequests)
	}

	r.Get("/health", srv.handleHealth)
	if srv.metrics != nil {
		r.Method(http.MethodGet, "/metrics", srv.metrics)
	}
	if srv.mcp != nil {
		r.Handle("/mcp", srv.mcp)
		r.Handle("/mcp/*", srv.mcp)
	}

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Post("/rpc", srv.handleRPC)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		if errors.Is(err, errParse) {
			WriteError(w, nil, ErrParseCode, "parse error", nil)
			return
		}
		WriteError(w, nil, ErrInvalidReq, "invalid request", nil)
		return
	}

	userID, ok := UserFromContext(r.Context())
	if !ok || userID == "" {
		http.Error(w, "missing user", http.StatusUnauthorized)
		return
	}

	result, err := s.handler.Handle(r.Context(), userID, req.Method, req.Params)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if s.logger != nil {
			s.logger.Debug("rpc error", "method", req.Method, "user_id", userID, "error", err)
		}
		WriteHandlerError(w, req.ID, err)
		return
	}

	WriteResult(w, req.ID, result)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
