package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gitfind/pkg/errors"
	"github.com/matzehuels/gitfind/pkg/summary"
)

const (
	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 5 * time.Second
)

// summarizer is the part of *summary.Summarizer the HTTP handlers need.
type summarizer interface {
	Summarize(ctx context.Context, ref string) (*summary.Record, error)
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve repository summaries over HTTP",
		Long: `Start an HTTP server exposing repository summaries as JSON.

Endpoints:
  GET /healthz                 liveness check
  GET /v1/summary?repo=<ref>   summary record for a repository

Examples:
  gitfind serve
  gitfind serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runServer(cmd.Context(), cfg.Addr, newRouter(c.newSummarizer(cfg), c.Logger))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")

	return cmd
}

// runServer serves h on addr until ctx is cancelled, then shuts down gracefully.
func (c *CLI) runServer(ctx context.Context, addr string, h http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "listen on %s", addr)
	}

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	c.Logger.Info("listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// newRouter builds the HTTP API.
func newRouter(s summarizer, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID(logger))
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth)
	r.Get("/v1/summary", handleSummary(s))

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// requestID tags each request with an ID, taken from the incoming header or
// generated, and stores a logger carrying it in the request context.
func requestID(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)
			ctx := withLogger(r.Context(), logger.With("request_id", id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// accessLog logs one line per request with status and duration.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		loggerFromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleSummary(s summarizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := s.Summarize(r.Context(), r.URL.Query().Get("repo"))
		if err != nil {
			status := statusFor(err)
			loggerFromContext(r.Context()).Warn("summary failed", "status", status, "error", err)
			writeResponse(w, status, errorBody{Code: codeFor(err), Error: errors.UserMessage(err)})
			return
		}
		writeResponse(w, http.StatusOK, rec)
	}
}

type errorBody struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

// statusFor maps a summary failure to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeRemote:
		if re, ok := errors.AsRemote(err); ok && re.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	case errors.ErrCodeShape:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func codeFor(err error) errors.Code {
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}

func writeResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
