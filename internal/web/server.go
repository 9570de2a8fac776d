// Package web serves the browser UI and its JSON API. It is a thin
// consumer of the store and graph layers: every mutation it performs is
// the same load-mutate-save cycle the CLI runs.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/mesh-intelligence/readyq/internal/store"
)

// Server hosts the task board UI over one store.
type Server struct {
	store *store.Store
	host  string
	port  int
}

// New creates a server bound to st.
func New(st *store.Store, host string, port int) *Server {
	return &Server{store: st, host: host, port: port}
}

// URL returns the address the server listens on.
func (s *Server) URL() string {
	return fmt.Sprintf("http://%s", net.JoinHostPort(s.host, fmt.Sprintf("%d", s.port)))
}

// Handler builds the routed handler with CORS and request logging.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/api/tasks", s.handleTasks)
	r.Get("/api/update", s.handleUpdateStatus)
	r.Post("/api/create", s.handleCreate)
	r.Post("/api/edit", s.handleEdit)
	r.Post("/api/delete", s.handleDelete)
	r.Post("/api/delete-log", s.handleDeleteLog)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(r)
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:        net.JoinHostPort(s.host, fmt.Sprintf("%d", s.port)),
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("serving web ui", "addr", srv.Addr, "store", s.store.Path())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// requestLogger logs one line per request with method, path, status, and
// duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration", time.Since(start),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
