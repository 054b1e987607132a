package api

import (
	"context"
	"net/http"
	"time"

	"github.com/cuemby/pulse-scheduler/pkg/log"
	"github.com/cuemby/pulse-scheduler/pkg/scheduler"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Server is the HTTP adapter in front of a Scheduler. It holds no
// scheduling state of its own.
type Server struct {
	sched  *scheduler.Scheduler
	mux    *http.ServeMux
	logger zerolog.Logger
	http   *http.Server
}

// NewServer builds a Server wired to sched, with every route from §6
// registered on a fresh ServeMux.
func NewServer(sched *scheduler.Scheduler) *Server {
	s := &Server{
		sched:  sched,
		mux:    http.NewServeMux(),
		logger: log.WithComponent("api"),
	}

	s.mux.HandleFunc("POST /jobs", s.handleSubmitJob)
	s.mux.HandleFunc("GET /jobs", s.handleListJobs)
	s.mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	s.mux.HandleFunc("DELETE /jobs/{id}", s.handleCancelJob)
	s.mux.HandleFunc("GET /partitions", s.handleListPartitions)
	s.mux.HandleFunc("GET /partitions/{name}", s.handleGetPartition)
	s.mux.HandleFunc("GET /cluster/summary", s.handleClusterSummary)
	s.mux.HandleFunc("POST /demo/generate-jobs", s.handleGenerateDemoJobs)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", sched.Metrics().Handler())

	return s
}

// Handler returns the fully wrapped HTTP handler, for use in tests or
// embedding in another server without calling Start.
func (s *Server) Handler() http.Handler {
	return s.withMiddleware(s.mux)
}

// Start runs the HTTP server on addr until Stop is called. It blocks
// until the listener exits.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.logger.Info().Str("addr", addr).Msg("api server listening")

	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts the HTTP server down within the given context.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// withMiddleware wraps the mux with request-id stamping and access
// logging, in that order.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return requestIDMiddleware(s.loggingMiddleware(next))
}

type requestIDKey struct{}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		requestID, _ := r.Context().Value(requestIDKey{}).(string)
		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request handled")

		s.sched.Metrics().HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, statusClass(rec.status)).Inc()
		s.sched.Metrics().HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

func statusClass(status int) string {
	switch {
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
