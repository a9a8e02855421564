package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the sequencing pipeline over HTTP
type Server struct {
	cfg    Config
	logger *log.Logger
	start  time.Time
}

// NewServer creates a server using cfg for every request
func NewServer(cfg Config, logger *log.Logger) *Server {
	return &Server{cfg: cfg, logger: logger, start: time.Now()}
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Routes returns the HTTP handler with every endpoint registered
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", s.healthHandler)
	r.Post("/weights", s.instrument("weights", s.weightsHandler))
	r.Post("/merge", s.instrument("merge", s.mergeHandler))
	r.Post("/order", s.instrument("order", s.mergeHandler))
	r.Post("/traverse", s.instrument("traverse", s.traverseHandler))
	r.Post("/trail", s.instrument("trail", s.trailHandler))
	r.Handle("/metrics", promhttp.Handler())

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout, err := parseDuration("server.shutdown_timeout", s.cfg.Server.ShutdownTimeout)
	if err != nil || timeout == 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// statusRecorder captures the status code for metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument records request count and duration for an endpoint
func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		requestTotal.WithLabelValues(endpoint, strconv.Itoa(rec.status)).Inc()
	}
}

// GET /health - Health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"uptime": time.Since(s.start).Round(time.Second).String(),
	})
}

// POST /weights - Weight every segment of the lattice
func (s *Server) weightsHandler(w http.ResponseWriter, r *http.Request) {
	s.runHandler(w, r, StageWeigh)
}

// POST /merge and /order - Weight, merge chains and order the result
func (s *Server) mergeHandler(w http.ResponseWriter, r *http.Request) {
	s.runHandler(w, r, StageMerge)
}

func (s *Server) runHandler(w http.ResponseWriter, r *http.Request, stage Stage) {
	lattice, ok := s.decodeLattice(w, r)
	if !ok {
		return
	}

	cfg := s.cfg
	if brace, err := strconv.ParseBool(r.URL.Query().Get("brace")); err == nil {
		cfg.Order.Brace = brace
	}

	ctx := withLogger(r.Context(), s.logger)
	result, err := Run(ctx, lattice, cfg, stage)
	if err != nil {
		s.writeRunError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"l_and_w":   result.Output(),
		"uncovered": result.Uncovered,
		"elapsed":   result.Elapsed.String(),
	})
}

// POST /traverse - Depth-first visit order of the lattice edges
func (s *Server) traverseHandler(w http.ResponseWriter, r *http.Request) {
	lattice, ok := s.decodeLattice(w, r)
	if !ok {
		return
	}

	// Pacing is for playback only; API callers get the order immediately
	cfg := s.cfg
	cfg.Traverse.Pace = ""

	ctx := withLogger(r.Context(), s.logger)
	graph, visited, err := TraverseLattice(ctx, lattice, cfg, nil)
	if err != nil {
		s.writeRunError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"visited":  visited,
		"numNodes": len(graph.Nodes),
		"numEdges": len(visited),
	})
}

// POST /trail - Longest continuous trail through the lattice
func (s *Server) trailHandler(w http.ResponseWriter, r *http.Request) {
	lattice, ok := s.decodeLattice(w, r)
	if !ok {
		return
	}

	ctx := withLogger(r.Context(), s.logger)
	graph, trail, err := TrailLattice(ctx, lattice, s.cfg)
	if err != nil {
		s.writeRunError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"trail":    trail,
		"numNodes": len(graph.Nodes),
		"numEdges": len(graph.Edges()),
	})
}

// decodeLattice reads the request body; ?format=geojson selects GeoJSON input
func (s *Server) decodeLattice(w http.ResponseWriter, r *http.Request) (*Lattice, bool) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = FormatJSON
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes))
	if err != nil {
		s.logger.Warn("failed to read request body", "err", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}

	lattice, err := ParseLattice(body, format, s.cfg.Tolerance, s.logger)
	if err != nil {
		s.logger.Warn("invalid request body", "err", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return nil, false
	}

	segmentsPerRequest.Observe(float64(len(lattice.Segments)))
	return lattice, true
}

func (s *Server) writeRunError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrEmptyInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Error("request failed", "err", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
