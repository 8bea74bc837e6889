package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vidsweep/internal/api"
	"vidsweep/internal/logging"
	"vidsweep/internal/scan"
	"vidsweep/internal/settings"
)

// Server is the HTTP API server.
type Server struct {
	bind    string
	token   string
	svc     *api.Service
	logger  *slog.Logger
	handler http.Handler

	listener net.Listener
	server   *http.Server
}

// New builds a Server bound to bind. Nothing listens until Start.
func New(bind, token string, svc *api.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{bind: bind, token: token, svc: svc, logger: logger}
	s.handler = s.routes()
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(metricsMiddleware)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(s.token))
		r.Post("/scan", s.handleScan)
		r.Post("/batches/{index}", s.handleBatch)
		r.Get("/report", s.handleReport)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
		r.Get("/videos/count", s.handleCount)
	})
	return router
}

// Start listens and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
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
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the listening address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting up to five seconds for requests.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

// handleScan runs to completion even if the client goes away; only server
// shutdown is not waited for.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.FullScan(context.WithoutCancel(r.Context()))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "invalid batch index")
		return
	}
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil || size < settings.MinBatchSize || size > settings.MaxBatchSize {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("size must be between %d and %d", settings.MinBatchSize, settings.MaxBatchSize))
			return
		}
	}
	result, err := s.svc.Batch(context.WithoutCancel(r.Context()), index, size)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.LastReport(r.Context())
	if errors.Is(err, scan.ErrNoReport) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	current, err := s.svc.Settings(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var overrides settings.Overrides
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&overrides); err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings payload: "+err.Error())
		return
	}
	updated, err := s.svc.UpdateSettings(r.Context(), overrides)
	if errors.Is(err, api.ErrInvalidSettings) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.svc.CountVideos(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, count)
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, api.ErrScanInProgress) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if errors.Is(err, scan.ErrPageOutOfRange) {
		writeError(w, http.StatusBadRequest, "invalid batch index")
		return
	}
	s.logger.Error("api request failed", logging.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
