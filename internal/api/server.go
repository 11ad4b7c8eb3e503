package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"carprice/internal/adapters/config"
	"carprice/internal/api/health"
	"carprice/internal/metrics"
	"carprice/pkg/errors"
	"carprice/pkg/logger"
)

// ServerConfig contains configuration for HTTP server
type ServerConfig struct {
	Port        int
	ServiceName string
	Version     string
	Model       string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RateLimit    config.RateLimitConfig
}

// Server wraps HTTP server with lifecycle management
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer creates and configures HTTP server with all routes
func NewServer(cfg ServerConfig, handlers *Handlers, healthHandler *health.Handler, log *logger.Logger) *Server {
	mux := http.NewServeMux()

	// Health check endpoints (Kubernetes probes)
	mux.HandleFunc("/health", healthHandler.HandleHealth)
	mux.HandleFunc("/ready", healthHandler.HandleReadiness)
	mux.HandleFunc("/live", healthHandler.HandleLiveness)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", metrics.Handler())

	// Prediction API
	route := func(pattern string, handler http.HandlerFunc) {
		mux.Handle(pattern, withRateLimit(cfg.RateLimit, withObservability(pattern, handler)))
	}
	route("/get_options", handlers.HandleOptions)
	route("/predict", handlers.HandlePredict)
	route("/predict_image", handlers.HandlePredictImage)

	// Root endpoint (service info)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"service": cfg.ServiceName,
			"version": cfg.Version,
			"model":   cfg.Model,
			"status":  "running",
			"endpoints": map[string]string{
				"GET /get_options":    "known brand, fuel type and transmission values",
				"POST /predict":       "predict price from form fields",
				"POST /predict_image": "predict price from an uploaded car image",
			},
		})
	})

	port := 5000
	if cfg.Port > 0 {
		port = cfg.Port
	}

	log.Infof("HTTP server configured on port %d", port)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		log:        log,
	}
}

// Start begins listening for HTTP requests
// Blocks until server is stopped or encounters an error
func (s *Server) Start() error {
	s.log.Infof("Starting HTTP server on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "http server failed")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
// Waits for active connections to complete within timeout
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Stopping HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "http server shutdown failed")
	}

	s.log.Info("✓ HTTP server stopped")
	return nil
}
