package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"carprice/internal/adapters/config"
	"carprice/internal/metrics"
	"carprice/pkg/logger"
)

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withObservability tags each request with an ID, logs it and records
// request metrics under the route pattern.
func withObservability(endpoint string, next http.Handler) http.Handler {
	log := logger.Get().With("component", "http")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		metrics.RecordRequest(endpoint, strconv.Itoa(rec.status), duration)
		log.Infow("request served",
			"request_id", requestID,
			"method", r.Method,
			"endpoint", endpoint,
			"status", rec.status,
			"duration", duration,
		)
	})
}

// withRateLimit applies a global token-bucket limit across all clients.
func withRateLimit(cfg config.RateLimitConfig, next http.Handler) http.Handler {
	if !cfg.Enabled {
		return next
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
