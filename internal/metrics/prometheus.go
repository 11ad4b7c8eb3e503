package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carprice_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"endpoint"},
	)

	// Prediction metrics
	Predictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_predictions_total",
			Help: "Total number of price predictions served",
		},
		[]string{"source", "status"}, // source: form|image, status: success|error
	)

	PredictedPrice = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carprice_predicted_price",
			Help:    "Distribution of predicted prices in the configured currency unit",
			Buckets: prometheus.ExponentialBuckets(50_000, 2, 10),
		},
		[]string{"source"},
	)

	UnknownLabels = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_unknown_labels_total",
			Help: "Total categorical labels not seen during encoder fit (mapped to fallback code)",
		},
		[]string{"field"},
	)

	// Image pipeline metrics
	ImageDecodeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "carprice_image_decode_failures_total",
			Help: "Total uploads rejected because the payload was missing, empty or undecodable",
		},
	)

	ImageExtractDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "carprice_image_extract_duration_seconds",
			Help:    "Image feature extraction duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	// Cache metrics
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_cache_requests_total",
			Help: "Prediction cache lookups",
		},
		[]string{"result"}, // result: hit|miss|error
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(HTTPDuration)
	prometheus.MustRegister(Predictions)
	prometheus.MustRegister(PredictedPrice)
	prometheus.MustRegister(UnknownLabels)
	prometheus.MustRegister(ImageDecodeFailures)
	prometheus.MustRegister(ImageExtractDuration)
	prometheus.MustRegister(CacheRequests)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records an HTTP request outcome
func RecordRequest(endpoint, status string, duration time.Duration) {
	HTTPRequests.WithLabelValues(endpoint, status).Inc()
	HTTPDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordPrediction records a served prediction
func RecordPrediction(source string, price float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	Predictions.WithLabelValues(source, status).Inc()
	if err == nil {
		PredictedPrice.WithLabelValues(source).Observe(price)
	}
}

// RecordCacheLookup records a prediction cache lookup result
func RecordCacheLookup(result string) {
	CacheRequests.WithLabelValues(result).Inc()
}
