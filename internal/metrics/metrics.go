// Package metrics exposes prometheus collectors for the HTTP surface and
// the pipeline outcomes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hargabekas",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hargabekas",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	checksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hargabekas",
			Name:      "checks_total",
			Help:      "Price checks by outcome",
		},
		[]string{"outcome"},
	)

	listingsSeen = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hargabekas",
			Name:      "listings_total",
			Help:      "Listings seen by pipeline stage",
		},
		[]string{"stage"}, // raw, qualified, cleaned
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(checksTotal)
	prometheus.MustRegister(listingsSeen)
}

// ObserveCheck records one pipeline run.
func ObserveCheck(outcome string, raw, qualified, cleaned int) {
	checksTotal.WithLabelValues(outcome).Inc()
	listingsSeen.WithLabelValues("raw").Add(float64(raw))
	listingsSeen.WithLabelValues("qualified").Add(float64(qualified))
	listingsSeen.WithLabelValues("cleaned").Add(float64(cleaned))
}

// Middleware records HTTP request duration and count per chi route.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(ww.status)

			// The chi route pattern keeps label cardinality bounded.
			path := chi.RouteContext(r.Context()).RoutePattern()
			if path == "" {
				path = "unknown"
			}

			httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
			httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(b)
}
