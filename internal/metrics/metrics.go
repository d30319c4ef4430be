package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// NewHTTPRequestsTotal returns a counter of served HTTP requests by method, route pattern and status
func NewHTTPRequestsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
}

// NewHTTPRequestDuration returns a histogram of HTTP request durations
func NewHTTPRequestDuration() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
}

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGeocoderRetriesTotal returns a counter of geocoder retry attempts
func NewGeocoderRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geocoder_retries_total",
		Help: "Total number of retry attempts performed against the geocoding provider",
	})
}

// NewGeocoderRequestsTotal returns a counter of geocoder lookups by final outcome
func NewGeocoderRequestsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocoder_requests_total",
			Help: "Geocoder lookups by final outcome",
		},
		[]string{"outcome"},
	)
}

// NewOrderLookupRetriesTotal returns a counter of order lookup retries
func NewOrderLookupRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_lookup_retries_total",
		Help: "Total number of retried order lookups",
	})
}

// NewDeliveriesCreatedTotal returns a counter of created deliveries by assignment result
func NewDeliveriesCreatedTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deliveries_created_total",
			Help: "Deliveries created, split by whether an agent was assigned at creation",
		},
		[]string{"assignment"},
	)
}

// Register registers c with reg. When an equal collector is already
// registered the existing one is returned instead.
func Register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, fmt.Errorf("register %s: %w", name, err)
	}
	return c, nil
}

// DeliveryRecorder counts delivery creations.
type DeliveryRecorder struct {
	created *prometheus.CounterVec
}

// NewDeliveryRecorder wraps the deliveries_created_total vector.
func NewDeliveryRecorder(created *prometheus.CounterVec) *DeliveryRecorder {
	return &DeliveryRecorder{created: created}
}

// DeliveryCreated records one new delivery.
func (r *DeliveryRecorder) DeliveryCreated(assigned bool) {
	if r == nil || r.created == nil {
		return
	}
	label := "unassigned"
	if assigned {
		label = "assigned"
	}
	r.created.WithLabelValues(label).Inc()
}
