package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-delivery/internal/metrics"
)

type metricsOut struct {
	dig.Out

	HTTPRequestsTotal       *prometheus.CounterVec   `name:"http_requests_total"`
	HTTPRequestDuration     *prometheus.HistogramVec `name:"http_request_duration_seconds"`
	RateLimitExceededTotal  prometheus.Counter       `name:"rate_limit_exceeded_total"`
	GeocoderRetriesTotal    prometheus.Counter       `name:"geocoder_retries_total"`
	GeocoderRequestsTotal   *prometheus.CounterVec   `name:"geocoder_requests_total"`
	OrderLookupRetriesTotal prometheus.Counter       `name:"order_lookup_retries_total"`
	Deliveries              *metrics.DeliveryRecorder
	Gatherer                prometheus.Gatherer
}

// provideMetrics registers every collector on the default registry.
func provideMetrics() (metricsOut, error) {
	reg := prometheus.DefaultRegisterer
	var (
		out metricsOut
		err error
	)
	if out.HTTPRequestsTotal, err = metrics.Register(reg, metrics.NewHTTPRequestsTotal(), "http_requests_total"); err != nil {
		return metricsOut{}, err
	}
	if out.HTTPRequestDuration, err = metrics.Register(reg, metrics.NewHTTPRequestDuration(), "http_request_duration_seconds"); err != nil {
		return metricsOut{}, err
	}
	if out.RateLimitExceededTotal, err = metrics.Register(reg, metrics.NewRateLimitExceededTotal(), "rate_limit_exceeded_total"); err != nil {
		return metricsOut{}, err
	}
	if out.GeocoderRetriesTotal, err = metrics.Register(reg, metrics.NewGeocoderRetriesTotal(), "geocoder_retries_total"); err != nil {
		return metricsOut{}, err
	}
	if out.GeocoderRequestsTotal, err = metrics.Register(reg, metrics.NewGeocoderRequestsTotal(), "geocoder_requests_total"); err != nil {
		return metricsOut{}, err
	}
	if out.OrderLookupRetriesTotal, err = metrics.Register(reg, metrics.NewOrderLookupRetriesTotal(), "order_lookup_retries_total"); err != nil {
		return metricsOut{}, err
	}
	created, err := metrics.Register(reg, metrics.NewDeliveriesCreatedTotal(), "deliveries_created_total")
	if err != nil {
		return metricsOut{}, err
	}
	out.Deliveries = metrics.NewDeliveryRecorder(created)
	out.Gatherer = prometheus.DefaultGatherer
	return out, nil
}
