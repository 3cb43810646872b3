package main

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fuxingjun/taoli-tools-signer/pkg/wallet"
)

// Metrics contains all Prometheus metrics for the application
type Metrics struct {
	// Keychain metrics
	KeychainKeys prometheus.Gauge

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec

	// Authentication metrics
	AuthRejections *prometheus.CounterVec

	// Signing metrics
	SigningOperations *prometheus.CounterVec
}

// NewMetrics initializes and registers Prometheus metrics
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(nil)
}

// NewMetricsWithRegistry initializes and registers Prometheus metrics with a custom registry
func NewMetricsWithRegistry(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	metrics := &Metrics{
		KeychainKeys: factory.NewGauge(prometheus.GaugeOpts{
			Name: "signer_keychain_keys",
			Help: "The number of signing keys in the loaded keychain",
		}),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signer_http_requests_total",
				Help: "The total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		AuthRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signer_auth_rejections_total",
				Help: "The total number of rejected requests by rejection reason",
			},
			[]string{"reason"},
		),
		SigningOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signer_signing_operations_total",
				Help: "The total number of wallet operations by platform, operation and outcome",
			},
			[]string{"platform", "operation", "status"},
		),
	}

	return metrics
}

// RecordRequest counts one served HTTP request.
func (m *Metrics) RecordRequest(route, method string, status int) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

// RecordAuthRejection counts one rejected request by reason.
func (m *Metrics) RecordAuthRejection(reason string) {
	m.AuthRejections.WithLabelValues(reason).Inc()
}

// RecordSigningOperation counts one wallet operation and its outcome.
func (m *Metrics) RecordSigningOperation(platform wallet.Platform, operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.SigningOperations.WithLabelValues(platform.String(), operation, status).Inc()
}
