package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/backoffice"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Session metrics
	SessionTransitionsTotal metric.Int64Counter

	// Navigation metrics
	GuardDecisionsTotal metric.Int64Counter
	MenuBuildsTotal     metric.Int64Counter

	// Backend client metrics
	BackendRequestsTotal   metric.Int64Counter
	BackendRequestDuration metric.Float64Histogram
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics(otel.GetMeterProvider().Meter(meterName))
	})
	return metrics
}

// initMetrics creates and registers all metric instruments
func initMetrics(meter metric.Meter) *Metrics {
	m := &Metrics{}

	m.SessionTransitionsTotal, _ = meter.Int64Counter(
		"backoffice.session.transitions.total",
		metric.WithDescription("Total number of session state transitions by event"),
		metric.WithUnit("{transition}"),
	)

	m.GuardDecisionsTotal, _ = meter.Int64Counter(
		"backoffice.guard.decisions.total",
		metric.WithDescription("Total number of route guard decisions by outcome"),
		metric.WithUnit("{decision}"),
	)

	m.MenuBuildsTotal, _ = meter.Int64Counter(
		"backoffice.navigation.menu_builds.total",
		metric.WithDescription("Total number of navigation menus built"),
		metric.WithUnit("{menu}"),
	)

	m.BackendRequestsTotal, _ = meter.Int64Counter(
		"backoffice.backend.requests.total",
		metric.WithDescription("Total number of requests sent to the REST backend"),
		metric.WithUnit("{request}"),
	)

	m.BackendRequestDuration, _ = meter.Float64Histogram(
		"backoffice.backend.request.duration",
		metric.WithDescription("Duration of requests sent to the REST backend"),
		metric.WithUnit("ms"),
	)

	return m
}

// RecordSessionTransition counts a session transition such as login, logout or expired.
func (m *Metrics) RecordSessionTransition(ctx context.Context, event string) {
	m.SessionTransitionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("event", event)))
}

// RecordGuardDecision counts a route guard outcome.
func (m *Metrics) RecordGuardDecision(ctx context.Context, outcome, role string) {
	m.GuardDecisionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("role", role),
	))
}

// RecordMenuBuild counts a menu build for the given role.
func (m *Metrics) RecordMenuBuild(ctx context.Context, role string, entries int) {
	m.MenuBuildsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("role", role),
		attribute.Int("entries", entries),
	))
}

// RecordBackendRequest counts a backend request and its latency.
func (m *Metrics) RecordBackendRequest(ctx context.Context, method string, status int, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.Int("status", status),
	)
	m.BackendRequestsTotal.Add(ctx, 1, attrs)
	m.BackendRequestDuration.Record(ctx, float64(d.Milliseconds()), attrs)
}
