package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal      metric.Int64Counter
	HTTPRequestDuration    metric.Float64Histogram
	MapSessionsActive      metric.Int64UpDownCounter
	MapLoadFailuresTotal   metric.Int64Counter
	MarkerRebuildsTotal    metric.Int64Counter
	MarkersPlaced          metric.Int64Histogram
	PopupOpensTotal        metric.Int64Counter
	TemplateRenderDuration metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider, so it must
// run after the provider is installed to export anything.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("loci-citymap")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.MapSessionsActive, err = meter.Int64UpDownCounter(
			"map_sessions_active",
			metric.WithDescription("Map sessions currently mounted"),
			metric.WithUnit("{session}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create map_sessions_active: %v", err)
		}

		m.MapLoadFailuresTotal, err = meter.Int64Counter(
			"map_load_failures_total",
			metric.WithDescription("Map hosts that ended in the error state"),
			metric.WithUnit("{failure}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create map_load_failures_total: %v", err)
		}

		m.MarkerRebuildsTotal, err = meter.Int64Counter(
			"marker_rebuilds_total",
			metric.WithDescription("Marker set rebuilds by filter"),
			metric.WithUnit("{rebuild}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create marker_rebuilds_total: %v", err)
		}

		m.MarkersPlaced, err = meter.Int64Histogram(
			"markers_placed",
			metric.WithDescription("Markers placed per rebuild"),
			metric.WithUnit("{marker}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create markers_placed: %v", err)
		}

		m.PopupOpensTotal, err = meter.Int64Counter(
			"popup_opens_total",
			metric.WithDescription("Detail popups opened from marker clicks"),
			metric.WithUnit("{popup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create popup_opens_total: %v", err)
		}

		m.TemplateRenderDuration, err = meter.Float64Histogram(
			"template_render_duration_seconds",
			metric.WithDescription("Duration of template rendering in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create template_render_duration_seconds: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global AppMetrics. Instruments created before a provider
// is installed are no-ops, which keeps tests free of setup.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
