// Package metrics wires OpenTelemetry instruments exported over OTLP/HTTP.
package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/venky2821/finalproject/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// AppMetrics holds all application instruments.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestsErrors  metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	// Business
	OrderTransitions  metric.Int64Counter
	UnitsReserved     metric.Int64Counter
	ProductsRestocked metric.Int64Counter
	EmailsSent        metric.Int64Counter
	EmailsFailed      metric.Int64Counter

	// Cache
	CacheHits   metric.Int64Counter
	CacheMisses metric.Int64Counter

	serviceName string
}

// InitMetrics builds the meter provider, installs it globally and creates
// the application instruments. The caller owns the provider's Shutdown.
func InitMetrics(ctx context.Context, cfg *config.Config) (*AppMetrics, *sdkmetric.MeterProvider, error) {
	envRes, err := resource.New(ctx, resource.WithFromEnv())
	if err != nil {
		envRes = resource.Empty()
	}
	explicitRes, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.OTELServiceName),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create explicit resource: %w", err)
	}
	res, err := resource.Merge(envRes, explicitRes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to merge resources: %w", err)
	}

	// WithEndpoint expects host:port, no scheme.
	exporterOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetrichttp.WithURLPath("/v1/metrics"),
	}
	if cfg.OTLPHeaders != "" {
		exporterOpts = append(exporterOpts, otlpmetrichttp.WithHeaders(parseHeaders(cfg.OTLPHeaders)))
	}
	if cfg.OTLPInsecure {
		exporterOpts = append(exporterOpts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	interval := time.Duration(cfg.MetricsIntervalS) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(meterProvider)

	m, err := New(meterProvider.Meter(cfg.OTELServiceName), cfg.OTELServiceName)
	if err != nil {
		return nil, nil, err
	}
	return m, meterProvider, nil
}

// NewNoop returns instruments that record nothing. Used when metrics are
// disabled and in tests.
func NewNoop() *AppMetrics {
	m, _ := New(noop.NewMeterProvider().Meter("noop"), "noop")
	return m
}

// New creates every instrument on meter.
func New(meter metric.Meter, serviceName string) (*AppMetrics, error) {
	// SigNoz default buckets in milliseconds, up to 60s
	buckets := []float64{2, 4, 6, 8, 10, 50, 100, 200, 400, 800, 1000, 1400, 2000, 5000, 10000, 15000, 20000, 30000, 45000, 60000}

	m := &AppMetrics{serviceName: serviceName}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http requests counter: %w", err)
	}
	if m.HTTPRequestsErrors, err = meter.Int64Counter(
		"http.server.request.error.count",
		metric.WithDescription("Total number of HTTP error requests"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http errors counter: %w", err)
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(buckets...),
	); err != nil {
		return nil, fmt.Errorf("failed to create http duration histogram: %w", err)
	}

	if m.OrderTransitions, err = meter.Int64Counter(
		"order_transitions_total",
		metric.WithDescription("Order lifecycle events by name"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create order transitions counter: %w", err)
	}
	if m.UnitsReserved, err = meter.Int64Counter(
		"units_reserved_total",
		metric.WithDescription("Product units moved into reserved stock"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create units reserved counter: %w", err)
	}
	if m.ProductsRestocked, err = meter.Int64Counter(
		"products_restocked_total",
		metric.WithDescription("Products raised by the restock task"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create restock counter: %w", err)
	}
	if m.EmailsSent, err = meter.Int64Counter(
		"emails_sent_total",
		metric.WithDescription("Emails delivered over SMTP"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create emails sent counter: %w", err)
	}
	if m.EmailsFailed, err = meter.Int64Counter(
		"emails_failed_total",
		metric.WithDescription("Emails parked in the dead letter queue"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create emails failed counter: %w", err)
	}

	if m.CacheHits, err = meter.Int64Counter(
		"cache_hits_total",
		metric.WithDescription("Total number of cache hits"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cache hits counter: %w", err)
	}
	if m.CacheMisses, err = meter.Int64Counter(
		"cache_misses_total",
		metric.WithDescription("Total number of cache misses"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cache misses counter: %w", err)
	}
	return m, nil
}

// WithServiceName adds service.name to attributes.
func (m *AppMetrics) WithServiceName(attrs []attribute.KeyValue) []attribute.KeyValue {
	return append(attrs, attribute.String("service.name", m.serviceName))
}

func (m *AppMetrics) RecordOrderEvent(ctx context.Context, event string) {
	if m == nil {
		return
	}
	m.OrderTransitions.Add(ctx, 1, metric.WithAttributes(m.WithServiceName([]attribute.KeyValue{
		attribute.String("order.event", event),
	})...))
}

func (m *AppMetrics) RecordReserved(ctx context.Context, units int) {
	if m == nil {
		return
	}
	m.UnitsReserved.Add(ctx, int64(units), metric.WithAttributes(m.WithServiceName(nil)...))
}

func (m *AppMetrics) RecordRestock(ctx context.Context, product string) {
	if m == nil {
		return
	}
	m.ProductsRestocked.Add(ctx, 1, metric.WithAttributes(m.WithServiceName([]attribute.KeyValue{
		attribute.String("product.name", product),
	})...))
}

func (m *AppMetrics) RecordEmail(ctx context.Context, sent bool) {
	if m == nil {
		return
	}
	if sent {
		m.EmailsSent.Add(ctx, 1, metric.WithAttributes(m.WithServiceName(nil)...))
		return
	}
	m.EmailsFailed.Add(ctx, 1, metric.WithAttributes(m.WithServiceName(nil)...))
}

func (m *AppMetrics) RecordCache(ctx context.Context, cache string, hit bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(m.WithServiceName([]attribute.KeyValue{
		attribute.String("cache.name", cache),
	})...)
	if hit {
		m.CacheHits.Add(ctx, 1, attrs)
		return
	}
	m.CacheMisses.Add(ctx, 1, attrs)
}

// parseHeaders parses "key1=value1,key2=value2".
func parseHeaders(headerStr string) map[string]string {
	headers := make(map[string]string)
	for _, pair := range strings.Split(headerStr, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) == 2 {
			headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return headers
}
