package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type OtlpConnConfig struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

func (c OtlpConnConfig) enabled() bool {
	return c.GrpcEndpoint != "" || c.HttpEndpoint != ""
}

type OtlpConfig struct {
	Traces  OtlpConnConfig `json:"traces"`
	Metrics OtlpConnConfig `json:"metrics"`
}

type Config struct {
	Otlp OtlpConfig `json:"otlp"`
}

// Telemetry holds the providers installed by Setup, either may be nil when
// its exporter is not configured.
type Telemetry struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

func (t Telemetry) Shutdown(ctx context.Context) error {
	errlist := []error{}
	if t.TracerProvider != nil {
		err := t.TracerProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	if t.MeterProvider != nil {
		err := t.MeterProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}

// Setup installs global otel providers for the exporters present in config.
// Without any endpoint the global no-op providers stay in place.
func Setup(ctx context.Context, serviceName string, config Config) (Telemetry, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	var out Telemetry
	if !config.Otlp.Traces.enabled() && !config.Otlp.Metrics.enabled() {
		return out, nil
	}

	r, err := newResource(serviceName)
	if err != nil {
		return out, err
	}

	if config.Otlp.Traces.enabled() {
		exporter, err := otlpTracerExportFromConfig(ctx, config.Otlp.Traces)
		if err != nil {
			return out, err
		}
		out.TracerProvider = trace.NewTracerProvider(
			trace.WithBatcher(exporter),
			trace.WithResource(r),
		)
		otel.SetTracerProvider(out.TracerProvider)
	}

	if config.Otlp.Metrics.enabled() {
		exporter, err := otlpMetricExportFromConfig(ctx, config.Otlp.Metrics)
		if err != nil {
			return out, err
		}
		out.MeterProvider = metric.NewMeterProvider(
			metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(time.Second*5))),
			metric.WithResource(r),
		)
		otel.SetMeterProvider(out.MeterProvider)
	}

	return out, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func otlpTracerExportFromConfig(ctx context.Context, c OtlpConnConfig) (trace.SpanExporter, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	if c.GrpcEndpoint != "" {
		slog.Debug("tracer export initialized", "type", "grpc", "endpoint", c.GrpcEndpoint)
		return otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(c.GrpcEndpoint),
			otlptracegrpc.WithHeaders(c.Headers),
		)
	}
	slog.Debug("tracer export initialized", "type", "http", "endpoint", c.HttpEndpoint)
	return otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpointURL(c.HttpEndpoint),
		otlptracehttp.WithHeaders(c.Headers),
	)
}

func otlpMetricExportFromConfig(ctx context.Context, c OtlpConnConfig) (metric.Exporter, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	if c.GrpcEndpoint != "" {
		slog.Debug("metric export initialized", "type", "grpc", "endpoint", c.GrpcEndpoint)
		return otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(c.GrpcEndpoint),
			otlpmetricgrpc.WithHeaders(c.Headers),
		)
	}
	slog.Debug("metric export initialized", "type", "http", "endpoint", c.HttpEndpoint)
	return otlpmetrichttp.New(
		ctx,
		otlpmetrichttp.WithEndpointURL(c.HttpEndpoint),
		otlpmetrichttp.WithHeaders(c.Headers),
	)
}
