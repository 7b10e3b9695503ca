package tracing

import (
	"context"

	"venue-offers/internal/pkg/config"
	"venue-offers/internal/pkg/errs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type Tracer struct {
	tracer trace.Tracer
}

// Init configures the OpenTelemetry provider with a Jaeger exporter.
// When tracing is disabled a no-op tracer is returned so call sites
// never have to branch.
func Init(cfg config.TracingConfig) (*Tracer, func(context.Context) error, error) {
	if !cfg.Enabled {
		noopShutdown := func(context.Context) error { return nil }
		return &Tracer{tracer: noop.NewTracerProvider().Tracer("noop")}, noopShutdown, nil
	}

	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.Endpoint)))
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to create Jaeger exporter")
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.DeploymentEnvironmentKey.String(cfg.Environment),
		),
	)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to create tracing resource")
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Tracer{tracer: otel.Tracer(cfg.ServiceName)}, tp.Shutdown, nil
}

func (t *Tracer) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}
