package bootstrap

import (
	"context"

	"venue-offers/internal/pkg/config"
	"venue-offers/internal/pkg/tracing"

	"go.uber.org/fx"
)

var TracingModule = fx.Module("tracing",
	fx.Provide(
		NewTracer,
	),
)

func NewTracer(lc fx.Lifecycle, cfg config.Config) (*tracing.Tracer, error) {
	tracer, shutdown, err := tracing.Init(cfg.Tracing)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return shutdown(ctx)
		},
	})

	return tracer, nil
}
