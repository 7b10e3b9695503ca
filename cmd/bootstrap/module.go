package bootstrap

import (
	"venue-offers/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	TracingModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
