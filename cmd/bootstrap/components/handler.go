package components

import (
	"venue-offers/internal/handler"
	"venue-offers/internal/handler/api"
	"venue-offers/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewOffersHandler,
		api.NewPreferencesHandler,
		api.NewPartnerOpportunitiesHandler,
		api.NewPartnerClaimsHandler,
		middleware.NewAuthMiddleware,
		middleware.NewPartnerAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
