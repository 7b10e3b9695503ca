package components

import (
	"venue-offers/internal/pkg/clock"
	"venue-offers/internal/usecase"
	"venue-offers/internal/usecase/commands"
	"venue-offers/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewRedemptionCommands,
		commands.NewClaimCommands,
		commands.NewOpportunityCommands,
		commands.NewPreferenceCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewDiscoveryQueries,
		queries.NewHistoryQueries,
		queries.NewAnalyticsQueries,
		queries.NewPreferenceQueries,
		queries.NewCatalogQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
		usecase.NewPartnerAuthenticator,
	),
)
