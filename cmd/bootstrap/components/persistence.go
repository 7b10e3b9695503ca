package components

import (
	"venue-offers/internal/infra/db"
	"venue-offers/internal/infra/readstore"
	"venue-offers/internal/infra/uow"
	"venue-offers/internal/usecase/queries"
	"venue-offers/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	uowModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewCandidateReadStore,
			fx.As(new(queries.CandidateReadStore)),
		),
		fx.Annotate(
			readstore.NewLedgerReadStore,
			fx.As(new(queries.LedgerReadStore)),
		),
		fx.Annotate(
			readstore.NewAnalyticsReadStore,
			fx.As(new(queries.AnalyticsReadStore)),
		),
		fx.Annotate(
			readstore.NewPartnerNameReadStore,
			fx.As(new(queries.PartnerNameReadStore)),
		),
		fx.Annotate(
			readstore.NewCatalogReadStore,
			fx.As(new(queries.CatalogReadStore)),
		),
	),
)

var uowModule = fx.Module("persistence/uow",
	fx.Provide(
		uow.NewPostgresUoW,
		// Command-side point lookups outside transactions share the pool.
		func(u shared.UnitOfWork) shared.CommandReads {
			return u.CommandReads()
		},
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
