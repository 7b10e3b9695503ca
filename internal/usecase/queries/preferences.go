package queries

import (
	"context"

	"venue-offers/internal/domain/preferences"
	"venue-offers/internal/infra"
	"venue-offers/internal/pkg/clock"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/usecase/shared"

	"github.com/google/uuid"
)

type PreferenceQueries interface {
	// Get returns the caller's preference record, creating it with defaults
	// on first access.
	Get(ctx context.Context, userID uuid.UUID) (*preferences.Preferences, error)
}

type preferenceQueriesImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewPreferenceQueries(uow shared.UnitOfWork, clk clock.Clock) PreferenceQueries {
	return &preferenceQueriesImpl{uow: uow, clock: clk}
}

func (q *preferenceQueriesImpl) Get(ctx context.Context, userID uuid.UUID) (*preferences.Preferences, error) {
	prefs, err := q.uow.CommandReads().PreferencesByUser(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	prefs = preferences.Default(userID, q.clock.Now())
	err = q.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Preferences().Upsert(ctx, tx.DB(), prefs)
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return prefs, nil
}
