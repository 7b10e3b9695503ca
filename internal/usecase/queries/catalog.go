package queries

import (
	"context"

	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/infra"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/usecase/shared"

	"github.com/google/uuid"
)

// CatalogReadStore serves the partner-facing view of their own records.
type CatalogReadStore interface {
	ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]*opportunity.Opportunity, error)
}

type CatalogQueries interface {
	// GetOwned returns one of the acting partner's opportunities.
	GetOwned(ctx context.Context, actor shared.Actor, id uuid.UUID) (*opportunity.Opportunity, error)
	ListOwned(ctx context.Context, actor shared.Actor) ([]*opportunity.Opportunity, error)
}

type catalogQueriesImpl struct {
	reads   shared.CommandReads
	catalog CatalogReadStore
}

func NewCatalogQueries(reads shared.CommandReads, catalog CatalogReadStore) CatalogQueries {
	return &catalogQueriesImpl{reads: reads, catalog: catalog}
}

func (q *catalogQueriesImpl) GetOwned(ctx context.Context, actor shared.Actor, id uuid.UUID) (*opportunity.Opportunity, error) {
	if actor.Kind != shared.ActorPartner {
		return nil, errs.ErrPartnerForbidden
	}

	opp, err := q.reads.OpportunityByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrOpportunityNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if opp.PartnerID() != actor.PartnerID {
		return nil, errs.ErrPartnerForbidden
	}
	return opp, nil
}

func (q *catalogQueriesImpl) ListOwned(ctx context.Context, actor shared.Actor) ([]*opportunity.Opportunity, error) {
	if actor.Kind != shared.ActorPartner {
		return nil, errs.ErrPartnerForbidden
	}

	list, err := q.catalog.ListByPartner(ctx, actor.PartnerID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return list, nil
}
