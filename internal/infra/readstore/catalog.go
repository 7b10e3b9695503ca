package readstore

import (
	"context"

	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/infra"
	"venue-offers/internal/infra/db"

	"github.com/google/uuid"
)

type CatalogReadStore struct {
	dbtx db.DBTX
}

func NewCatalogReadStore(dbtx db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{dbtx: dbtx}
}

const listByPartnerSQL = `
SELECT` + opportunityColumns + `
FROM opportunities
WHERE partner_id = $1
ORDER BY created_at DESC, id`

func (r *CatalogReadStore) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]*opportunity.Opportunity, error) {
	rows, err := r.dbtx.Query(ctx, listByPartnerSQL, partnerID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query partner opportunities", err)
	}
	defer rows.Close()

	list := []*opportunity.Opportunity{}
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan partner opportunity", err)
		}
		list = append(list, opp)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read partner opportunities", err)
	}
	return list, nil
}
