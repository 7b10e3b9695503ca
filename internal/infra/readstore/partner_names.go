package readstore

import (
	"context"

	"venue-offers/internal/infra"
	"venue-offers/internal/infra/db"

	"github.com/google/uuid"
)

type PartnerNameReadStore struct {
	dbtx db.DBTX
}

func NewPartnerNameReadStore(dbtx db.DBTX) *PartnerNameReadStore {
	return &PartnerNameReadStore{dbtx: dbtx}
}

const namesByIDsSQL = `
SELECT id, name
FROM partners
WHERE id = ANY($1)`

func (r *PartnerNameReadStore) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := map[uuid.UUID]string{}
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := r.dbtx.Query(ctx, namesByIDsSQL, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query partner names", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, infra.WrapRepoErr("failed to scan partner name", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read partner names", err)
	}
	return names, nil
}
