package readstore

import (
	"context"
	"time"

	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/infra"
	"venue-offers/internal/infra/db"
	"venue-offers/internal/pkg/geo"
)

type CandidateReadStore struct {
	dbtx db.DBTX
}

func NewCandidateReadStore(dbtx db.DBTX) *CandidateReadStore {
	return &CandidateReadStore{dbtx: dbtx}
}

// The SQL applies only the cheap catalog cuts. Per-user suppression, trigger
// rules and scoring run in process where they are testable.
const findCandidatesSQL = `
SELECT` + opportunityColumns + `
FROM opportunities
WHERE active = TRUE
  AND approved = TRUE
  AND valid_from <= $1
  AND valid_until >= $1
  AND (total_capacity IS NULL OR used_capacity < total_capacity)
  AND ($2::boolean IS FALSE
       OR latitude IS NULL
       OR (latitude BETWEEN $3 AND $4 AND longitude BETWEEN $5 AND $6))
ORDER BY priority DESC, id`

func (r *CandidateReadStore) FindCandidates(ctx context.Context, at time.Time, box *geo.BoundingBox) ([]*opportunity.Opportunity, error) {
	var (
		boxed                  bool
		minLat, maxLat         float64
		minLng, maxLng         float64
	)
	if box != nil {
		boxed = true
		minLat, maxLat = box.MinLat, box.MaxLat
		minLng, maxLng = box.MinLng, box.MaxLng
	}

	rows, err := r.dbtx.Query(ctx, findCandidatesSQL, at, boxed, minLat, maxLat, minLng, maxLng)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query candidate opportunities", err)
	}
	defer rows.Close()

	var candidates []*opportunity.Opportunity
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan candidate opportunity", err)
		}
		candidates = append(candidates, opp)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read candidate opportunities", err)
	}
	return candidates, nil
}
