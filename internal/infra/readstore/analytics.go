package readstore

import (
	"context"
	"time"

	"venue-offers/internal/infra"
	"venue-offers/internal/infra/db"
	"venue-offers/internal/usecase/queries"

	"github.com/google/uuid"
)

type AnalyticsReadStore struct {
	dbtx db.DBTX
}

func NewAnalyticsReadStore(dbtx db.DBTX) *AnalyticsReadStore {
	return &AnalyticsReadStore{dbtx: dbtx}
}

// Completed rows started life as accepted rows, so they still count as claims.
const engagementStatsSQL = `
SELECT
    COUNT(DISTINCT i.user_id),
    COUNT(*) FILTER (WHERE i.type = 'impressed'),
    COUNT(*) FILTER (WHERE i.type = 'viewed'),
    COUNT(*) FILTER (WHERE i.type IN ('accepted', 'completed')),
    COUNT(*) FILTER (WHERE i.type = 'completed')
FROM interactions i
JOIN opportunities o ON o.id = i.opportunity_id
WHERE o.partner_id = $1
  AND i.occurred_at >= $2
  AND i.occurred_at < $3`

func (r *AnalyticsReadStore) EngagementStats(ctx context.Context, partnerID uuid.UUID, from, to time.Time) (*queries.EngagementStats, error) {
	var stats queries.EngagementStats
	err := r.dbtx.QueryRow(ctx, engagementStatsSQL, partnerID, from, to).Scan(
		&stats.UniqueUsers, &stats.Impressions, &stats.Views, &stats.Claims, &stats.Redemptions,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query engagement stats", err)
	}
	return &stats, nil
}

const valueStatsSQL = `
SELECT
    COALESCE(AVG(i.partner_revenue), 0),
    COALESCE(SUM(i.partner_revenue), 0),
    COALESCE(SUM(i.platform_commission), 0)
FROM interactions i
JOIN opportunities o ON o.id = i.opportunity_id
WHERE o.partner_id = $1
  AND i.type = 'completed'
  AND i.partner_revenue IS NOT NULL
  AND i.updated_at >= $2
  AND i.updated_at < $3`

func (r *AnalyticsReadStore) ValueStats(ctx context.Context, partnerID uuid.UUID, from, to time.Time) (*queries.ValueStats, error) {
	var stats queries.ValueStats
	err := r.dbtx.QueryRow(ctx, valueStatsSQL, partnerID, from, to).Scan(
		&stats.AverageTransaction, &stats.GrossRevenue, &stats.PlatformFee,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query value stats", err)
	}
	stats.NetRevenue = stats.GrossRevenue - stats.PlatformFee
	return &stats, nil
}
