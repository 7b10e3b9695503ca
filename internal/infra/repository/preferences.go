package repository

import (
	"context"

	"venue-offers/internal/domain/preferences"
	"venue-offers/internal/infra"
	"venue-offers/internal/infra/db"
	"venue-offers/internal/infra/repository/converter"
)

type PreferencesRepository struct{}

func NewPreferencesRepository() *PreferencesRepository {
	return &PreferencesRepository{}
}

const upsertPreferencesSQL = `
INSERT INTO user_preferences (
    user_id, enabled, frequency_tier, max_per_session, quiet_hours,
    excluded_days, preferred_categories, blocked_categories, blocked_partners,
    max_walking_distance_m, affinity, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (user_id) DO UPDATE SET
    enabled = EXCLUDED.enabled,
    frequency_tier = EXCLUDED.frequency_tier,
    max_per_session = EXCLUDED.max_per_session,
    quiet_hours = EXCLUDED.quiet_hours,
    excluded_days = EXCLUDED.excluded_days,
    preferred_categories = EXCLUDED.preferred_categories,
    blocked_categories = EXCLUDED.blocked_categories,
    blocked_partners = EXCLUDED.blocked_partners,
    max_walking_distance_m = EXCLUDED.max_walking_distance_m,
    affinity = EXCLUDED.affinity,
    updated_at = EXCLUDED.updated_at`

func (r *PreferencesRepository) Upsert(ctx context.Context, dbtx db.DBTX, p *preferences.Preferences) error {
	quietHours, err := converter.QuietWindowsToJSON(p.QuietHours)
	if err != nil {
		return infra.WrapRepoErr("failed to encode quiet hours", err)
	}
	affinity, err := converter.AffinityToJSON(p.Affinity)
	if err != nil {
		return infra.WrapRepoErr("failed to encode affinity", err)
	}

	_, err = dbtx.Exec(ctx, upsertPreferencesSQL,
		p.UserID, p.Enabled, string(p.Tier), p.MaxPerSession, quietHours,
		converter.WeekdaysToInts(p.ExcludedDays),
		converter.CategoriesToStrings(p.PreferredCategories),
		converter.CategoriesToStrings(p.BlockedCategories),
		converter.UUIDsToStrings(p.BlockedPartners),
		p.MaxWalkingDistanceM, affinity, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert preferences", err)
	}
	return nil
}
