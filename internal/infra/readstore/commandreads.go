// Package readstore holds the query side: point lookups re-checked by write
// paths, and the denormalized reads behind discovery, history and analytics.
package readstore

import (
	"context"
	"time"

	"venue-offers/internal/domain/claim"
	"venue-offers/internal/domain/interaction"
	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/domain/partner"
	"venue-offers/internal/domain/preferences"
	"venue-offers/internal/infra"
	"venue-offers/internal/infra/db"
	"venue-offers/internal/infra/repository/converter"
	"venue-offers/internal/pkg/pgconv"
	"venue-offers/internal/usecase/shared"

	"github.com/google/uuid"
)

const opportunityColumns = `
    id, partner_id, title, proposition, category, trigger_rules,
    valid_from, valid_until, total_capacity, used_capacity, value_details,
    latitude, longitude, max_impressions_per_user, cooldown_hours, priority,
    active, approved, created_at, updated_at`

const opportunityByIDSQL = `
SELECT` + opportunityColumns + `
FROM opportunities
WHERE id = $1`

func OpportunityByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*opportunity.Opportunity, error) {
	row := dbtx.QueryRow(ctx, opportunityByIDSQL, id)
	opp, err := scanOpportunity(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("opportunity not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get opportunity", err)
	}
	return opp, nil
}

const partnerByIDSQL = `
SELECT id, name, contact_email, latitude, longitude, credential_hash,
       commission_rate, auto_approve, opportunity_quota, active,
       created_at, updated_at
FROM partners
WHERE id = $1`

func PartnerByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*partner.Partner, error) {
	var (
		rowID            uuid.UUID
		name             string
		contactEmail     string
		lat, lng         *float64
		credentialHash   string
		commissionRate   float64
		autoApprove      bool
		opportunityQuota int32
		active           bool
		createdAt        time.Time
		updatedAt        time.Time
	)

	err := dbtx.QueryRow(ctx, partnerByIDSQL, id).Scan(
		&rowID, &name, &contactEmail, &lat, &lng, &credentialHash,
		&commissionRate, &autoApprove, &opportunityQuota, &active,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("partner not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get partner", err)
	}

	return partner.Reconstruct(
		rowID, name, contactEmail, converter.ColumnsToPoint(lat, lng),
		credentialHash, commissionRate, autoApprove, opportunityQuota, active,
		createdAt, updatedAt,
	), nil
}

const sessionByIDSQL = `
SELECT id, owner_id, started_at, expires_at, total_price, latitude, longitude
FROM parking_sessions
WHERE id = $1`

func SessionByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.SessionSnapshot, error) {
	var (
		rowID      uuid.UUID
		ownerID    *uuid.UUID
		startedAt  time.Time
		expiresAt  time.Time
		totalPrice float64
		lat, lng   *float64
	)

	err := dbtx.QueryRow(ctx, sessionByIDSQL, id).Scan(
		&rowID, &ownerID, &startedAt, &expiresAt, &totalPrice, &lat, &lng,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get session", err)
	}

	return &shared.SessionSnapshot{
		ID:         rowID,
		OwnerID:    ownerID,
		StartedAt:  startedAt,
		ExpiresAt:  expiresAt,
		TotalPrice: totalPrice,
		Location:   converter.ColumnsToPoint(lat, lng),
	}, nil
}

const preferencesByUserSQL = `
SELECT user_id, enabled, frequency_tier, max_per_session, quiet_hours,
       excluded_days, preferred_categories, blocked_categories, blocked_partners,
       max_walking_distance_m, affinity, created_at, updated_at
FROM user_preferences
WHERE user_id = $1`

func PreferencesByUser(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) (*preferences.Preferences, error) {
	var (
		rowUserID           uuid.UUID
		enabled             bool
		tier                string
		maxPerSession       int32
		quietHours          []byte
		excludedDays        []int32
		preferredCategories []string
		blockedCategories   []string
		blockedPartners     []string
		maxWalkingDistance  float64
		affinity            []byte
		createdAt           time.Time
		updatedAt           time.Time
	)

	err := dbtx.QueryRow(ctx, preferencesByUserSQL, userID).Scan(
		&rowUserID, &enabled, &tier, &maxPerSession, &quietHours,
		&excludedDays, &preferredCategories, &blockedCategories, &blockedPartners,
		&maxWalkingDistance, &affinity, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("preferences not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get preferences", err)
	}

	windows, err := converter.JSONToQuietWindows(quietHours)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode quiet hours", err)
	}
	affinityMap, err := converter.JSONToAffinity(affinity)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode affinity", err)
	}
	partnerIDs, err := converter.StringsToUUIDs(blockedPartners)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode blocked partners", err)
	}

	return &preferences.Preferences{
		UserID:              rowUserID,
		Enabled:             enabled,
		Tier:                preferences.FrequencyTier(tier),
		MaxPerSession:       maxPerSession,
		QuietHours:          windows,
		ExcludedDays:        converter.IntsToWeekdays(excludedDays),
		PreferredCategories: converter.StringsToCategories(preferredCategories),
		BlockedCategories:   converter.StringsToCategories(blockedCategories),
		BlockedPartners:     partnerIDs,
		MaxWalkingDistanceM: maxWalkingDistance,
		Affinity:            affinityMap,
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
	}, nil
}

const claimByCodeSQL = `
SELECT code, partner_id, interaction_id, opportunity_id, user_id,
       issued_at, expires_at, redeemed_at
FROM claim_codes
WHERE code = $1 AND partner_id = $2`

// ClaimByCode is partner-scoped: a code presented at the wrong partner is
// indistinguishable from an unknown code.
func ClaimByCode(ctx context.Context, dbtx db.DBTX, code string, partnerID uuid.UUID) (*claim.Claim, error) {
	var (
		rowCode       string
		rowPartnerID  uuid.UUID
		interactionID uuid.UUID
		opportunityID uuid.UUID
		userID        uuid.UUID
		issuedAt      time.Time
		expiresAt     time.Time
		redeemedAt    *time.Time
	)

	err := dbtx.QueryRow(ctx, claimByCodeSQL, code, partnerID).Scan(
		&rowCode, &rowPartnerID, &interactionID, &opportunityID, &userID,
		&issuedAt, &expiresAt, &redeemedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("claim not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get claim", err)
	}

	return claim.Reconstruct(
		rowCode, interactionID, opportunityID, rowPartnerID, userID,
		issuedAt, expiresAt, redeemedAt,
	), nil
}

const interactionColumns = `
    id, user_id, opportunity_id, session_id, type,
    context_snapshot, claimed_value, partner_revenue, platform_commission,
    occurred_at, updated_at`

const interactionByIDSQL = `
SELECT` + interactionColumns + `
FROM interactions
WHERE id = $1`

func InteractionByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*interaction.Interaction, error) {
	row := dbtx.QueryRow(ctx, interactionByIDSQL, id)
	rec, err := scanInteraction(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("interaction not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get interaction", err)
	}
	return rec, nil
}

const activeOpportunityCountSQL = `
SELECT COUNT(*)
FROM opportunities
WHERE partner_id = $1 AND active = TRUE`

func ActiveOpportunityCount(ctx context.Context, dbtx db.DBTX, partnerID uuid.UUID) (int32, error) {
	var count int64
	if err := dbtx.QueryRow(ctx, activeOpportunityCountSQL, partnerID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count active opportunities", err)
	}
	return int32(count), nil
}
