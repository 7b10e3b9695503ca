package repository

import (
	"context"
	"time"

	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/infra"
	"venue-offers/internal/infra/db"
	"venue-offers/internal/infra/repository/converter"
	"venue-offers/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type OpportunityRepository struct{}

func NewOpportunityRepository() *OpportunityRepository {
	return &OpportunityRepository{}
}

const createOpportunitySQL = `
INSERT INTO opportunities (
    id, partner_id, title, proposition, category, trigger_rules,
    valid_from, valid_until, total_capacity, used_capacity, value_details,
    latitude, longitude, max_impressions_per_user, cooldown_hours, priority,
    active, approved, created_at, updated_at
) VALUES (
    $1, $2, $3, $4, $5, $6,
    $7, $8, $9, $10, $11,
    $12, $13, $14, $15, $16,
    $17, $18, $19, $20
)`

func (r *OpportunityRepository) Create(ctx context.Context, dbtx db.DBTX, o *opportunity.Opportunity) error {
	triggerRules, err := pgconv.MapToJSON(o.TriggerRules())
	if err != nil {
		return infra.WrapRepoErr("failed to encode trigger rules", err)
	}
	valueDetails, err := pgconv.MapToJSON(o.ValueDetails())
	if err != nil {
		return infra.WrapRepoErr("failed to encode value details", err)
	}
	lat, lng := converter.PointToColumns(o.Location())

	_, err = dbtx.Exec(ctx, createOpportunitySQL,
		o.ID(), o.PartnerID(), o.Title(), o.Proposition(), string(o.Category()), triggerRules,
		o.ValidFrom(), o.ValidUntil(), o.TotalCapacity(), o.UsedCapacity(), valueDetails,
		lat, lng, o.MaxImpressionsPerUser(), o.CooldownHours(), o.Priority(),
		o.IsActive(), o.IsApproved(), o.CreatedAt(), o.UpdatedAt(),
	)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("opportunity already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create opportunity", err)
	}
	return nil
}

const updateOpportunitySQL = `
UPDATE opportunities
SET title = $2,
    proposition = $3,
    category = $4,
    trigger_rules = $5,
    valid_from = $6,
    valid_until = $7,
    total_capacity = $8,
    value_details = $9,
    latitude = $10,
    longitude = $11,
    max_impressions_per_user = $12,
    cooldown_hours = $13,
    priority = $14,
    active = $15,
    updated_at = $16
WHERE id = $1`

func (r *OpportunityRepository) Update(ctx context.Context, dbtx db.DBTX, o *opportunity.Opportunity) error {
	triggerRules, err := pgconv.MapToJSON(o.TriggerRules())
	if err != nil {
		return infra.WrapRepoErr("failed to encode trigger rules", err)
	}
	valueDetails, err := pgconv.MapToJSON(o.ValueDetails())
	if err != nil {
		return infra.WrapRepoErr("failed to encode value details", err)
	}
	lat, lng := converter.PointToColumns(o.Location())

	tag, err := dbtx.Exec(ctx, updateOpportunitySQL,
		o.ID(), o.Title(), o.Proposition(), string(o.Category()), triggerRules,
		o.ValidFrom(), o.ValidUntil(), o.TotalCapacity(), valueDetails,
		lat, lng, o.MaxImpressionsPerUser(), o.CooldownHours(), o.Priority(),
		o.IsActive(), o.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update opportunity", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("opportunity not found", nil, infra.KindNotFound)
	}
	return nil
}

const deactivateOpportunitySQL = `
UPDATE opportunities
SET active = FALSE, updated_at = $3
WHERE id = $1 AND partner_id = $2 AND active = TRUE`

func (r *OpportunityRepository) Deactivate(ctx context.Context, dbtx db.DBTX, id, partnerID uuid.UUID, now time.Time) (int64, error) {
	tag, err := dbtx.Exec(ctx, deactivateOpportunitySQL, id, partnerID, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to deactivate opportunity", err)
	}
	return tag.RowsAffected(), nil
}

// The WHERE clause enforces the capacity ceiling atomically; concurrent
// acceptances race on the row lock and the loser sees zero rows affected.
const consumeCapacitySQL = `
UPDATE opportunities
SET used_capacity = used_capacity + 1, updated_at = $2
WHERE id = $1
  AND total_capacity IS NOT NULL
  AND used_capacity < total_capacity`

func (r *OpportunityRepository) TryConsumeCapacity(ctx context.Context, dbtx db.DBTX, id uuid.UUID, now time.Time) (bool, error) {
	tag, err := dbtx.Exec(ctx, consumeCapacitySQL, id, now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to consume opportunity capacity", err)
	}
	return tag.RowsAffected() > 0, nil
}
