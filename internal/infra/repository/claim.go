package repository

import (
	"context"
	"time"

	"venue-offers/internal/domain/claim"
	"venue-offers/internal/infra"
	"venue-offers/internal/infra/db"

	"github.com/google/uuid"
)

type ClaimRepository struct{}

func NewClaimRepository() *ClaimRepository {
	return &ClaimRepository{}
}

const createClaimSQL = `
INSERT INTO claim_codes (
    code, partner_id, interaction_id, opportunity_id, user_id,
    issued_at, expires_at, redeemed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (partner_id, code) DO NOTHING`

// Create surfaces code collisions as KindDuplicateKey via the conflict clause
// instead of a failed statement; a unique-violation error would abort the
// enclosing transaction and no retry could run on it.
func (r *ClaimRepository) Create(ctx context.Context, dbtx db.DBTX, c *claim.Claim) error {
	tag, err := dbtx.Exec(ctx, createClaimSQL,
		c.Code(), c.PartnerID(), c.InteractionID(), c.OpportunityID(), c.UserID(),
		c.IssuedAt(), c.ExpiresAt(), c.RedeemedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create claim", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("claim code already issued", nil, infra.KindDuplicateKey)
	}
	return nil
}

const redeemClaimSQL = `
UPDATE claim_codes
SET redeemed_at = $3
WHERE code = $1 AND partner_id = $2 AND redeemed_at IS NULL`

// Redeem is first-writer-wins: a second completion attempt matches no rows.
func (r *ClaimRepository) Redeem(ctx context.Context, dbtx db.DBTX, code string, partnerID uuid.UUID, now time.Time) (int64, error) {
	tag, err := dbtx.Exec(ctx, redeemClaimSQL, code, partnerID, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to redeem claim", err)
	}
	return tag.RowsAffected(), nil
}
