package repository

import (
	"context"

	"venue-offers/internal/domain/interaction"
	"venue-offers/internal/infra"
	"venue-offers/internal/infra/db"
	"venue-offers/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
)

type InteractionRepository struct{}

func NewInteractionRepository() *InteractionRepository {
	return &InteractionRepository{}
}

const appendInteractionSQL = `
INSERT INTO interactions (
    id, user_id, opportunity_id, session_id, type,
    context_snapshot, claimed_value, partner_revenue, platform_commission,
    occurred_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

func (r *InteractionRepository) Append(ctx context.Context, dbtx db.DBTX, row *interaction.Interaction) error {
	snapshot, claimedValue, err := encodeInteractionPayloads(row)
	if err != nil {
		return err
	}

	_, err = dbtx.Exec(ctx, appendInteractionSQL,
		row.ID(), row.UserID(), row.OpportunityID(), row.SessionID(), string(row.Kind()),
		snapshot, claimedValue, row.PartnerRevenue(), row.PlatformCommission(),
		row.OccurredAt(), row.UpdatedAt(),
	)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("interaction already recorded", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to append interaction", err)
	}
	return nil
}

// AppendBatch writes impression rows in one round trip. Discovery calls fan
// out several rows at once and must not pay per-row latency.
func (r *InteractionRepository) AppendBatch(ctx context.Context, dbtx db.DBTX, rows []*interaction.Interaction) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		snapshot, claimedValue, err := encodeInteractionPayloads(row)
		if err != nil {
			return err
		}
		batch.Queue(appendInteractionSQL,
			row.ID(), row.UserID(), row.OpportunityID(), row.SessionID(), string(row.Kind()),
			snapshot, claimedValue, row.PartnerRevenue(), row.PlatformCommission(),
			row.OccurredAt(), row.UpdatedAt(),
		)
	}

	sender, ok := dbtx.(interface {
		SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	})
	if !ok {
		for _, row := range rows {
			if err := r.Append(ctx, dbtx, row); err != nil {
				return err
			}
		}
		return nil
	}

	results := sender.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return infra.WrapRepoErr("failed to append interaction batch", err)
		}
	}
	return nil
}

const updateInteractionSQL = `
UPDATE interactions
SET type = $2,
    context_snapshot = $3,
    claimed_value = $4,
    partner_revenue = $5,
    platform_commission = $6,
    updated_at = $7
WHERE id = $1`

func (r *InteractionRepository) Update(ctx context.Context, dbtx db.DBTX, row *interaction.Interaction) error {
	snapshot, claimedValue, err := encodeInteractionPayloads(row)
	if err != nil {
		return err
	}

	tag, err := dbtx.Exec(ctx, updateInteractionSQL,
		row.ID(), string(row.Kind()), snapshot, claimedValue,
		row.PartnerRevenue(), row.PlatformCommission(), row.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update interaction", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("interaction not found", nil, infra.KindNotFound)
	}
	return nil
}

func encodeInteractionPayloads(row *interaction.Interaction) (snapshot, claimedValue []byte, err error) {
	snapshot, err = pgconv.MapToJSON(row.ContextSnapshot())
	if err != nil {
		return nil, nil, infra.WrapRepoErr("failed to encode context snapshot", err)
	}
	// claimed_value stays NULL until acceptance snapshots it.
	if row.ClaimedValue() != nil {
		claimedValue, err = pgconv.MapToJSON(row.ClaimedValue())
		if err != nil {
			return nil, nil, infra.WrapRepoErr("failed to encode claimed value", err)
		}
	}
	return snapshot, claimedValue, nil
}
