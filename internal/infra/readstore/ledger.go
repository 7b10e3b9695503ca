package readstore

import (
	"context"
	"time"

	"venue-offers/internal/domain/interaction"
	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/domain/scoring"
	"venue-offers/internal/infra"
	"venue-offers/internal/infra/db"
	"venue-offers/internal/usecase/queries"

	"github.com/google/uuid"
)

// affinitySampleSize bounds the recent accepted/completed rows feeding the
// affinity mix so long-lived accounts do not fossilize early tastes.
const affinitySampleSize = 50

type LedgerReadStore struct {
	dbtx db.DBTX
}

func NewLedgerReadStore(dbtx db.DBTX) *LedgerReadStore {
	return &LedgerReadStore{dbtx: dbtx}
}

const cooldownAnchorsSQL = `
SELECT opportunity_id, MAX(occurred_at)
FROM interactions
WHERE user_id = $1 AND type IN ('dismissed', 'accepted')
GROUP BY opportunity_id`

const impressionCountsSQL = `
SELECT opportunity_id, COUNT(*)
FROM interactions
WHERE user_id = $1 AND type = 'impressed'
GROUP BY opportunity_id`

const affinitySampleSQL = `
SELECT o.category, o.partner_id
FROM interactions i
JOIN opportunities o ON o.id = i.opportunity_id
WHERE i.user_id = $1 AND i.type IN ('accepted', 'completed')
ORDER BY i.occurred_at DESC
LIMIT $2`

func (r *LedgerReadStore) ActivityForUser(ctx context.Context, userID uuid.UUID, now time.Time) (*scoring.LedgerActivity, error) {
	activity := &scoring.LedgerActivity{
		LastDismissedOrAccepted: map[uuid.UUID]time.Time{},
		Impressions:             map[uuid.UUID]int{},
		AffinityByCategory:      map[opportunity.Category]int{},
		AffinityByPartner:       map[uuid.UUID]int{},
	}

	rows, err := r.dbtx.Query(ctx, cooldownAnchorsSQL, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query cooldown anchors", err)
	}
	defer rows.Close()
	for rows.Next() {
		var oppID uuid.UUID
		var at time.Time
		if err := rows.Scan(&oppID, &at); err != nil {
			return nil, infra.WrapRepoErr("failed to scan cooldown anchor", err)
		}
		activity.LastDismissedOrAccepted[oppID] = at
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read cooldown anchors", err)
	}

	rows, err = r.dbtx.Query(ctx, impressionCountsSQL, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query impression counts", err)
	}
	defer rows.Close()
	for rows.Next() {
		var oppID uuid.UUID
		var count int64
		if err := rows.Scan(&oppID, &count); err != nil {
			return nil, infra.WrapRepoErr("failed to scan impression count", err)
		}
		activity.Impressions[oppID] = int(count)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read impression counts", err)
	}

	rows, err = r.dbtx.Query(ctx, affinitySampleSQL, userID, affinitySampleSize)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query affinity sample", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var partnerID uuid.UUID
		if err := rows.Scan(&category, &partnerID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan affinity sample", err)
		}
		activity.AffinityTotal++
		activity.AffinityByCategory[opportunity.Category(category)]++
		activity.AffinityByPartner[partnerID]++
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read affinity sample", err)
	}

	return activity, nil
}

const historyFirstPageSQL = `
SELECT i.id, i.opportunity_id, o.title, i.session_id, i.type, i.occurred_at
FROM interactions i
JOIN opportunities o ON o.id = i.opportunity_id
WHERE i.user_id = $1
  AND ($2::text IS NULL OR i.type = $2)
ORDER BY i.occurred_at DESC, i.id DESC
LIMIT $3`

const historyKeysetSQL = `
SELECT i.id, i.opportunity_id, o.title, i.session_id, i.type, i.occurred_at
FROM interactions i
JOIN opportunities o ON o.id = i.opportunity_id
WHERE i.user_id = $1
  AND ($2::text IS NULL OR i.type = $2)
  AND (i.occurred_at, i.id) < ($3, $4)
ORDER BY i.occurred_at DESC, i.id DESC
LIMIT $5`

func (r *LedgerReadStore) HistoryFirstPage(ctx context.Context, userID uuid.UUID, status *interaction.Type, limit int32) ([]*queries.InteractionListItem, error) {
	rows, err := r.dbtx.Query(ctx, historyFirstPageSQL, userID, statusParam(status), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query interaction history", err)
	}
	defer rows.Close()
	return collectHistory(rows)
}

func (r *LedgerReadStore) HistoryKeyset(ctx context.Context, userID uuid.UUID, status *interaction.Type, lastOccurredAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.InteractionListItem, error) {
	rows, err := r.dbtx.Query(ctx, historyKeysetSQL, userID, statusParam(status), lastOccurredAt, lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query interaction history page", err)
	}
	defer rows.Close()
	return collectHistory(rows)
}

func statusParam(status *interaction.Type) *string {
	if status == nil {
		return nil
	}
	s := string(*status)
	return &s
}

func collectHistory(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*queries.InteractionListItem, error) {
	items := []*queries.InteractionListItem{}
	for rows.Next() {
		var item queries.InteractionListItem
		if err := rows.Scan(&item.ID, &item.OpportunityID, &item.OpportunityTitle, &item.SessionID, &item.Type, &item.OccurredAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan interaction history row", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read interaction history", err)
	}
	return items, nil
}
