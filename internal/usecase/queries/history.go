package queries

import (
	"context"

	"venue-offers/internal/domain/interaction"
	"venue-offers/internal/pkg/errs"

	"github.com/google/uuid"
)

type HistoryQueries interface {
	// ListByUser returns the caller's past interactions newest-first with
	// keyset pagination, optionally filtered by interaction type.
	ListByUser(ctx context.Context, userID uuid.UUID, status *interaction.Type, after *Cursor, limit int) ([]*InteractionListItem, *Cursor, error)
}

type historyQueriesImpl struct {
	ledger LedgerReadStore
}

func NewHistoryQueries(ledger LedgerReadStore) HistoryQueries {
	return &historyQueriesImpl{ledger: ledger}
}

func (q *historyQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, status *interaction.Type, after *Cursor, limit int) ([]*InteractionListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	var items []*InteractionListItem
	var err error

	if after == nil || after.After == "" {
		items, err = q.ledger.HistoryFirstPage(ctx, userID, status, int32(limit))
	} else {
		lastOccurredAt, lastID, decodeErr := DecodeAfterCursor(after.After)
		if decodeErr != nil {
			return nil, nil, errs.Wrap(decodeErr, "invalid history cursor")
		}
		items, err = q.ledger.HistoryKeyset(ctx, userID, status, lastOccurredAt, lastID, int32(limit))
	}
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	var next *Cursor
	if len(items) == limit {
		last := items[len(items)-1]
		next = &Cursor{After: EncodeAfterCursor(last.OccurredAt, last.ID)}
	}
	return items, next, nil
}
