package repository

import (
	"context"
	"fmt"

	"venue-offers/internal/infra"
	"venue-offers/internal/infra/db"

	"github.com/google/uuid"
)

// SessionRepository performs the one write this engine makes against the
// session collaborator's table: pushing out the expiry when an accepted
// offer grants parking extension minutes.
type SessionRepository struct{}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

const extendSessionSQL = `
UPDATE parking_sessions
SET expires_at = expires_at + $2::interval
WHERE id = $1`

func (r *SessionRepository) ExtendExpiry(ctx context.Context, dbtx db.DBTX, sessionID uuid.UUID, minutes int) error {
	if minutes <= 0 {
		return nil
	}

	tag, err := dbtx.Exec(ctx, extendSessionSQL, sessionID, fmt.Sprintf("%d minutes", minutes))
	if err != nil {
		return infra.WrapRepoErr("failed to extend session expiry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("session not found", nil, infra.KindNotFound)
	}
	return nil
}
