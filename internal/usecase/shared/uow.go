package shared

import (
	"context"
	"time"

	"venue-offers/internal/domain/claim"
	"venue-offers/internal/domain/interaction"
	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/domain/partner"
	"venue-offers/internal/domain/preferences"
	"venue-offers/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Opportunities() OpportunityRepository
	Interactions() InteractionRepository
	Claims() ClaimRepository
	Preferences() PreferencesRepository
	Sessions() SessionRepository
	Reads() CommandReads
	DB() db.DBTX
}

// CommandReads are the point lookups write paths re-check before mutating.
type CommandReads interface {
	OpportunityByID(ctx context.Context, id uuid.UUID) (*opportunity.Opportunity, error)
	PartnerByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error)
	SessionByID(ctx context.Context, id uuid.UUID) (*SessionSnapshot, error)
	PreferencesByUser(ctx context.Context, userID uuid.UUID) (*preferences.Preferences, error)
	ClaimByCode(ctx context.Context, code string, partnerID uuid.UUID) (*claim.Claim, error)
	InteractionByID(ctx context.Context, id uuid.UUID) (*interaction.Interaction, error)
	ActiveOpportunityCount(ctx context.Context, partnerID uuid.UUID) (int32, error)
}

type OpportunityRepository interface {
	Create(ctx context.Context, db db.DBTX, o *opportunity.Opportunity) error
	Update(ctx context.Context, db db.DBTX, o *opportunity.Opportunity) error
	Deactivate(ctx context.Context, db db.DBTX, id, partnerID uuid.UUID, now time.Time) (int64, error)
	// TryConsumeCapacity atomically increments used_capacity only while it
	// is still below total_capacity; false means the opportunity sold out.
	TryConsumeCapacity(ctx context.Context, db db.DBTX, id uuid.UUID, now time.Time) (bool, error)
}

type InteractionRepository interface {
	Append(ctx context.Context, db db.DBTX, row *interaction.Interaction) error
	AppendBatch(ctx context.Context, db db.DBTX, rows []*interaction.Interaction) error
	Update(ctx context.Context, db db.DBTX, row *interaction.Interaction) error
}

type ClaimRepository interface {
	Create(ctx context.Context, db db.DBTX, c *claim.Claim) error
	// Redeem marks the claim redeemed only if it has not been redeemed yet;
	// the returned row count implements first-writer-wins.
	Redeem(ctx context.Context, db db.DBTX, code string, partnerID uuid.UUID, now time.Time) (int64, error)
}

type PreferencesRepository interface {
	Upsert(ctx context.Context, db db.DBTX, p *preferences.Preferences) error
}

// SessionRepository is the single mutation this engine performs on the
// external session collaborator.
type SessionRepository interface {
	ExtendExpiry(ctx context.Context, db db.DBTX, sessionID uuid.UUID, minutes int) error
}
