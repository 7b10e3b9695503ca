package interaction

import (
	"time"

	"github.com/google/uuid"
)

// Reserved keys inside the context snapshot map.
const (
	SnapshotKeyClaimCode        = "claim_code"
	SnapshotKeyMinutesRemaining = "minutes_remaining"
	SnapshotKeyTimeOfDay        = "time_of_day"
	SnapshotKeyDistanceMeters   = "distance_meters"
	SnapshotKeyDismissReason    = "dismiss_reason"
	SnapshotKeyDismissFeedback  = "dismiss_feedback"
)

// Interaction is one append-only ledger row per (user, opportunity, session)
// engagement event. Rows are never deleted; an accepted row is upgraded in
// place when its claim completes.
type Interaction struct {
	id                 uuid.UUID
	userID             uuid.UUID
	opportunityID      uuid.UUID
	sessionID          uuid.UUID
	kind               Type
	contextSnapshot    map[string]any
	claimedValue       map[string]any
	partnerRevenue     *float64
	platformCommission *float64
	occurredAt         time.Time
	updatedAt          time.Time
}

func New(
	id uuid.UUID,
	userID uuid.UUID,
	opportunityID uuid.UUID,
	sessionID uuid.UUID,
	kind Type,
	contextSnapshot map[string]any,
	now time.Time,
) (*Interaction, error) {
	if _, err := ParseType(string(kind)); err != nil {
		return nil, err
	}
	if contextSnapshot == nil {
		contextSnapshot = map[string]any{}
	}

	return &Interaction{
		id:              id,
		userID:          userID,
		opportunityID:   opportunityID,
		sessionID:       sessionID,
		kind:            kind,
		contextSnapshot: contextSnapshot,
		occurredAt:      now,
		updatedAt:       now,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	userID uuid.UUID,
	opportunityID uuid.UUID,
	sessionID uuid.UUID,
	kind Type,
	contextSnapshot map[string]any,
	claimedValue map[string]any,
	partnerRevenue *float64,
	platformCommission *float64,
	occurredAt, updatedAt time.Time,
) *Interaction {
	return &Interaction{
		id:                 id,
		userID:             userID,
		opportunityID:      opportunityID,
		sessionID:          sessionID,
		kind:               kind,
		contextSnapshot:    contextSnapshot,
		claimedValue:       claimedValue,
		partnerRevenue:     partnerRevenue,
		platformCommission: platformCommission,
		occurredAt:         occurredAt,
		updatedAt:          updatedAt,
	}
}

// Accept upgrades the row to accepted, snapshotting the claim code and the
// full value details at acceptance time.
func (i *Interaction) Accept(claimCode string, claimedValue map[string]any, now time.Time) {
	i.kind = TypeAccepted
	i.contextSnapshot[SnapshotKeyClaimCode] = claimCode
	i.claimedValue = claimedValue
	i.updatedAt = now
}

// Complete records the redemption outcome with commission bookkeeping.
func (i *Interaction) Complete(partnerRevenue, platformCommission *float64, now time.Time) {
	i.kind = TypeCompleted
	i.partnerRevenue = partnerRevenue
	i.platformCommission = platformCommission
	i.updatedAt = now
}

func (i *Interaction) ClaimCode() (string, bool) {
	code, ok := i.contextSnapshot[SnapshotKeyClaimCode].(string)
	return code, ok
}

func (i *Interaction) ID() uuid.UUID                   { return i.id }
func (i *Interaction) UserID() uuid.UUID               { return i.userID }
func (i *Interaction) OpportunityID() uuid.UUID        { return i.opportunityID }
func (i *Interaction) SessionID() uuid.UUID            { return i.sessionID }
func (i *Interaction) Kind() Type                      { return i.kind }
func (i *Interaction) ContextSnapshot() map[string]any { return i.contextSnapshot }
func (i *Interaction) ClaimedValue() map[string]any    { return i.claimedValue }
func (i *Interaction) PartnerRevenue() *float64        { return i.partnerRevenue }
func (i *Interaction) PlatformCommission() *float64    { return i.platformCommission }
func (i *Interaction) OccurredAt() time.Time           { return i.occurredAt }
func (i *Interaction) UpdatedAt() time.Time            { return i.updatedAt }
