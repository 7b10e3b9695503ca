package claim

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrExpired         = errors.New("claim has expired")
	ErrAlreadyRedeemed = errors.New("claim already redeemed")
)

// TTL is the fixed validity horizon from acceptance time.
const TTL = 24 * time.Hour

// Claim is the first-class record behind a claim code: one short code scoped
// to a single partner, proving acceptance, redeemable once.
type Claim struct {
	code          string
	interactionID uuid.UUID
	opportunityID uuid.UUID
	partnerID     uuid.UUID
	userID        uuid.UUID
	issuedAt      time.Time
	expiresAt     time.Time
	redeemedAt    *time.Time
}

func New(
	code string,
	interactionID uuid.UUID,
	opportunityID uuid.UUID,
	partnerID uuid.UUID,
	userID uuid.UUID,
	issuedAt time.Time,
) *Claim {
	return &Claim{
		code:          code,
		interactionID: interactionID,
		opportunityID: opportunityID,
		partnerID:     partnerID,
		userID:        userID,
		issuedAt:      issuedAt,
		expiresAt:     issuedAt.Add(TTL),
	}
}

func Reconstruct(
	code string,
	interactionID uuid.UUID,
	opportunityID uuid.UUID,
	partnerID uuid.UUID,
	userID uuid.UUID,
	issuedAt, expiresAt time.Time,
	redeemedAt *time.Time,
) *Claim {
	return &Claim{
		code:          code,
		interactionID: interactionID,
		opportunityID: opportunityID,
		partnerID:     partnerID,
		userID:        userID,
		issuedAt:      issuedAt,
		expiresAt:     expiresAt,
		redeemedAt:    redeemedAt,
	}
}

// CheckRedeemable is the partner-side validation gate. Validation is
// repeatable; only completion consumes the claim.
func (c *Claim) CheckRedeemable(now time.Time) error {
	if c.redeemedAt != nil {
		return ErrAlreadyRedeemed
	}
	if now.After(c.expiresAt) {
		return ErrExpired
	}
	return nil
}

func (c *Claim) Code() string            { return c.code }
func (c *Claim) InteractionID() uuid.UUID { return c.interactionID }
func (c *Claim) OpportunityID() uuid.UUID { return c.opportunityID }
func (c *Claim) PartnerID() uuid.UUID    { return c.partnerID }
func (c *Claim) UserID() uuid.UUID       { return c.userID }
func (c *Claim) IssuedAt() time.Time     { return c.issuedAt }
func (c *Claim) ExpiresAt() time.Time    { return c.expiresAt }
func (c *Claim) RedeemedAt() *time.Time  { return c.redeemedAt }
