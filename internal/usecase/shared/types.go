package shared

import (
	"time"

	"venue-offers/internal/pkg/geo"

	"github.com/google/uuid"
)

// ActorKind discriminates the partner-facing caller identity. It is resolved
// once at the authentication boundary; downstream code switches on the tag
// instead of duck-typing.
type ActorKind int

const (
	ActorPartner ActorKind = iota
	ActorAdmin
)

type Actor struct {
	Kind ActorKind

	// Partner branch only.
	PartnerID      uuid.UUID
	CommissionRate float64

	// Admin branch only.
	AdminID uuid.UUID
}

func PartnerActor(partnerID uuid.UUID, commissionRate float64) Actor {
	return Actor{Kind: ActorPartner, PartnerID: partnerID, CommissionRate: commissionRate}
}

func AdminActor(adminID uuid.UUID) Actor {
	return Actor{Kind: ActorAdmin, AdminID: adminID}
}

// SessionSnapshot is what the external session collaborator exposes to this
// engine: enough to derive remaining time, effective hourly cost and location.
type SessionSnapshot struct {
	ID         uuid.UUID
	OwnerID    *uuid.UUID
	StartedAt  time.Time
	ExpiresAt  time.Time
	TotalPrice float64
	Location   *geo.Point
}

// MinutesRemaining floors at zero; expired sessions still build a context.
func (s SessionSnapshot) MinutesRemaining(now time.Time) int {
	remaining := s.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Minutes())
}

// HourlyCost is the session's total price spread over its booked duration.
func (s SessionSnapshot) HourlyCost() float64 {
	duration := s.ExpiresAt.Sub(s.StartedAt)
	if duration <= 0 {
		return 0
	}
	return s.TotalPrice / duration.Hours()
}
