package scoring

import (
	"time"

	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/domain/preferences"
	"venue-offers/internal/pkg/geo"

	"github.com/google/uuid"
)

// UserContext is the resolved parking situation a discovery call scores
// against: time remaining, what the stay costs, where the car is, and the
// caller's preferences. UserID is nil for anonymous browsing.
type UserContext struct {
	UserID           *uuid.UUID
	SessionID        uuid.UUID
	MinutesRemaining int
	HourlyCost       float64
	Location         *geo.Point
	Prefs            *preferences.Preferences
	Now              time.Time
}

func (c UserContext) Authenticated() bool {
	return c.UserID != nil
}

// LedgerActivity is the slice of the interaction ledger the filter and scorer
// need: per-opportunity cooldown anchors and impression counts, and the
// category/partner mix of the user's recent accepted or completed rows.
type LedgerActivity struct {
	// LastDismissedOrAccepted maps opportunity id to the most recent
	// dismissed/accepted event, the anchor for cooldown suppression.
	LastDismissedOrAccepted map[uuid.UUID]time.Time

	// Impressions maps opportunity id to lifetime impression count for the
	// per-user impression cap.
	Impressions map[uuid.UUID]int

	// Affinity sample: up to the 50 most recent accepted/completed rows.
	AffinityTotal      int
	AffinityByCategory map[opportunity.Category]int
	AffinityByPartner  map[uuid.UUID]int
}
