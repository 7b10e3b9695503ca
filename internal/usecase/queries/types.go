package queries

import (
	"context"
	"time"

	"venue-offers/internal/domain/interaction"
	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/domain/scoring"
	"venue-offers/internal/pkg/geo"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type OfferView struct {
	ID             uuid.UUID       `json:"id"`
	PartnerID      uuid.UUID       `json:"partner_id"`
	PartnerName    string          `json:"partner_name"`
	Title          string          `json:"title"`
	Proposition    string          `json:"proposition"`
	Category       string          `json:"category"`
	ValueDetails   map[string]any  `json:"value_details"`
	Score          float64         `json:"score"`
	DistanceMeters *float64        `json:"distance_meters,omitempty"`
	ValidUntil     time.Time       `json:"valid_until"`
}

type OfferDetailView struct {
	ID             uuid.UUID      `json:"id"`
	PartnerID      uuid.UUID      `json:"partner_id"`
	PartnerName    string         `json:"partner_name"`
	Title          string         `json:"title"`
	Proposition    string         `json:"proposition"`
	Category       string         `json:"category"`
	TriggerRules   map[string]any `json:"trigger_rules"`
	ValueDetails   map[string]any `json:"value_details"`
	ValidFrom      time.Time      `json:"valid_from"`
	ValidUntil     time.Time      `json:"valid_until"`
	TotalCapacity  *int32         `json:"total_capacity,omitempty"`
	UsedCapacity   int32          `json:"used_capacity"`
	Location       *geo.Point     `json:"location,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

type InteractionListItem struct {
	ID               uuid.UUID `json:"id"`
	OpportunityID    uuid.UUID `json:"opportunity_id"`
	OpportunityTitle string    `json:"opportunity_title"`
	SessionID        uuid.UUID `json:"session_id"`
	Type             string    `json:"type"`
	OccurredAt       time.Time `json:"occurred_at"`
}

type EngagementStats struct {
	UniqueUsers    int64 `json:"unique_users"`
	Impressions    int64 `json:"impressions"`
	Views          int64 `json:"views"`
	Claims         int64 `json:"claims"`
	Redemptions    int64 `json:"redemptions"`
}

type ValueStats struct {
	AverageTransaction float64 `json:"average_transaction"`
	GrossRevenue       float64 `json:"gross_revenue"`
	PlatformFee        float64 `json:"platform_fee"`
	NetRevenue         float64 `json:"net_revenue"`
}

type AnalyticsView struct {
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	Engagement     EngagementStats `json:"engagement"`
	RedemptionRate float64         `json:"redemption_rate"`
	Value          ValueStats      `json:"value"`
}

// Read store ports implemented by internal/infra/readstore.

type CandidateReadStore interface {
	// FindCandidates applies the cheap catalog cuts in SQL: active, approved,
	// inside the validity window, capacity headroom and, when a box is given,
	// the coarse geographic pre-filter.
	FindCandidates(ctx context.Context, at time.Time, box *geo.BoundingBox) ([]*opportunity.Opportunity, error)
}

type LedgerReadStore interface {
	ActivityForUser(ctx context.Context, userID uuid.UUID, now time.Time) (*scoring.LedgerActivity, error)
	HistoryFirstPage(ctx context.Context, userID uuid.UUID, status *interaction.Type, limit int32) ([]*InteractionListItem, error)
	HistoryKeyset(ctx context.Context, userID uuid.UUID, status *interaction.Type, lastOccurredAt time.Time, lastID uuid.UUID, limit int32) ([]*InteractionListItem, error)
}

type AnalyticsReadStore interface {
	EngagementStats(ctx context.Context, partnerID uuid.UUID, from, to time.Time) (*EngagementStats, error)
	ValueStats(ctx context.Context, partnerID uuid.UUID, from, to time.Time) (*ValueStats, error)
}

type PartnerNameReadStore interface {
	NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}
