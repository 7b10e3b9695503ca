//go:build unit || e2e

package builder

import (
	"time"

	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/pkg/geo"

	"github.com/google/uuid"
)

type OpportunityBuilder struct {
	ID                    uuid.UUID
	PartnerID             uuid.UUID
	Title                 string
	Proposition           string
	Category              opportunity.Category
	TriggerRules          opportunity.TriggerRules
	ValidFrom             time.Time
	ValidUntil            time.Time
	TotalCapacity         *int32
	UsedCapacity          int32
	ValueDetails          opportunity.ValueDetails
	Location              *geo.Point
	MaxImpressionsPerUser int32
	CooldownHours         int32
	Priority              int32
	Active                bool
	Approved              bool
	Now                   time.Time
}

func NewOpportunityBuilder() *OpportunityBuilder {
	now := time.Date(2025, 6, 6, 12, 0, 0, 0, time.UTC)
	return &OpportunityBuilder{
		ID:           uuid.New(),
		PartnerID:    uuid.New(),
		Title:        "Lunch special",
		Proposition:  "20% off any main dish",
		Category:     opportunity.CategoryExperience,
		TriggerRules: opportunity.TriggerRules{},
		ValidFrom:    now.Add(-time.Hour),
		ValidUntil:   now.Add(24 * time.Hour),
		ValueDetails: opportunity.ValueDetails{
			"discount_percentage": 20.0,
		},
		CooldownHours: 24,
		Active:        true,
		Approved:      true,
		Now:           now,
	}
}

func (b *OpportunityBuilder) With(mutate func(*OpportunityBuilder)) *OpportunityBuilder {
	mutate(b)
	return b
}

func (b *OpportunityBuilder) WithCapacity(total, used int32) *OpportunityBuilder {
	b.TotalCapacity = &total
	b.UsedCapacity = used
	return b
}

func (b *OpportunityBuilder) WithLocation(lat, lng float64) *OpportunityBuilder {
	b.Location = &geo.Point{Lat: lat, Lng: lng}
	return b
}

func (b *OpportunityBuilder) BuildDomain() (*opportunity.Opportunity, error) {
	return opportunity.New(
		b.ID, b.PartnerID, b.Title, b.Proposition, b.Category,
		b.TriggerRules, b.ValidFrom, b.ValidUntil, b.TotalCapacity,
		b.ValueDetails, b.Location, b.MaxImpressionsPerUser,
		b.CooldownHours, b.Priority, b.Approved, b.Now,
	)
}

// Build reconstructs a stored row, so invalid or exhausted states can be
// produced without tripping creation validation.
func (b *OpportunityBuilder) Build() *opportunity.Opportunity {
	return opportunity.Reconstruct(
		b.ID, b.PartnerID, b.Title, b.Proposition, b.Category,
		b.TriggerRules, b.ValidFrom, b.ValidUntil, b.TotalCapacity,
		b.UsedCapacity, b.ValueDetails, b.Location, b.MaxImpressionsPerUser,
		b.CooldownHours, b.Priority, b.Active, b.Approved, b.Now, b.Now,
	)
}
