package response

import (
	"time"

	"venue-offers/internal/domain/opportunity"

	"github.com/google/uuid"
)

type OpportunityResponse struct {
	ID                    uuid.UUID      `json:"id"`
	PartnerID             uuid.UUID      `json:"partnerId"`
	Title                 string         `json:"title"`
	Proposition           string         `json:"proposition"`
	Category              string         `json:"category"`
	TriggerRules          map[string]any `json:"triggerRules"`
	ValidFrom             time.Time      `json:"validFrom"`
	ValidUntil            time.Time      `json:"validUntil"`
	TotalCapacity         *int32         `json:"totalCapacity,omitempty"`
	UsedCapacity          int32          `json:"usedCapacity"`
	ValueDetails          map[string]any `json:"valueDetails"`
	Latitude              *float64       `json:"latitude,omitempty"`
	Longitude             *float64       `json:"longitude,omitempty"`
	MaxImpressionsPerUser int32          `json:"maxImpressionsPerUser"`
	CooldownHours         int32          `json:"cooldownHours"`
	Priority              int32          `json:"priority"`
	Active                bool           `json:"active"`
	Approved              bool           `json:"approved"`
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
}

func FromOpportunity(o *opportunity.Opportunity) *OpportunityResponse {
	resp := &OpportunityResponse{
		ID:                    o.ID(),
		PartnerID:             o.PartnerID(),
		Title:                 o.Title(),
		Proposition:           o.Proposition(),
		Category:              o.Category().String(),
		TriggerRules:          o.TriggerRules(),
		ValidFrom:             o.ValidFrom(),
		ValidUntil:            o.ValidUntil(),
		TotalCapacity:         o.TotalCapacity(),
		UsedCapacity:          o.UsedCapacity(),
		ValueDetails:          o.ValueDetails(),
		MaxImpressionsPerUser: o.MaxImpressionsPerUser(),
		CooldownHours:         o.CooldownHours(),
		Priority:              o.Priority(),
		Active:                o.IsActive(),
		Approved:              o.IsApproved(),
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
	}
	if loc := o.Location(); loc != nil {
		resp.Latitude = &loc.Lat
		resp.Longitude = &loc.Lng
	}
	return resp
}

func FromOpportunities(list []*opportunity.Opportunity) []*OpportunityResponse {
	out := make([]*OpportunityResponse, len(list))
	for i, o := range list {
		out[i] = FromOpportunity(o)
	}
	return out
}
