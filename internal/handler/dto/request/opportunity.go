package request

import (
	"time"

	"venue-offers/internal/usecase/commands"
)

type CreateOpportunityRequest struct {
	Title                 string         `json:"title" binding:"required"`
	Proposition           string         `json:"proposition"`
	Category              string         `json:"category" binding:"required"`
	TriggerRules          map[string]any `json:"trigger_rules"`
	ValidFrom             time.Time      `json:"valid_from" binding:"required"`
	ValidUntil            time.Time      `json:"valid_until" binding:"required"`
	TotalCapacity         *int32         `json:"total_capacity,omitempty"`
	ValueDetails          map[string]any `json:"value_details" binding:"required"`
	Latitude              *float64       `json:"latitude,omitempty"`
	Longitude             *float64       `json:"longitude,omitempty"`
	MaxImpressionsPerUser int32          `json:"max_impressions_per_user"`
	CooldownHours         int32          `json:"cooldown_hours"`
	Priority              int32          `json:"priority"`
}

func (r CreateOpportunityRequest) ToParams() commands.CreateOpportunityParams {
	return commands.CreateOpportunityParams{
		Title:                 r.Title,
		Proposition:           r.Proposition,
		Category:              r.Category,
		TriggerRules:          r.TriggerRules,
		ValidFrom:             r.ValidFrom,
		ValidUntil:            r.ValidUntil,
		TotalCapacity:         r.TotalCapacity,
		ValueDetails:          r.ValueDetails,
		Latitude:              r.Latitude,
		Longitude:             r.Longitude,
		MaxImpressionsPerUser: r.MaxImpressionsPerUser,
		CooldownHours:         r.CooldownHours,
		Priority:              r.Priority,
	}
}

// UpdateOpportunityRequest patches only the fields present in the body.
type UpdateOpportunityRequest struct {
	Title         *string        `json:"title,omitempty"`
	Proposition   *string        `json:"proposition,omitempty"`
	Category      *string        `json:"category,omitempty"`
	TriggerRules  map[string]any `json:"trigger_rules,omitempty"`
	ValidFrom     *time.Time     `json:"valid_from,omitempty"`
	ValidUntil    *time.Time     `json:"valid_until,omitempty"`
	TotalCapacity *int32         `json:"total_capacity,omitempty"`
	ValueDetails  map[string]any `json:"value_details,omitempty"`
	CooldownHours *int32         `json:"cooldown_hours,omitempty"`
	Priority      *int32         `json:"priority,omitempty"`
}

func (r UpdateOpportunityRequest) ToParams() commands.UpdateOpportunityParams {
	return commands.UpdateOpportunityParams{
		Title:         r.Title,
		Proposition:   r.Proposition,
		Category:      r.Category,
		TriggerRules:  r.TriggerRules,
		ValidFrom:     r.ValidFrom,
		ValidUntil:    r.ValidUntil,
		TotalCapacity: r.TotalCapacity,
		ValueDetails:  r.ValueDetails,
		CooldownHours: r.CooldownHours,
		Priority:      r.Priority,
	}
}
