package request

import (
	"venue-offers/internal/usecase/commands"

	"github.com/google/uuid"
)

type QuietWindowBody struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type UpdatePreferencesRequest struct {
	Enabled             bool              `json:"enabled"`
	Tier                string            `json:"frequency_tier" binding:"required"`
	MaxPerSession       int32             `json:"max_per_session"`
	QuietHours          []QuietWindowBody `json:"quiet_hours"`
	ExcludedDays        []int             `json:"excluded_days"`
	PreferredCategories []string          `json:"preferred_categories"`
	BlockedCategories   []string          `json:"blocked_categories"`
	BlockedPartners     []uuid.UUID       `json:"blocked_partners"`
	MaxWalkingDistanceM float64           `json:"max_walking_distance_m"`
}

func (r UpdatePreferencesRequest) ToParams() commands.UpdatePreferencesParams {
	windows := make([]commands.QuietWindowParams, 0, len(r.QuietHours))
	for _, w := range r.QuietHours {
		windows = append(windows, commands.QuietWindowParams{Start: w.Start, End: w.End})
	}

	return commands.UpdatePreferencesParams{
		Enabled:             r.Enabled,
		Tier:                r.Tier,
		MaxPerSession:       r.MaxPerSession,
		QuietHours:          windows,
		ExcludedDays:        r.ExcludedDays,
		PreferredCategories: r.PreferredCategories,
		BlockedCategories:   r.BlockedCategories,
		BlockedPartners:     r.BlockedPartners,
		MaxWalkingDistanceM: r.MaxWalkingDistanceM,
	}
}
