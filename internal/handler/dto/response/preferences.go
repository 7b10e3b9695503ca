package response

import (
	"fmt"
	"time"

	"venue-offers/internal/domain/preferences"

	"github.com/google/uuid"
)

type QuietWindowResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type PreferencesResponse struct {
	Enabled             bool                  `json:"enabled"`
	Tier                string                `json:"frequencyTier"`
	MaxPerSession       int32                 `json:"maxPerSession"`
	QuietHours          []QuietWindowResponse `json:"quietHours"`
	ExcludedDays        []int                 `json:"excludedDays"`
	PreferredCategories []string              `json:"preferredCategories"`
	BlockedCategories   []string              `json:"blockedCategories"`
	BlockedPartners     []uuid.UUID           `json:"blockedPartners"`
	MaxWalkingDistanceM float64               `json:"maxWalkingDistanceM"`
	UpdatedAt           time.Time             `json:"updatedAt"`
}

func FromPreferences(p *preferences.Preferences) *PreferencesResponse {
	windows := make([]QuietWindowResponse, 0, len(p.QuietHours))
	for _, w := range p.QuietHours {
		windows = append(windows, QuietWindowResponse{
			Start: minutesToClock(w.StartMinute),
			End:   minutesToClock(w.EndMinute),
		})
	}

	days := make([]int, 0, len(p.ExcludedDays))
	for _, d := range p.ExcludedDays {
		days = append(days, int(d))
	}

	preferred := make([]string, 0, len(p.PreferredCategories))
	for _, c := range p.PreferredCategories {
		preferred = append(preferred, c.String())
	}
	blocked := make([]string, 0, len(p.BlockedCategories))
	for _, c := range p.BlockedCategories {
		blocked = append(blocked, c.String())
	}

	partners := p.BlockedPartners
	if partners == nil {
		partners = []uuid.UUID{}
	}

	return &PreferencesResponse{
		Enabled:             p.Enabled,
		Tier:                string(p.Tier),
		MaxPerSession:       p.MaxPerSession,
		QuietHours:          windows,
		ExcludedDays:        days,
		PreferredCategories: preferred,
		BlockedCategories:   blocked,
		BlockedPartners:     partners,
		MaxWalkingDistanceM: p.MaxWalkingDistanceM,
		UpdatedAt:           p.UpdatedAt,
	}
}

func minutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
