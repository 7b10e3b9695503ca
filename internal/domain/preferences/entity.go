package preferences

import (
	"time"

	"venue-offers/internal/domain/opportunity"

	"github.com/google/uuid"
)

const (
	DefaultMaxWalkingDistanceMeters = 500.0
	DefaultMaxPerSession            = 3
)

// QuietWindow is a daily time-of-day range in which no offers are surfaced.
// Windows may cross midnight.
type QuietWindow struct {
	StartMinute int
	EndMinute   int
}

func (w QuietWindow) Contains(t time.Time) bool {
	minutes := t.Hour()*60 + t.Minute()
	if w.StartMinute <= w.EndMinute {
		return minutes >= w.StartMinute && minutes <= w.EndMinute
	}
	return minutes >= w.StartMinute || minutes <= w.EndMinute
}

// Preferences is the per-user settings record, keyed by user id and created
// lazily with defaults on first access.
type Preferences struct {
	UserID              uuid.UUID
	Enabled             bool
	Tier                FrequencyTier
	MaxPerSession       int32
	QuietHours          []QuietWindow
	ExcludedDays        []time.Weekday
	PreferredCategories []opportunity.Category
	BlockedCategories   []opportunity.Category
	BlockedPartners     []uuid.UUID
	MaxWalkingDistanceM float64
	Affinity            map[string]float64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Default returns the record persisted on first access for authenticated
// users, and used in-memory (never persisted) for anonymous callers.
func Default(userID uuid.UUID, now time.Time) *Preferences {
	return &Preferences{
		UserID:              userID,
		Enabled:             true,
		Tier:                TierAll,
		MaxPerSession:       DefaultMaxPerSession,
		MaxWalkingDistanceM: DefaultMaxWalkingDistanceMeters,
		Affinity:            map[string]float64{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func (p *Preferences) IsQuietAt(t time.Time) bool {
	for _, w := range p.QuietHours {
		if w.Contains(t) {
			return true
		}
	}
	return false
}

func (p *Preferences) ExcludesDay(t time.Time) bool {
	for _, d := range p.ExcludedDays {
		if t.Weekday() == d {
			return true
		}
	}
	return false
}

func (p *Preferences) BlocksCategory(c opportunity.Category) bool {
	for _, blocked := range p.BlockedCategories {
		if blocked == c {
			return true
		}
	}
	return false
}

func (p *Preferences) BlocksPartner(id uuid.UUID) bool {
	for _, blocked := range p.BlockedPartners {
		if blocked == id {
			return true
		}
	}
	return false
}

// ResultLimit is the effective cap per discovery call: the frequency tier
// further bounded by the per-session maximum.
func (p *Preferences) ResultLimit() int {
	limit := p.Tier.MaxResults()
	if p.MaxPerSession > 0 && int(p.MaxPerSession) < limit {
		limit = int(p.MaxPerSession)
	}
	return limit
}
