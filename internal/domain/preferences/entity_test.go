//go:build unit

package preferences_test

import (
	"testing"
	"time"

	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/domain/preferences"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 6, hour, minute, 0, 0, time.UTC)
}

func TestQuietWindow(t *testing.T) {
	t.Run("same-day window", func(t *testing.T) {
		w := preferences.QuietWindow{StartMinute: 9 * 60, EndMinute: 17 * 60}
		assert.True(t, w.Contains(at(9, 0)))
		assert.True(t, w.Contains(at(17, 0)))
		assert.False(t, w.Contains(at(8, 59)))
		assert.False(t, w.Contains(at(17, 1)))
	})

	t.Run("window crossing midnight", func(t *testing.T) {
		w := preferences.QuietWindow{StartMinute: 22 * 60, EndMinute: 7 * 60}
		assert.True(t, w.Contains(at(23, 0)))
		assert.True(t, w.Contains(at(3, 0)))
		assert.True(t, w.Contains(at(7, 0)))
		assert.False(t, w.Contains(at(7, 1)))
		assert.False(t, w.Contains(at(12, 0)))
	})
}

func TestDefaultPreferences(t *testing.T) {
	now := at(12, 0)
	p := preferences.Default(uuid.New(), now)

	assert.True(t, p.Enabled)
	assert.Equal(t, preferences.TierAll, p.Tier)
	assert.Equal(t, int32(preferences.DefaultMaxPerSession), p.MaxPerSession)
	assert.Equal(t, preferences.DefaultMaxWalkingDistanceMeters, p.MaxWalkingDistanceM)
	assert.Empty(t, p.QuietHours)
	assert.Equal(t, now, p.CreatedAt)
}

func TestResultLimit(t *testing.T) {
	tests := []struct {
		name          string
		tier          preferences.FrequencyTier
		maxPerSession int32
		want          int
	}{
		{"all tier uncapped", preferences.TierAll, 0, 3},
		{"occasional tier", preferences.TierOccasional, 0, 2},
		{"minimal tier", preferences.TierMinimal, 0, 1},
		{"session cap tighter than tier", preferences.TierAll, 2, 2},
		{"tier tighter than session cap", preferences.TierMinimal, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := preferences.Default(uuid.New(), at(12, 0))
			p.Tier = tt.tier
			p.MaxPerSession = tt.maxPerSession
			assert.Equal(t, tt.want, p.ResultLimit())
		})
	}
}

func TestBlocking(t *testing.T) {
	blocked := uuid.New()
	p := preferences.Default(uuid.New(), at(12, 0))
	p.BlockedCategories = []opportunity.Category{opportunity.CategoryService}
	p.BlockedPartners = []uuid.UUID{blocked}
	p.ExcludedDays = []time.Weekday{time.Friday}

	assert.True(t, p.BlocksCategory(opportunity.CategoryService))
	assert.False(t, p.BlocksCategory(opportunity.CategoryExperience))
	assert.True(t, p.BlocksPartner(blocked))
	assert.False(t, p.BlocksPartner(uuid.New()))
	assert.True(t, p.ExcludesDay(at(12, 0)))
	assert.False(t, p.ExcludesDay(at(12, 0).Add(24*time.Hour)))
}

func TestParseFrequencyTier(t *testing.T) {
	for _, valid := range []string{"all", "occasional", "minimal"} {
		tier, err := preferences.ParseFrequencyTier(valid)
		require.NoError(t, err)
		assert.Equal(t, preferences.FrequencyTier(valid), tier)
	}

	_, err := preferences.ParseFrequencyTier("never")
	require.ErrorIs(t, err, preferences.ErrInvalidFrequencyTier)
}
