//go:build unit

package commands_test

import (
	"testing"
	"time"

	"venue-offers/internal/domain/preferences"
	"venue-offers/internal/pkg/clock"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPreferencesParams() commands.UpdatePreferencesParams {
	return commands.UpdatePreferencesParams{
		Enabled:             true,
		Tier:                "occasional",
		MaxPerSession:       2,
		QuietHours:          []commands.QuietWindowParams{{Start: "22:00", End: "07:00"}},
		ExcludedDays:        []int{0},
		BlockedCategories:   []string{"service"},
		MaxWalkingDistanceM: 800,
	}
}

func TestReplacePreferences(t *testing.T) {
	now := time.Date(2025, 6, 6, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	newSut := func(reads *stubReads) (commands.PreferenceCommands, *stubUoW) {
		uow := newStubUoW(reads)
		return commands.NewPreferenceCommands(uow, clock.NewMockClock(now)), uow
	}

	t.Run("first write creates the record", func(t *testing.T) {
		sut, uow := newSut(&stubReads{})

		record, err := sut.Replace(t.Context(), userID, validPreferencesParams())
		require.NoError(t, err)

		assert.Equal(t, preferences.TierOccasional, record.Tier)
		assert.Equal(t, []preferences.QuietWindow{{StartMinute: 22 * 60, EndMinute: 7 * 60}}, record.QuietHours)
		assert.Equal(t, []time.Weekday{time.Sunday}, record.ExcludedDays)
		assert.Equal(t, 800.0, record.MaxWalkingDistanceM)
		assert.Equal(t, now, record.CreatedAt)
		require.Len(t, uow.tx.prefs.upserted, 1)
	})

	t.Run("replacement keeps learned affinity and creation time", func(t *testing.T) {
		createdAt := now.Add(-30 * 24 * time.Hour)
		existing := preferences.Default(userID, createdAt)
		existing.Affinity = map[string]float64{"experience": 0.8}

		sut, _ := newSut(&stubReads{
			preferencesByUser: func(uuid.UUID) (*preferences.Preferences, error) {
				return existing, nil
			},
		})

		record, err := sut.Replace(t.Context(), userID, validPreferencesParams())
		require.NoError(t, err)
		assert.Equal(t, existing.Affinity, record.Affinity)
		assert.Equal(t, createdAt, record.CreatedAt)
		assert.Equal(t, now, record.UpdatedAt)
	})

	t.Run("zero knobs fall back to defaults", func(t *testing.T) {
		sut, _ := newSut(&stubReads{})
		params := validPreferencesParams()
		params.MaxPerSession = 0
		params.MaxWalkingDistanceM = 0

		record, err := sut.Replace(t.Context(), userID, params)
		require.NoError(t, err)
		assert.Equal(t, int32(preferences.DefaultMaxPerSession), record.MaxPerSession)
		assert.Equal(t, preferences.DefaultMaxWalkingDistanceMeters, record.MaxWalkingDistanceM)
	})

	t.Run("invalid tier", func(t *testing.T) {
		sut, _ := newSut(&stubReads{})
		params := validPreferencesParams()
		params.Tier = "weekly"

		_, err := sut.Replace(t.Context(), userID, params)
		require.ErrorIs(t, err, errs.ErrValueRuleViolation)
	})

	t.Run("unparseable quiet window", func(t *testing.T) {
		sut, _ := newSut(&stubReads{})
		params := validPreferencesParams()
		params.QuietHours = []commands.QuietWindowParams{{Start: "late", End: "07:00"}}

		_, err := sut.Replace(t.Context(), userID, params)
		require.ErrorIs(t, err, errs.ErrValueRuleViolation)
	})

	t.Run("unknown blocked category", func(t *testing.T) {
		sut, _ := newSut(&stubReads{})
		params := validPreferencesParams()
		params.BlockedCategories = []string{"gambling"}

		_, err := sut.Replace(t.Context(), userID, params)
		require.ErrorIs(t, err, errs.ErrValueRuleViolation)
	})

	t.Run("out-of-range excluded days are dropped", func(t *testing.T) {
		sut, _ := newSut(&stubReads{})
		params := validPreferencesParams()
		params.ExcludedDays = []int{-1, 2, 9}

		record, err := sut.Replace(t.Context(), userID, params)
		require.NoError(t, err)
		assert.Equal(t, []time.Weekday{time.Tuesday}, record.ExcludedDays)
	})
}
