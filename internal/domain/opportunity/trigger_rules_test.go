//go:build unit

package opportunity_test

import (
	"testing"
	"time"

	"venue-offers/internal/domain/opportunity"

	"github.com/stretchr/testify/assert"
)

func TestTriggerRulesRemaining(t *testing.T) {
	tests := []struct {
		name      string
		rules     opportunity.TriggerRules
		remaining int
		want      bool
	}{
		{
			name:      "no bounds allows anything",
			rules:     opportunity.TriggerRules{},
			remaining: 1,
			want:      true,
		},
		{
			name:      "below minimum",
			rules:     opportunity.TriggerRules{"min_minutes_remaining": 30.0},
			remaining: 29,
			want:      false,
		},
		{
			name:      "exactly at minimum",
			rules:     opportunity.TriggerRules{"min_minutes_remaining": 30.0},
			remaining: 30,
			want:      true,
		},
		{
			name:      "above maximum",
			rules:     opportunity.TriggerRules{"max_minutes_remaining": 120.0},
			remaining: 121,
			want:      false,
		},
		{
			name: "inside both bounds",
			rules: opportunity.TriggerRules{
				"min_minutes_remaining": 30.0,
				"max_minutes_remaining": 120.0,
			},
			remaining: 60,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rules.AllowsRemaining(tt.remaining))
		})
	}
}

func TestTriggerRulesDays(t *testing.T) {
	friday := time.Date(2025, 6, 6, 18, 0, 0, 0, time.UTC)
	saturday := friday.Add(24 * time.Hour)

	t.Run("numeric weekdays", func(t *testing.T) {
		rules := opportunity.TriggerRules{"days_of_week": []any{5.0, 6.0}}
		assert.True(t, rules.AllowsDay(friday))
		assert.True(t, rules.AllowsDay(saturday))
		assert.False(t, rules.AllowsDay(friday.Add(48*time.Hour)))
	})

	t.Run("named weekdays", func(t *testing.T) {
		rules := opportunity.TriggerRules{"days_of_week": []any{"Friday"}}
		assert.True(t, rules.AllowsDay(friday))
		assert.False(t, rules.AllowsDay(saturday))
	})

	t.Run("absent rule allows every day", func(t *testing.T) {
		rules := opportunity.TriggerRules{}
		assert.True(t, rules.AllowsDay(friday))
	})

	t.Run("malformed entries are skipped", func(t *testing.T) {
		rules := opportunity.TriggerRules{"days_of_week": []any{"Fryday", 9.0, 5.0}}
		days := rules.DaysOfWeek()
		assert.Equal(t, []time.Weekday{time.Friday}, days)
	})
}

func TestTriggerRulesTimeOfDay(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2025, 6, 6, hour, minute, 0, 0, time.UTC)
	}

	t.Run("same-day window", func(t *testing.T) {
		rules := opportunity.TriggerRules{"start_time": "17:00", "end_time": "21:00"}
		assert.False(t, rules.AllowsTimeOfDay(at(16, 59)))
		assert.True(t, rules.AllowsTimeOfDay(at(17, 0)))
		assert.True(t, rules.AllowsTimeOfDay(at(21, 0)))
		assert.False(t, rules.AllowsTimeOfDay(at(21, 1)))
	})

	t.Run("window crossing midnight", func(t *testing.T) {
		rules := opportunity.TriggerRules{"start_time": "22:00", "end_time": "02:00"}
		assert.True(t, rules.AllowsTimeOfDay(at(23, 30)))
		assert.True(t, rules.AllowsTimeOfDay(at(1, 30)))
		assert.False(t, rules.AllowsTimeOfDay(at(12, 0)))
	})

	t.Run("half-open rule pair is ignored", func(t *testing.T) {
		rules := opportunity.TriggerRules{"start_time": "22:00"}
		assert.True(t, rules.AllowsTimeOfDay(at(12, 0)))
	})

	t.Run("unparseable clock value is ignored", func(t *testing.T) {
		rules := opportunity.TriggerRules{"start_time": "ten", "end_time": "21:00"}
		assert.True(t, rules.AllowsTimeOfDay(at(23, 0)))
	})
}
