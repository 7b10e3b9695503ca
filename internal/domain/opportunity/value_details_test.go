//go:build unit

package opportunity_test

import (
	"testing"

	"venue-offers/internal/domain/opportunity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMinimumValue(t *testing.T) {
	tests := []struct {
		name  string
		value opportunity.ValueDetails
		errIs error
	}{
		{
			name:  "qualifying percentage discount",
			value: opportunity.ValueDetails{"discount_percentage": 10.0},
		},
		{
			name:  "percentage too thin",
			value: opportunity.ValueDetails{"discount_percentage": 9.9},
			errIs: opportunity.ErrBelowMinimumValue,
		},
		{
			name:  "qualifying flat discount",
			value: opportunity.ValueDetails{"discount_amount": 5.0},
		},
		{
			name:  "qualifying parking extension",
			value: opportunity.ValueDetails{"parking_extension_minutes": 15.0},
		},
		{
			name:  "extension too short",
			value: opportunity.ValueDetails{"parking_extension_minutes": 14.0},
			errIs: opportunity.ErrBelowMinimumValue,
		},
		{
			name:  "single perk qualifies",
			value: opportunity.ValueDetails{"perks": []any{"free dessert"}},
		},
		{
			name:  "empty details",
			value: opportunity.ValueDetails{},
			errIs: opportunity.ErrBelowMinimumValue,
		},
		{
			name: "thin benefits do not combine",
			value: opportunity.ValueDetails{
				"discount_percentage":       5.0,
				"discount_amount":           2.0,
				"parking_extension_minutes": 10.0,
			},
			errIs: opportunity.ErrBelowMinimumValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.value.ValidateMinimumValue()
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValueDetailsAccessors(t *testing.T) {
	v := opportunity.ValueDetails{
		"discount_percentage":       20.0,
		"parking_extension_minutes": 30.0,
		"perks":                     []any{"coffee", 42, "parking validation"},
	}

	assert.Equal(t, 20.0, v.DiscountPercentage())
	assert.Equal(t, 0.0, v.DiscountAmount())
	assert.Equal(t, 30, v.ParkingExtensionMinutes())
	assert.Equal(t, []string{"coffee", "parking validation"}, v.Perks())
}
