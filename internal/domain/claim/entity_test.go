//go:build unit

package claim_test

import (
	"testing"
	"time"

	"venue-offers/internal/domain/claim"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClaim(t *testing.T) {
	issued := time.Date(2025, 6, 6, 12, 0, 0, 0, time.UTC)
	c := claim.New("ABCD2345", uuid.New(), uuid.New(), uuid.New(), uuid.New(), issued)

	assert.Equal(t, "ABCD2345", c.Code())
	assert.Equal(t, issued.Add(claim.TTL), c.ExpiresAt())
	assert.Nil(t, c.RedeemedAt())
}

func TestCheckRedeemable(t *testing.T) {
	issued := time.Date(2025, 6, 6, 12, 0, 0, 0, time.UTC)
	redeemed := issued.Add(time.Hour)

	tests := []struct {
		name       string
		redeemedAt *time.Time
		now        time.Time
		errIs      error
	}{
		{
			name: "fresh claim",
			now:  issued.Add(time.Hour),
		},
		{
			name: "exactly at expiry",
			now:  issued.Add(claim.TTL),
		},
		{
			name:  "past expiry",
			now:   issued.Add(claim.TTL + time.Second),
			errIs: claim.ErrExpired,
		},
		{
			name:       "already redeemed",
			redeemedAt: &redeemed,
			now:        issued.Add(2 * time.Hour),
			errIs:      claim.ErrAlreadyRedeemed,
		},
		{
			name:       "redeemed wins over expired",
			redeemedAt: &redeemed,
			now:        issued.Add(claim.TTL + time.Hour),
			errIs:      claim.ErrAlreadyRedeemed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := claim.Reconstruct(
				"ABCD2345", uuid.New(), uuid.New(), uuid.New(), uuid.New(),
				issued, issued.Add(claim.TTL), tt.redeemedAt,
			)
			err := c.CheckRedeemable(tt.now)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
		})
	}
}
