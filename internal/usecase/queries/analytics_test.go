//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"venue-offers/internal/pkg/clock"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/usecase/queries"
	"venue-offers/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyticsStore struct {
	engagement    *queries.EngagementStats
	value         *queries.ValueStats
	engagementErr error

	gotPartnerID uuid.UUID
	gotFrom      time.Time
	gotTo        time.Time
}

func (s *stubAnalyticsStore) EngagementStats(_ context.Context, partnerID uuid.UUID, from, to time.Time) (*queries.EngagementStats, error) {
	s.gotPartnerID = partnerID
	s.gotFrom = from
	s.gotTo = to
	if s.engagementErr != nil {
		return nil, s.engagementErr
	}
	if s.engagement == nil {
		return &queries.EngagementStats{}, nil
	}
	return s.engagement, nil
}

func (s *stubAnalyticsStore) ValueStats(context.Context, uuid.UUID, time.Time, time.Time) (*queries.ValueStats, error) {
	if s.value == nil {
		return &queries.ValueStats{}, nil
	}
	return s.value, nil
}

func TestPartnerAnalytics(t *testing.T) {
	now := time.Date(2025, 6, 6, 12, 0, 0, 0, time.UTC)
	partnerID := uuid.New()
	actor := shared.PartnerActor(partnerID, 0.1)

	newSut := func(store *stubAnalyticsStore) queries.AnalyticsQueries {
		return queries.NewAnalyticsQueries(store, clock.NewMockClock(now))
	}

	t.Run("defaults the window to the last 30 days", func(t *testing.T) {
		store := &stubAnalyticsStore{}

		view, err := newSut(store).PartnerAnalytics(t.Context(), actor, time.Time{}, time.Time{})
		require.NoError(t, err)

		assert.Equal(t, partnerID, store.gotPartnerID)
		assert.Equal(t, now, store.gotTo)
		assert.Equal(t, now.Add(-30*24*time.Hour), store.gotFrom)
		assert.Equal(t, store.gotFrom, view.From)
		assert.Equal(t, store.gotTo, view.To)
	})

	t.Run("passes an explicit range through unchanged", func(t *testing.T) {
		store := &stubAnalyticsStore{}
		from := now.Add(-7 * 24 * time.Hour)

		view, err := newSut(store).PartnerAnalytics(t.Context(), actor, from, now)
		require.NoError(t, err)

		assert.Equal(t, from, store.gotFrom)
		assert.Equal(t, now, store.gotTo)
		assert.Equal(t, from, view.From)
	})

	t.Run("redemption rate", func(t *testing.T) {
		cases := []struct {
			name        string
			claims      int64
			redemptions int64
			want        float64
		}{
			{name: "single claim completed", claims: 1, redemptions: 1, want: 1.0},
			{name: "one of three claims completed", claims: 3, redemptions: 1, want: 1.0 / 3.0},
			{name: "no claims guards the division", claims: 0, redemptions: 0, want: 0},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				store := &stubAnalyticsStore{
					engagement: &queries.EngagementStats{Claims: tc.claims, Redemptions: tc.redemptions},
				}

				view, err := newSut(store).PartnerAnalytics(t.Context(), actor, time.Time{}, time.Time{})
				require.NoError(t, err)

				assert.InDelta(t, tc.want, view.RedemptionRate, 1e-9)
				assert.LessOrEqual(t, view.RedemptionRate, 1.0)
			})
		}
	})

	t.Run("carries the value totals", func(t *testing.T) {
		store := &stubAnalyticsStore{
			value: &queries.ValueStats{GrossRevenue: 100, PlatformFee: 10, NetRevenue: 90, AverageTransaction: 50},
		}

		view, err := newSut(store).PartnerAnalytics(t.Context(), actor, time.Time{}, time.Time{})
		require.NoError(t, err)

		assert.Equal(t, 90.0, view.Value.NetRevenue)
		assert.Equal(t, 50.0, view.Value.AverageTransaction)
	})

	t.Run("admin actor is forbidden", func(t *testing.T) {
		store := &stubAnalyticsStore{}

		_, err := newSut(store).PartnerAnalytics(t.Context(), shared.AdminActor(uuid.New()), time.Time{}, time.Time{})
		require.ErrorIs(t, err, errs.ErrPartnerForbidden)
	})

	t.Run("store failure surfaces as database error", func(t *testing.T) {
		store := &stubAnalyticsStore{engagementErr: errs.New("connection reset")}

		_, err := newSut(store).PartnerAnalytics(t.Context(), actor, time.Time{}, time.Time{})
		require.ErrorIs(t, err, errs.ErrDatabaseOperationFailed)
	})
}
