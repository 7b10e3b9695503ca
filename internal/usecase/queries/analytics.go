package queries

import (
	"context"
	"time"

	"venue-offers/internal/pkg/clock"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/usecase/shared"
)

const defaultAnalyticsWindow = 30 * 24 * time.Hour

type AnalyticsQueries interface {
	// PartnerAnalytics aggregates engagement counts and value totals for the
	// acting partner over a date range; zero times default to the last 30 days.
	PartnerAnalytics(ctx context.Context, actor shared.Actor, from, to time.Time) (*AnalyticsView, error)
}

type analyticsQueriesImpl struct {
	analytics AnalyticsReadStore
	clock     clock.Clock
}

func NewAnalyticsQueries(analytics AnalyticsReadStore, clk clock.Clock) AnalyticsQueries {
	return &analyticsQueriesImpl{analytics: analytics, clock: clk}
}

func (q *analyticsQueriesImpl) PartnerAnalytics(ctx context.Context, actor shared.Actor, from, to time.Time) (*AnalyticsView, error) {
	if actor.Kind != shared.ActorPartner {
		return nil, errs.ErrPartnerForbidden
	}

	now := q.clock.Now()
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.Add(-defaultAnalyticsWindow)
	}

	engagement, err := q.analytics.EngagementStats(ctx, actor.PartnerID, from, to)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	value, err := q.analytics.ValueStats(ctx, actor.PartnerID, from, to)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	view := &AnalyticsView{
		From:       from,
		To:         to,
		Engagement: *engagement,
		Value:      *value,
	}
	if engagement.Claims > 0 {
		view.RedemptionRate = float64(engagement.Redemptions) / float64(engagement.Claims)
	}
	return view, nil
}
