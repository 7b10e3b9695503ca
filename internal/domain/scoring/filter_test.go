//go:build unit

package scoring_test

import (
	"testing"
	"time"

	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/domain/preferences"
	"venue-offers/internal/domain/scoring"
	"venue-offers/internal/pkg/geo"
	"venue-offers/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(results []*opportunity.Opportunity) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(results))
	for _, o := range results {
		out = append(out, o.ID())
	}
	return out
}

func TestFilterPreferenceGates(t *testing.T) {
	candidate := builder.NewOpportunityBuilder().Build()
	all := []*opportunity.Opportunity{candidate}

	t.Run("master switch off suppresses everything", func(t *testing.T) {
		ctx := anonymousContext(fridayDinner)
		ctx.Prefs.Enabled = false
		assert.Empty(t, scoring.Filter(all, ctx, nil))
	})

	t.Run("quiet hours suppress everything", func(t *testing.T) {
		ctx := anonymousContext(fridayDinner)
		ctx.Prefs.QuietHours = []preferences.QuietWindow{
			{StartMinute: 18 * 60, EndMinute: 20 * 60},
		}
		assert.Empty(t, scoring.Filter(all, ctx, nil))
	})

	t.Run("excluded day suppresses everything", func(t *testing.T) {
		ctx := anonymousContext(fridayDinner)
		ctx.Prefs.ExcludedDays = []time.Weekday{time.Friday}
		assert.Empty(t, scoring.Filter(all, ctx, nil))
	})

	t.Run("open preferences pass the candidate through", func(t *testing.T) {
		ctx := anonymousContext(fridayDinner)
		result := scoring.Filter(all, ctx, nil)
		assert.Equal(t, []uuid.UUID{candidate.ID()}, ids(result))
	})
}

func TestFilterPerCandidate(t *testing.T) {
	blockedPartner := uuid.New()

	keep := builder.NewOpportunityBuilder().Build()
	inactive := builder.NewOpportunityBuilder().
		With(func(b *builder.OpportunityBuilder) { b.Active = false }).
		Build()
	expired := builder.NewOpportunityBuilder().
		With(func(b *builder.OpportunityBuilder) {
			b.ValidFrom = fridayDinner.Add(-48 * time.Hour)
			b.ValidUntil = fridayDinner.Add(-24 * time.Hour)
		}).
		Build()
	soldOut := builder.NewOpportunityBuilder().WithCapacity(5, 5).Build()
	fromBlockedPartner := builder.NewOpportunityBuilder().
		With(func(b *builder.OpportunityBuilder) { b.PartnerID = blockedPartner }).
		Build()
	blockedCategory := builder.NewOpportunityBuilder().
		With(func(b *builder.OpportunityBuilder) { b.Category = opportunity.CategoryService }).
		Build()

	ctx := anonymousContext(fridayDinner)
	ctx.Prefs.BlockedPartners = []uuid.UUID{blockedPartner}
	ctx.Prefs.BlockedCategories = []opportunity.Category{opportunity.CategoryService}

	result := scoring.Filter([]*opportunity.Opportunity{
		keep, inactive, expired, soldOut, fromBlockedPartner, blockedCategory,
	}, ctx, nil)

	assert.Equal(t, []uuid.UUID{keep.ID()}, ids(result))
}

func TestFilterBoundingBox(t *testing.T) {
	here := geo.Point{Lat: 35.6812, Lng: 139.7671}

	nearby := builder.NewOpportunityBuilder().WithLocation(35.6815, 139.7675).Build()
	acrossTown := builder.NewOpportunityBuilder().WithLocation(35.74, 139.77).Build()
	noLocation := builder.NewOpportunityBuilder().Build()

	ctx := anonymousContext(fridayDinner)
	ctx.Location = &here

	result := scoring.Filter([]*opportunity.Opportunity{nearby, acrossTown, noLocation}, ctx, nil)

	assert.Equal(t, []uuid.UUID{nearby.ID(), noLocation.ID()}, ids(result))
}

func TestFilterLedgerSuppression(t *testing.T) {
	userID := uuid.New()

	authed := func() scoring.UserContext {
		ctx := anonymousContext(fridayDinner)
		ctx.UserID = &userID
		return ctx
	}

	t.Run("cooldown window", func(t *testing.T) {
		o := builder.NewOpportunityBuilder().
			With(func(b *builder.OpportunityBuilder) { b.CooldownHours = 24 }).
			Build()

		tests := []struct {
			name      string
			dismissed time.Time
			kept      bool
		}{
			{"dismissed an hour ago", fridayDinner.Add(-time.Hour), false},
			{"dismissed just inside cooldown", fridayDinner.Add(-24*time.Hour + time.Second), false},
			{"cooldown exactly elapsed", fridayDinner.Add(-24 * time.Hour), true},
			{"dismissed days ago", fridayDinner.Add(-72 * time.Hour), true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				activity := &scoring.LedgerActivity{
					LastDismissedOrAccepted: map[uuid.UUID]time.Time{o.ID(): tt.dismissed},
				}
				result := scoring.Filter([]*opportunity.Opportunity{o}, authed(), activity)
				if tt.kept {
					require.Len(t, result, 1)
				} else {
					assert.Empty(t, result)
				}
			})
		}
	})

	t.Run("impression cap", func(t *testing.T) {
		capped := builder.NewOpportunityBuilder().
			With(func(b *builder.OpportunityBuilder) { b.MaxImpressionsPerUser = 2 }).
			Build()
		uncapped := builder.NewOpportunityBuilder().Build()

		activity := &scoring.LedgerActivity{
			Impressions: map[uuid.UUID]int{
				capped.ID():   2,
				uncapped.ID(): 50,
			},
		}
		result := scoring.Filter([]*opportunity.Opportunity{capped, uncapped}, authed(), activity)
		assert.Equal(t, []uuid.UUID{uncapped.ID()}, ids(result))
	})

	t.Run("anonymous callers skip ledger suppression", func(t *testing.T) {
		o := builder.NewOpportunityBuilder().Build()
		activity := &scoring.LedgerActivity{
			LastDismissedOrAccepted: map[uuid.UUID]time.Time{o.ID(): fridayDinner.Add(-time.Minute)},
		}
		result := scoring.Filter([]*opportunity.Opportunity{o}, anonymousContext(fridayDinner), activity)
		require.Len(t, result, 1)
	})
}
