package scoring

import (
	"sort"

	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/pkg/geo"
)

// Term weights. The five terms are independently capped and sum to at most 100.
const (
	maxTemporal = 30.0
	maxSpatial  = 25.0
	maxValue    = 20.0
	maxCapacity = 15.0
	maxAffinity = 10.0
)

const (
	remainingPenalty = 0.5
	dayPenalty       = 0.7
	timeOfDayPenalty = 0.7
)

// Result is one scored candidate with its term breakdown. DistanceMeters is
// nil when either side lacks coordinates.
type Result struct {
	Opportunity    *opportunity.Opportunity
	Score          float64
	Temporal       float64
	Spatial        float64
	Value          float64
	Capacity       float64
	Affinity       float64
	DistanceMeters *float64
}

// Score computes the bounded multi-factor relevance of one candidate.
func Score(o *opportunity.Opportunity, ctx UserContext, activity *LedgerActivity) Result {
	r := Result{Opportunity: o}

	r.Temporal = temporalTerm(o, ctx)
	r.Spatial, r.DistanceMeters = spatialTerm(o, ctx)
	r.Value = valueTerm(o.ValueDetails(), ctx.HourlyCost)
	r.Capacity = capacityTerm(o)
	r.Affinity = affinityTerm(o, ctx, activity)

	r.Score = r.Temporal + r.Spatial + r.Value + r.Capacity + r.Affinity
	return r
}

// temporalTerm starts at full credit and compounds multiplicative penalties
// for each violated trigger rule.
func temporalTerm(o *opportunity.Opportunity, ctx UserContext) float64 {
	rules := o.TriggerRules()
	score := maxTemporal

	if !rules.AllowsRemaining(ctx.MinutesRemaining) {
		score *= remainingPenalty
	}
	if !rules.AllowsDay(ctx.Now) {
		score *= dayPenalty
	}
	if !rules.AllowsTimeOfDay(ctx.Now) {
		score *= timeOfDayPenalty
	}
	return score
}

// spatialTerm decays linearly from full credit at zero distance to zero at
// the user's maximum walking distance. Candidates with unknown distance get
// half credit rather than exclusion.
func spatialTerm(o *opportunity.Opportunity, ctx UserContext) (float64, *float64) {
	if ctx.Location == nil || o.Location() == nil {
		return maxSpatial / 2, nil
	}

	distance := geo.Haversine(*ctx.Location, *o.Location())
	maxDistance := ctx.Prefs.MaxWalkingDistanceM
	if maxDistance <= 0 {
		return 0, &distance
	}
	if distance >= maxDistance {
		return 0, &distance
	}
	return (1 - distance/maxDistance) * maxSpatial, &distance
}

// valueTerm sums fractional sub-scores for each kind of benefit, caps the sum
// at 1.0 and scales to the term weight. The parking extension is valued
// against what the user is actually paying per hour.
func valueTerm(v opportunity.ValueDetails, hourlyCost float64) float64 {
	var fraction float64

	switch pct := v.DiscountPercentage(); {
	case pct >= 50:
		fraction += 0.5
	case pct >= 25:
		fraction += 0.35
	case pct >= 10:
		fraction += 0.2
	}

	switch amount := v.DiscountAmount(); {
	case amount >= 20:
		fraction += 0.3
	case amount >= 10:
		fraction += 0.2
	case amount >= 5:
		fraction += 0.1
	}

	if minutes := v.ParkingExtensionMinutes(); minutes > 0 {
		equivalent := float64(minutes) / 60 * hourlyCost
		switch {
		case equivalent >= 10:
			fraction += 0.3
		case equivalent >= 5:
			fraction += 0.2
		default:
			fraction += 0.1
		}
	}

	switch perks := len(v.Perks()); {
	case perks >= 3:
		fraction += 0.2
	case perks >= 1:
		fraction += 0.1
	}

	if fraction > 1.0 {
		fraction = 1.0
	}
	return fraction * maxValue
}

// capacityTerm rewards scarcity: nearly sold out ranks highest, unlimited
// supply gets a token score.
func capacityTerm(o *opportunity.Opportunity) float64 {
	ratio, unlimited := o.RemainingCapacityRatio()
	switch {
	case unlimited:
		return 5
	case ratio < 0.2:
		return maxCapacity
	case ratio < 0.5:
		return 10
	default:
		return 0
	}
}

// affinityTerm blends how often this user's past accepted/completed
// interactions match the candidate's category (0.7) and partner (0.3).
// Unauthenticated or new users score a neutral 0.5 fraction.
func affinityTerm(o *opportunity.Opportunity, ctx UserContext, activity *LedgerActivity) float64 {
	const neutral = 0.5

	if !ctx.Authenticated() || activity == nil || activity.AffinityTotal == 0 {
		return neutral * maxAffinity
	}

	total := float64(activity.AffinityTotal)
	categoryFraction := float64(activity.AffinityByCategory[o.Category()]) / total
	partnerFraction := float64(activity.AffinityByPartner[o.PartnerID()]) / total

	return (0.7*categoryFraction + 0.3*partnerFraction) * maxAffinity
}

// Rank scores every candidate and returns the top limit results by
// descending score. Ties break deterministically: higher priority first,
// then opportunity id order.
func Rank(candidates []*opportunity.Opportunity, ctx UserContext, activity *LedgerActivity, limit int) []Result {
	results := make([]Result, 0, len(candidates))
	for _, o := range candidates {
		results = append(results, Score(o, ctx, activity))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		pi, pj := results[i].Opportunity.Priority(), results[j].Opportunity.Priority()
		if pi != pj {
			return pi > pj
		}
		return results[i].Opportunity.ID().String() < results[j].Opportunity.ID().String()
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
