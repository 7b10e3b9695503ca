package scoring

import (
	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/pkg/geo"
)

// Filter narrows coarse catalog candidates to the set worth scoring for this
// context. Storage already applies the cheap cuts (active, approved, validity
// window, capacity headroom); everything preference- and ledger-dependent
// happens here so it stays unit-testable.
func Filter(candidates []*opportunity.Opportunity, ctx UserContext, activity *LedgerActivity) []*opportunity.Opportunity {
	prefs := ctx.Prefs
	if prefs != nil && !prefs.Enabled {
		return nil
	}
	if prefs != nil && (prefs.IsQuietAt(ctx.Now) || prefs.ExcludesDay(ctx.Now)) {
		return nil
	}

	var box *geo.BoundingBox
	if ctx.Location != nil && prefs != nil && prefs.MaxWalkingDistanceM > 0 {
		b := geo.BoxAround(*ctx.Location, prefs.MaxWalkingDistanceM)
		box = &b
	}

	eligible := make([]*opportunity.Opportunity, 0, len(candidates))
	for _, o := range candidates {
		if !eligibleForContext(o, ctx, box) {
			continue
		}
		if ctx.Authenticated() && suppressedByLedger(o, ctx, activity) {
			continue
		}
		eligible = append(eligible, o)
	}
	return eligible
}

func eligibleForContext(o *opportunity.Opportunity, ctx UserContext, box *geo.BoundingBox) bool {
	if !o.IsActive() || !o.IsApproved() {
		return false
	}
	if !o.IsValidAt(ctx.Now) {
		return false
	}
	if !o.HasCapacity() {
		return false
	}

	// Coarse geographic plausibility; the scorer computes precise distance.
	if box != nil && o.Location() != nil && !box.Contains(*o.Location()) {
		return false
	}

	if prefs := ctx.Prefs; prefs != nil {
		if prefs.BlocksPartner(o.PartnerID()) {
			return false
		}
		if prefs.BlocksCategory(o.Category()) {
			return false
		}
	}
	return true
}

// suppressedByLedger applies cooldown and the per-user impression cap from
// the caller's recent interaction history. Anonymous browsing records no
// ledger rows, so nothing suppresses.
func suppressedByLedger(o *opportunity.Opportunity, ctx UserContext, activity *LedgerActivity) bool {
	if activity == nil {
		return false
	}

	if last, ok := activity.LastDismissedOrAccepted[o.ID()]; ok {
		if ctx.Now.Sub(last) < o.Cooldown() {
			return true
		}
	}

	if cap := o.MaxImpressionsPerUser(); cap > 0 {
		if activity.Impressions[o.ID()] >= int(cap) {
			return true
		}
	}
	return false
}
