package queries

import (
	"context"
	"log/slog"

	"venue-offers/internal/domain/interaction"
	"venue-offers/internal/domain/preferences"
	"venue-offers/internal/domain/scoring"
	"venue-offers/internal/infra"
	"venue-offers/internal/pkg/clock"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/pkg/geo"
	"venue-offers/internal/pkg/tracing"
	"venue-offers/internal/usecase/shared"

	"github.com/google/uuid"
)

type DiscoveryQueries interface {
	// Discover returns the ranked offers for a parking session, at most the
	// preference-derived limit. Anonymous callers browse without leaving
	// ledger rows.
	Discover(ctx context.Context, sessionID uuid.UUID, userID *uuid.UUID) ([]*OfferView, error)
	// OfferDetail returns the full record and logs a viewed event for
	// authenticated callers.
	OfferDetail(ctx context.Context, opportunityID uuid.UUID, userID *uuid.UUID, sessionID *uuid.UUID) (*OfferDetailView, error)
}

type discoveryQueriesImpl struct {
	uow          shared.UnitOfWork
	candidates   CandidateReadStore
	ledger       LedgerReadStore
	partnerNames PartnerNameReadStore
	clock        clock.Clock
	tracer       *tracing.Tracer
}

func NewDiscoveryQueries(
	uow shared.UnitOfWork,
	candidates CandidateReadStore,
	ledger LedgerReadStore,
	partnerNames PartnerNameReadStore,
	clk clock.Clock,
	tracer *tracing.Tracer,
) DiscoveryQueries {
	return &discoveryQueriesImpl{
		uow:          uow,
		candidates:   candidates,
		ledger:       ledger,
		partnerNames: partnerNames,
		clock:        clk,
		tracer:       tracer,
	}
}

func (q *discoveryQueriesImpl) Discover(ctx context.Context, sessionID uuid.UUID, userID *uuid.UUID) ([]*OfferView, error) {
	ctx, span := q.tracer.StartSpan(ctx, "discovery.Discover")
	defer span.End()

	userCtx, err := q.buildContext(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	// A disabled master flag short-circuits before any filtering runs.
	if !userCtx.Prefs.Enabled {
		return []*OfferView{}, nil
	}

	var activity *scoring.LedgerActivity
	if userCtx.Authenticated() {
		activity, err = q.ledger.ActivityForUser(ctx, *userCtx.UserID, userCtx.Now)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}

	var box *geo.BoundingBox
	if userCtx.Location != nil && userCtx.Prefs.MaxWalkingDistanceM > 0 {
		b := geo.BoxAround(*userCtx.Location, userCtx.Prefs.MaxWalkingDistanceM)
		box = &b
	}

	candidates, err := q.candidates.FindCandidates(ctx, userCtx.Now, box)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	eligible := scoring.Filter(candidates, userCtx, activity)
	ranked := scoring.Rank(eligible, userCtx, activity, userCtx.Prefs.ResultLimit())

	if userCtx.Authenticated() && len(ranked) > 0 {
		if err := q.recordImpressions(ctx, userCtx, ranked); err != nil {
			// Impressions feed cooldown and analytics; losing them must not
			// hide offers from the user.
			slog.Warn("failed to record impressions", "session_id", sessionID, "error", err.Error())
		}
	}

	return q.toOfferViews(ctx, ranked)
}

func (q *discoveryQueriesImpl) OfferDetail(ctx context.Context, opportunityID uuid.UUID, userID *uuid.UUID, sessionID *uuid.UUID) (*OfferDetailView, error) {
	ctx, span := q.tracer.StartSpan(ctx, "discovery.OfferDetail")
	defer span.End()

	reads := q.uow.CommandReads()

	opp, err := reads.OpportunityByID(ctx, opportunityID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrOpportunityNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	partnerName := ""
	if p, err := reads.PartnerByID(ctx, opp.PartnerID()); err == nil {
		partnerName = p.Name()
	}

	if userID != nil {
		sid := uuid.Nil
		if sessionID != nil {
			sid = *sessionID
		}
		now := q.clock.Now()
		row, rowErr := interaction.New(uuid.New(), *userID, opp.ID(), sid, interaction.TypeViewed, map[string]any{
			interaction.SnapshotKeyTimeOfDay: now.Format("15:04"),
		}, now)
		if rowErr == nil {
			err = q.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
				return tx.Interactions().Append(ctx, tx.DB(), row)
			})
			if err != nil {
				slog.Warn("failed to record view", "opportunity_id", opportunityID, "error", err.Error())
			}
		}
	}

	return &OfferDetailView{
		ID:            opp.ID(),
		PartnerID:     opp.PartnerID(),
		PartnerName:   partnerName,
		Title:         opp.Title(),
		Proposition:   opp.Proposition(),
		Category:      opp.Category().String(),
		TriggerRules:  opp.TriggerRules(),
		ValueDetails:  opp.ValueDetails(),
		ValidFrom:     opp.ValidFrom(),
		ValidUntil:    opp.ValidUntil(),
		TotalCapacity: opp.TotalCapacity(),
		UsedCapacity:  opp.UsedCapacity(),
		Location:      opp.Location(),
		CreatedAt:     opp.CreatedAt(),
	}, nil
}

// buildContext derives the UserContext from the session handle and optional
// identity: remaining minutes floored at zero, effective hourly cost, session
// coordinates and resolved preferences.
func (q *discoveryQueriesImpl) buildContext(ctx context.Context, sessionID uuid.UUID, userID *uuid.UUID) (scoring.UserContext, error) {
	reads := q.uow.CommandReads()
	now := q.clock.Now()

	sess, err := reads.SessionByID(ctx, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return scoring.UserContext{}, errs.ErrSessionNotFound
		}
		return scoring.UserContext{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if userID != nil && sess.OwnerID != nil && *sess.OwnerID != *userID {
		return scoring.UserContext{}, errs.ErrSessionForbidden
	}

	prefs, err := q.resolvePreferences(ctx, userID)
	if err != nil {
		return scoring.UserContext{}, err
	}

	return scoring.UserContext{
		UserID:           userID,
		SessionID:        sessionID,
		MinutesRemaining: sess.MinutesRemaining(now),
		HourlyCost:       sess.HourlyCost(),
		Location:         sess.Location,
		Prefs:            prefs,
		Now:              now,
	}, nil
}

// resolvePreferences loads the caller's record, creating it with defaults on
// first access. Anonymous callers get an in-memory default that is never
// persisted.
func (q *discoveryQueriesImpl) resolvePreferences(ctx context.Context, userID *uuid.UUID) (*preferences.Preferences, error) {
	now := q.clock.Now()
	if userID == nil {
		return preferences.Default(uuid.Nil, now), nil
	}

	prefs, err := q.uow.CommandReads().PreferencesByUser(ctx, *userID)
	if err == nil {
		return prefs, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	prefs = preferences.Default(*userID, now)
	err = q.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Preferences().Upsert(ctx, tx.DB(), prefs)
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return prefs, nil
}

func (q *discoveryQueriesImpl) recordImpressions(ctx context.Context, userCtx scoring.UserContext, ranked []scoring.Result) error {
	rows := make([]*interaction.Interaction, 0, len(ranked))
	for _, r := range ranked {
		snapshot := map[string]any{
			interaction.SnapshotKeyMinutesRemaining: userCtx.MinutesRemaining,
			interaction.SnapshotKeyTimeOfDay:        userCtx.Now.Format("15:04"),
		}
		if r.DistanceMeters != nil {
			snapshot[interaction.SnapshotKeyDistanceMeters] = *r.DistanceMeters
		}

		row, err := interaction.New(uuid.New(), *userCtx.UserID, r.Opportunity.ID(), userCtx.SessionID, interaction.TypeImpressed, snapshot, userCtx.Now)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	return q.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Interactions().AppendBatch(ctx, tx.DB(), rows)
	})
}

func (q *discoveryQueriesImpl) toOfferViews(ctx context.Context, ranked []scoring.Result) ([]*OfferView, error) {
	partnerIDs := make([]uuid.UUID, 0, len(ranked))
	for _, r := range ranked {
		partnerIDs = append(partnerIDs, r.Opportunity.PartnerID())
	}

	names, err := q.partnerNames.NamesByIDs(ctx, partnerIDs)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	views := make([]*OfferView, len(ranked))
	for i, r := range ranked {
		o := r.Opportunity
		views[i] = &OfferView{
			ID:             o.ID(),
			PartnerID:      o.PartnerID(),
			PartnerName:    names[o.PartnerID()],
			Title:          o.Title(),
			Proposition:    o.Proposition(),
			Category:       o.Category().String(),
			ValueDetails:   o.ValueDetails(),
			Score:          r.Score,
			DistanceMeters: r.DistanceMeters,
			ValidUntil:     o.ValidUntil(),
		}
	}
	return views, nil
}
