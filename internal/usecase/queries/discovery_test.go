//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"venue-offers/internal/domain/claim"
	"venue-offers/internal/domain/interaction"
	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/domain/partner"
	"venue-offers/internal/domain/preferences"
	"venue-offers/internal/domain/scoring"
	"venue-offers/internal/infra"
	"venue-offers/internal/infra/db"
	"venue-offers/internal/pkg/clock"
	"venue-offers/internal/pkg/config"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/pkg/geo"
	"venue-offers/internal/pkg/tracing"
	"venue-offers/internal/usecase/queries"
	"venue-offers/internal/usecase/shared"
	"venue-offers/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracer(t *testing.T) *tracing.Tracer {
	t.Helper()
	tracer, _, err := tracing.Init(config.TracingConfig{Enabled: false})
	require.NoError(t, err)
	return tracer
}

func notFound() error {
	return infra.WrapRepoErr("record not found", nil, infra.KindNotFound)
}

type fakeReads struct {
	sessions      map[uuid.UUID]*shared.SessionSnapshot
	opportunities map[uuid.UUID]*opportunity.Opportunity
	partners      map[uuid.UUID]*partner.Partner
	preferences   map[uuid.UUID]*preferences.Preferences
}

func (f *fakeReads) OpportunityByID(_ context.Context, id uuid.UUID) (*opportunity.Opportunity, error) {
	if o, ok := f.opportunities[id]; ok {
		return o, nil
	}
	return nil, notFound()
}

func (f *fakeReads) PartnerByID(_ context.Context, id uuid.UUID) (*partner.Partner, error) {
	if p, ok := f.partners[id]; ok {
		return p, nil
	}
	return nil, notFound()
}

func (f *fakeReads) SessionByID(_ context.Context, id uuid.UUID) (*shared.SessionSnapshot, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, notFound()
}

func (f *fakeReads) PreferencesByUser(_ context.Context, userID uuid.UUID) (*preferences.Preferences, error) {
	if p, ok := f.preferences[userID]; ok {
		return p, nil
	}
	return nil, notFound()
}

func (f *fakeReads) ClaimByCode(context.Context, string, uuid.UUID) (*claim.Claim, error) {
	return nil, notFound()
}

func (f *fakeReads) InteractionByID(context.Context, uuid.UUID) (*interaction.Interaction, error) {
	return nil, notFound()
}

func (f *fakeReads) ActiveOpportunityCount(context.Context, uuid.UUID) (int32, error) {
	return 0, nil
}

type fakeTx struct {
	reads    *fakeReads
	appended []*interaction.Interaction
	upserted []*preferences.Preferences
}

func (f *fakeTx) Opportunities() shared.OpportunityRepository { return nil }
func (f *fakeTx) Claims() shared.ClaimRepository              { return nil }
func (f *fakeTx) Sessions() shared.SessionRepository          { return nil }
func (f *fakeTx) Reads() shared.CommandReads                  { return f.reads }
func (f *fakeTx) DB() db.DBTX                                 { return nil }

func (f *fakeTx) Interactions() shared.InteractionRepository { return (*fakeInteractions)(f) }
func (f *fakeTx) Preferences() shared.PreferencesRepository  { return (*fakePreferences)(f) }

type fakeInteractions fakeTx

func (f *fakeInteractions) Append(_ context.Context, _ db.DBTX, row *interaction.Interaction) error {
	f.appended = append(f.appended, row)
	return nil
}

func (f *fakeInteractions) AppendBatch(_ context.Context, _ db.DBTX, rows []*interaction.Interaction) error {
	f.appended = append(f.appended, rows...)
	return nil
}

func (f *fakeInteractions) Update(context.Context, db.DBTX, *interaction.Interaction) error {
	return nil
}

type fakePreferences fakeTx

func (f *fakePreferences) Upsert(_ context.Context, _ db.DBTX, p *preferences.Preferences) error {
	f.upserted = append(f.upserted, p)
	return nil
}

type fakeUoW struct {
	tx *fakeTx
}

func (f *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, f.tx)
}

func (f *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (f *fakeUoW) CommandReads() shared.CommandReads { return f.tx.reads }

type fakeCandidates struct {
	candidates []*opportunity.Opportunity
	calls      int
}

func (f *fakeCandidates) FindCandidates(context.Context, time.Time, *geo.BoundingBox) ([]*opportunity.Opportunity, error) {
	f.calls++
	return f.candidates, nil
}

type fakeLedger struct {
	activity *scoring.LedgerActivity
}

func (f *fakeLedger) ActivityForUser(context.Context, uuid.UUID, time.Time) (*scoring.LedgerActivity, error) {
	if f.activity != nil {
		return f.activity, nil
	}
	return &scoring.LedgerActivity{}, nil
}

func (f *fakeLedger) HistoryFirstPage(context.Context, uuid.UUID, *interaction.Type, int32) ([]*queries.InteractionListItem, error) {
	return nil, nil
}

func (f *fakeLedger) HistoryKeyset(context.Context, uuid.UUID, *interaction.Type, time.Time, uuid.UUID, int32) ([]*queries.InteractionListItem, error) {
	return nil, nil
}

type fakePartnerNames struct {
	names map[uuid.UUID]string
}

func (f *fakePartnerNames) NamesByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if name, ok := f.names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

type discoveryFixture struct {
	now        time.Time
	userID     uuid.UUID
	sessionID  uuid.UUID
	partnerID  uuid.UUID
	reads      *fakeReads
	uow        *fakeUoW
	candidates *fakeCandidates
	ledger     *fakeLedger
	sut        queries.DiscoveryQueries
}

func newDiscoveryFixture(t *testing.T, owned bool) *discoveryFixture {
	t.Helper()

	f := &discoveryFixture{
		now:       time.Date(2025, 6, 6, 18, 0, 0, 0, time.UTC),
		userID:    uuid.New(),
		sessionID: uuid.New(),
		partnerID: uuid.New(),
	}

	session := &shared.SessionSnapshot{
		ID:         f.sessionID,
		StartedAt:  f.now.Add(-time.Hour),
		ExpiresAt:  f.now.Add(time.Hour),
		TotalPrice: 20,
	}
	if owned {
		session.OwnerID = &f.userID
	}

	f.reads = &fakeReads{
		sessions:      map[uuid.UUID]*shared.SessionSnapshot{f.sessionID: session},
		opportunities: map[uuid.UUID]*opportunity.Opportunity{},
		partners:      map[uuid.UUID]*partner.Partner{},
		preferences:   map[uuid.UUID]*preferences.Preferences{},
	}
	f.uow = &fakeUoW{tx: &fakeTx{reads: f.reads}}
	f.candidates = &fakeCandidates{}
	f.ledger = &fakeLedger{}

	f.sut = queries.NewDiscoveryQueries(
		f.uow, f.candidates, f.ledger,
		&fakePartnerNames{names: map[uuid.UUID]string{f.partnerID: "Cafe Nova"}},
		clock.NewMockClock(f.now), newTestTracer(t),
	)
	return f
}

func (f *discoveryFixture) addCandidate(mutate func(*builder.OpportunityBuilder)) *opportunity.Opportunity {
	b := builder.NewOpportunityBuilder().
		With(func(b *builder.OpportunityBuilder) {
			b.PartnerID = f.partnerID
			b.ValidFrom = f.now.Add(-time.Hour)
			b.ValidUntil = f.now.Add(24 * time.Hour)
		})
	if mutate != nil {
		mutate(b)
	}
	o := b.Build()
	f.candidates.candidates = append(f.candidates.candidates, o)
	return o
}

func TestDiscover(t *testing.T) {
	t.Run("anonymous browsing leaves no ledger rows", func(t *testing.T) {
		f := newDiscoveryFixture(t, false)
		f.addCandidate(nil)

		views, err := f.sut.Discover(t.Context(), f.sessionID, nil)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "Cafe Nova", views[0].PartnerName)
		assert.Greater(t, views[0].Score, 0.0)
		assert.Empty(t, f.uow.tx.appended)
		assert.Empty(t, f.uow.tx.upserted)
	})

	t.Run("authenticated discovery records impressions", func(t *testing.T) {
		f := newDiscoveryFixture(t, true)
		f.addCandidate(nil)
		f.addCandidate(nil)

		views, err := f.sut.Discover(t.Context(), f.sessionID, &f.userID)
		require.NoError(t, err)
		require.Len(t, views, 2)

		require.Len(t, f.uow.tx.appended, 2)
		for _, row := range f.uow.tx.appended {
			assert.Equal(t, interaction.TypeImpressed, row.Kind())
			assert.Equal(t, f.userID, row.UserID())
			assert.Equal(t, f.sessionID, row.SessionID())
		}
	})

	t.Run("first access creates default preferences", func(t *testing.T) {
		f := newDiscoveryFixture(t, true)

		_, err := f.sut.Discover(t.Context(), f.sessionID, &f.userID)
		require.NoError(t, err)

		require.Len(t, f.uow.tx.upserted, 1)
		assert.Equal(t, f.userID, f.uow.tx.upserted[0].UserID)
		assert.Equal(t, preferences.TierAll, f.uow.tx.upserted[0].Tier)
	})

	t.Run("disabled master flag short-circuits", func(t *testing.T) {
		f := newDiscoveryFixture(t, true)
		f.addCandidate(nil)

		prefs := preferences.Default(f.userID, f.now)
		prefs.Enabled = false
		f.reads.preferences[f.userID] = prefs

		views, err := f.sut.Discover(t.Context(), f.sessionID, &f.userID)
		require.NoError(t, err)
		assert.Empty(t, views)
		assert.Zero(t, f.candidates.calls)
	})

	t.Run("frequency tier caps the result count", func(t *testing.T) {
		f := newDiscoveryFixture(t, true)
		for i := 0; i < 5; i++ {
			f.addCandidate(nil)
		}

		prefs := preferences.Default(f.userID, f.now)
		prefs.Tier = preferences.TierMinimal
		f.reads.preferences[f.userID] = prefs

		views, err := f.sut.Discover(t.Context(), f.sessionID, &f.userID)
		require.NoError(t, err)
		assert.Len(t, views, 1)
	})

	t.Run("cooldown hides a recently dismissed offer", func(t *testing.T) {
		f := newDiscoveryFixture(t, true)
		dismissed := f.addCandidate(nil)
		kept := f.addCandidate(nil)

		f.ledger.activity = &scoring.LedgerActivity{
			LastDismissedOrAccepted: map[uuid.UUID]time.Time{
				dismissed.ID(): f.now.Add(-time.Hour),
			},
		}
		f.reads.preferences[f.userID] = preferences.Default(f.userID, f.now)

		views, err := f.sut.Discover(t.Context(), f.sessionID, &f.userID)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, kept.ID(), views[0].ID)
	})

	t.Run("unknown session", func(t *testing.T) {
		f := newDiscoveryFixture(t, false)

		_, err := f.sut.Discover(t.Context(), uuid.New(), nil)
		require.ErrorIs(t, err, errs.ErrSessionNotFound)
	})

	t.Run("session owned by someone else", func(t *testing.T) {
		f := newDiscoveryFixture(t, true)
		other := uuid.New()

		_, err := f.sut.Discover(t.Context(), f.sessionID, &other)
		require.ErrorIs(t, err, errs.ErrSessionForbidden)
	})
}

func TestOfferDetail(t *testing.T) {
	t.Run("returns the full record", func(t *testing.T) {
		f := newDiscoveryFixture(t, false)
		o := f.addCandidate(nil)
		f.reads.opportunities[o.ID()] = o

		venue, err := partner.New(f.partnerID, "Cafe Nova", "", nil, "hash", 0.1, true, 10, f.now)
		require.NoError(t, err)
		f.reads.partners[f.partnerID] = venue

		view, err := f.sut.OfferDetail(t.Context(), o.ID(), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, o.ID(), view.ID)
		assert.Equal(t, "Cafe Nova", view.PartnerName)
		assert.Equal(t, o.Title(), view.Title)
		assert.Empty(t, f.uow.tx.appended)
	})

	t.Run("authenticated view leaves a ledger row", func(t *testing.T) {
		f := newDiscoveryFixture(t, true)
		o := f.addCandidate(nil)
		f.reads.opportunities[o.ID()] = o

		_, err := f.sut.OfferDetail(t.Context(), o.ID(), &f.userID, &f.sessionID)
		require.NoError(t, err)

		require.Len(t, f.uow.tx.appended, 1)
		assert.Equal(t, interaction.TypeViewed, f.uow.tx.appended[0].Kind())
	})

	t.Run("unknown opportunity", func(t *testing.T) {
		f := newDiscoveryFixture(t, false)

		_, err := f.sut.OfferDetail(t.Context(), uuid.New(), nil, nil)
		require.ErrorIs(t, err, errs.ErrOpportunityNotFound)
	})
}
