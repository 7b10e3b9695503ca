//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"venue-offers/internal/domain/claim"
	"venue-offers/internal/domain/interaction"
	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/domain/partner"
	"venue-offers/internal/domain/preferences"
	"venue-offers/internal/infra"
	"venue-offers/internal/infra/db"
	"venue-offers/internal/pkg/config"
	"venue-offers/internal/pkg/tracing"
	"venue-offers/internal/usecase/shared"

	"github.com/google/uuid"
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

func duplicateKey() error {
	return infra.WrapRepoErr("duplicate key", nil, infra.KindDuplicateKey)
}

// stubReads answers point lookups from canned values; nil hooks report
// not found.
type stubReads struct {
	opportunityByID   func(id uuid.UUID) (*opportunity.Opportunity, error)
	partnerByID       func(id uuid.UUID) (*partner.Partner, error)
	sessionByID       func(id uuid.UUID) (*shared.SessionSnapshot, error)
	preferencesByUser func(userID uuid.UUID) (*preferences.Preferences, error)
	claimByCode       func(code string, partnerID uuid.UUID) (*claim.Claim, error)
	interactionByID   func(id uuid.UUID) (*interaction.Interaction, error)
	activeCount       func(partnerID uuid.UUID) (int32, error)
}

func (s *stubReads) OpportunityByID(_ context.Context, id uuid.UUID) (*opportunity.Opportunity, error) {
	if s.opportunityByID == nil {
		return nil, notFound()
	}
	return s.opportunityByID(id)
}

func (s *stubReads) PartnerByID(_ context.Context, id uuid.UUID) (*partner.Partner, error) {
	if s.partnerByID == nil {
		return nil, notFound()
	}
	return s.partnerByID(id)
}

func (s *stubReads) SessionByID(_ context.Context, id uuid.UUID) (*shared.SessionSnapshot, error) {
	if s.sessionByID == nil {
		return nil, notFound()
	}
	return s.sessionByID(id)
}

func (s *stubReads) PreferencesByUser(_ context.Context, userID uuid.UUID) (*preferences.Preferences, error) {
	if s.preferencesByUser == nil {
		return nil, notFound()
	}
	return s.preferencesByUser(userID)
}

func (s *stubReads) ClaimByCode(_ context.Context, code string, partnerID uuid.UUID) (*claim.Claim, error) {
	if s.claimByCode == nil {
		return nil, notFound()
	}
	return s.claimByCode(code, partnerID)
}

func (s *stubReads) InteractionByID(_ context.Context, id uuid.UUID) (*interaction.Interaction, error) {
	if s.interactionByID == nil {
		return nil, notFound()
	}
	return s.interactionByID(id)
}

func (s *stubReads) ActiveOpportunityCount(_ context.Context, partnerID uuid.UUID) (int32, error) {
	if s.activeCount == nil {
		return 0, nil
	}
	return s.activeCount(partnerID)
}

type stubOpportunityRepo struct {
	created      []*opportunity.Opportunity
	updated      []*opportunity.Opportunity
	deactivated  []uuid.UUID
	deactivateN  int64
	consumeCalls int
	consumeOK    bool
	consumeErr   error
}

func (s *stubOpportunityRepo) Create(_ context.Context, _ db.DBTX, o *opportunity.Opportunity) error {
	s.created = append(s.created, o)
	return nil
}

func (s *stubOpportunityRepo) Update(_ context.Context, _ db.DBTX, o *opportunity.Opportunity) error {
	s.updated = append(s.updated, o)
	return nil
}

func (s *stubOpportunityRepo) Deactivate(_ context.Context, _ db.DBTX, id, _ uuid.UUID, _ time.Time) (int64, error) {
	s.deactivated = append(s.deactivated, id)
	return s.deactivateN, nil
}

func (s *stubOpportunityRepo) TryConsumeCapacity(_ context.Context, _ db.DBTX, _ uuid.UUID, _ time.Time) (bool, error) {
	s.consumeCalls++
	return s.consumeOK, s.consumeErr
}

type stubInteractionRepo struct {
	appended []*interaction.Interaction
	updated  []*interaction.Interaction
}

func (s *stubInteractionRepo) Append(_ context.Context, _ db.DBTX, row *interaction.Interaction) error {
	s.appended = append(s.appended, row)
	return nil
}

func (s *stubInteractionRepo) AppendBatch(_ context.Context, _ db.DBTX, rows []*interaction.Interaction) error {
	s.appended = append(s.appended, rows...)
	return nil
}

func (s *stubInteractionRepo) Update(_ context.Context, _ db.DBTX, row *interaction.Interaction) error {
	s.updated = append(s.updated, row)
	return nil
}

// stubClaimRepo fails Create with createErrs in order, then succeeds.
type stubClaimRepo struct {
	createErrs     []error
	created        []*claim.Claim
	redeemCalls    int
	redeemAffected int64
	redeemErr      error
}

func (s *stubClaimRepo) Create(_ context.Context, _ db.DBTX, c *claim.Claim) error {
	if len(s.createErrs) > 0 {
		err := s.createErrs[0]
		s.createErrs = s.createErrs[1:]
		if err != nil {
			return err
		}
	}
	s.created = append(s.created, c)
	return nil
}

func (s *stubClaimRepo) Redeem(_ context.Context, _ db.DBTX, _ string, _ uuid.UUID, _ time.Time) (int64, error) {
	s.redeemCalls++
	return s.redeemAffected, s.redeemErr
}

type stubPreferencesRepo struct {
	upserted []*preferences.Preferences
}

func (s *stubPreferencesRepo) Upsert(_ context.Context, _ db.DBTX, p *preferences.Preferences) error {
	s.upserted = append(s.upserted, p)
	return nil
}

type stubSessionRepo struct {
	extensions map[uuid.UUID]int
}

func (s *stubSessionRepo) ExtendExpiry(_ context.Context, _ db.DBTX, sessionID uuid.UUID, minutes int) error {
	if s.extensions == nil {
		s.extensions = map[uuid.UUID]int{}
	}
	s.extensions[sessionID] += minutes
	return nil
}

type stubTx struct {
	opportunities *stubOpportunityRepo
	interactions  *stubInteractionRepo
	claims        *stubClaimRepo
	prefs         *stubPreferencesRepo
	sessions      *stubSessionRepo
	reads         *stubReads
}

func newStubTx(reads *stubReads) *stubTx {
	return &stubTx{
		opportunities: &stubOpportunityRepo{},
		interactions:  &stubInteractionRepo{},
		claims:        &stubClaimRepo{},
		prefs:         &stubPreferencesRepo{},
		sessions:      &stubSessionRepo{},
		reads:         reads,
	}
}

func (s *stubTx) Opportunities() shared.OpportunityRepository { return s.opportunities }
func (s *stubTx) Interactions() shared.InteractionRepository  { return s.interactions }
func (s *stubTx) Claims() shared.ClaimRepository              { return s.claims }
func (s *stubTx) Preferences() shared.PreferencesRepository   { return s.prefs }
func (s *stubTx) Sessions() shared.SessionRepository          { return s.sessions }
func (s *stubTx) Reads() shared.CommandReads                  { return s.reads }
func (s *stubTx) DB() db.DBTX                                 { return nil }

// stubUoW executes the transactional closure directly against the stub tx.
type stubUoW struct {
	tx *stubTx
}

func newStubUoW(reads *stubReads) *stubUoW {
	return &stubUoW{tx: newStubTx(reads)}
}

func (s *stubUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, s.tx)
}

func (s *stubUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (s *stubUoW) CommandReads() shared.CommandReads {
	return s.tx.reads
}
