//go:build unit

package commands_test

import (
	"testing"
	"time"

	"venue-offers/internal/domain/claim"
	"venue-offers/internal/domain/interaction"
	"venue-offers/internal/pkg/clock"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/usecase/commands"
	"venue-offers/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type claimFixture struct {
	now       time.Time
	partnerID uuid.UUID
	userID    uuid.UUID
	actor     shared.Actor
	claim     *claim.Claim
	row       *interaction.Interaction
	uow       *stubUoW
	sut       commands.ClaimCommands
}

func newClaimFixture(t *testing.T, redeemedAt *time.Time) *claimFixture {
	t.Helper()

	f := &claimFixture{
		now:       time.Date(2025, 6, 6, 18, 0, 0, 0, time.UTC),
		partnerID: uuid.New(),
		userID:    uuid.New(),
	}
	f.actor = shared.PartnerActor(f.partnerID, 0.1)

	issued := f.now.Add(-2 * time.Hour)
	interactionID := uuid.New()
	f.claim = claim.Reconstruct(
		"WXYZ2345", interactionID, uuid.New(), f.partnerID, f.userID,
		issued, issued.Add(claim.TTL), redeemedAt,
	)

	var err error
	f.row, err = interaction.New(interactionID, f.userID, f.claim.OpportunityID(), uuid.New(),
		interaction.TypeAccepted, nil, issued)
	require.NoError(t, err)
	f.row.Accept("WXYZ2345", map[string]any{"discount_percentage": 20.0}, issued)

	reads := &stubReads{
		claimByCode: func(code string, partnerID uuid.UUID) (*claim.Claim, error) {
			if code != f.claim.Code() || partnerID != f.partnerID {
				return nil, notFound()
			}
			return f.claim, nil
		},
		interactionByID: func(id uuid.UUID) (*interaction.Interaction, error) {
			if id != interactionID {
				return nil, notFound()
			}
			return f.row, nil
		},
	}
	f.uow = newStubUoW(reads)
	f.uow.tx.claims.redeemAffected = 1
	f.sut = commands.NewClaimCommands(f.uow, clock.NewMockClock(f.now), newTestTracer(t))
	return f
}

func TestValidateClaim(t *testing.T) {
	t.Run("valid code", func(t *testing.T) {
		f := newClaimFixture(t, nil)

		result, err := f.sut.Validate(t.Context(), f.actor, "WXYZ2345")
		require.NoError(t, err)

		assert.Equal(t, "WXYZ2345", result.ClaimCode)
		assert.Equal(t, f.userID, result.UserID)
		assert.Equal(t, map[string]any{"discount_percentage": 20.0}, result.ClaimedValue)
		assert.Equal(t, f.claim.IssuedAt(), result.AcceptedAt)
		assert.Equal(t, f.claim.ExpiresAt(), result.ExpiresAt)
	})

	t.Run("validation is repeatable", func(t *testing.T) {
		f := newClaimFixture(t, nil)

		for i := 0; i < 3; i++ {
			_, err := f.sut.Validate(t.Context(), f.actor, "WXYZ2345")
			require.NoError(t, err)
		}
		assert.Zero(t, f.uow.tx.claims.redeemCalls)
	})

	t.Run("unknown code", func(t *testing.T) {
		f := newClaimFixture(t, nil)

		_, err := f.sut.Validate(t.Context(), f.actor, "NOPE2345")
		require.ErrorIs(t, err, errs.ErrClaimInvalid)
	})

	t.Run("another partner's code looks invalid", func(t *testing.T) {
		f := newClaimFixture(t, nil)
		other := shared.PartnerActor(uuid.New(), 0.1)

		_, err := f.sut.Validate(t.Context(), other, "WXYZ2345")
		require.ErrorIs(t, err, errs.ErrClaimInvalid)
	})

	t.Run("already redeemed", func(t *testing.T) {
		redeemed := time.Date(2025, 6, 6, 17, 0, 0, 0, time.UTC)
		f := newClaimFixture(t, &redeemed)

		_, err := f.sut.Validate(t.Context(), f.actor, "WXYZ2345")
		require.ErrorIs(t, err, errs.ErrClaimRedeemed)
	})

	t.Run("expired", func(t *testing.T) {
		f := newClaimFixture(t, nil)
		f.sut = commands.NewClaimCommands(f.uow,
			clock.NewMockClock(f.claim.ExpiresAt().Add(time.Minute)), newTestTracer(t))

		_, err := f.sut.Validate(t.Context(), f.actor, "WXYZ2345")
		require.ErrorIs(t, err, errs.ErrClaimExpired)
	})

	t.Run("admin actor is not a partner", func(t *testing.T) {
		f := newClaimFixture(t, nil)

		_, err := f.sut.Validate(t.Context(), shared.AdminActor(uuid.New()), "WXYZ2345")
		require.ErrorIs(t, err, errs.ErrPartnerForbidden)
	})
}

func TestCompleteClaim(t *testing.T) {
	t.Run("books revenue and commission", func(t *testing.T) {
		f := newClaimFixture(t, nil)
		amount := 45.0

		result, err := f.sut.Complete(t.Context(), f.actor, "WXYZ2345", &amount)
		require.NoError(t, err)

		require.NotNil(t, result.PartnerRevenue)
		assert.Equal(t, 45.0, *result.PartnerRevenue)
		require.NotNil(t, result.PlatformCommission)
		assert.InDelta(t, 4.5, *result.PlatformCommission, 1e-9)
		assert.Equal(t, f.now, result.CompletedAt)

		assert.Equal(t, 1, f.uow.tx.claims.redeemCalls)
		require.Len(t, f.uow.tx.interactions.updated, 1)
		row := f.uow.tx.interactions.updated[0]
		assert.Equal(t, interaction.TypeCompleted, row.Kind())
		require.NotNil(t, row.PartnerRevenue())
		assert.Equal(t, 45.0, *row.PartnerRevenue())
	})

	t.Run("no transaction amount completes without bookkeeping", func(t *testing.T) {
		f := newClaimFixture(t, nil)

		result, err := f.sut.Complete(t.Context(), f.actor, "WXYZ2345", nil)
		require.NoError(t, err)
		assert.Nil(t, result.PartnerRevenue)
		assert.Nil(t, result.PlatformCommission)
	})

	t.Run("first writer wins under concurrent completes", func(t *testing.T) {
		f := newClaimFixture(t, nil)
		f.uow.tx.claims.redeemAffected = 0

		_, err := f.sut.Complete(t.Context(), f.actor, "WXYZ2345", nil)
		require.ErrorIs(t, err, errs.ErrClaimRedeemed)
		assert.Empty(t, f.uow.tx.interactions.updated)
	})

	t.Run("already redeemed before the attempt", func(t *testing.T) {
		redeemed := time.Date(2025, 6, 6, 17, 0, 0, 0, time.UTC)
		f := newClaimFixture(t, &redeemed)

		_, err := f.sut.Complete(t.Context(), f.actor, "WXYZ2345", nil)
		require.ErrorIs(t, err, errs.ErrClaimRedeemed)
		assert.Zero(t, f.uow.tx.claims.redeemCalls)
	})

	t.Run("unknown code", func(t *testing.T) {
		f := newClaimFixture(t, nil)

		_, err := f.sut.Complete(t.Context(), f.actor, "NOPE2345", nil)
		require.ErrorIs(t, err, errs.ErrClaimInvalid)
	})

	t.Run("admin actor is not a partner", func(t *testing.T) {
		f := newClaimFixture(t, nil)

		_, err := f.sut.Complete(t.Context(), shared.AdminActor(uuid.New()), "WXYZ2345", nil)
		require.ErrorIs(t, err, errs.ErrPartnerForbidden)
	})
}
