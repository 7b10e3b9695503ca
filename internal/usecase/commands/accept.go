package commands

import (
	"context"
	"fmt"
	"time"

	"venue-offers/internal/domain/claim"
	"venue-offers/internal/domain/interaction"
	"venue-offers/internal/infra"
	"venue-offers/internal/pkg/claimcode"
	"venue-offers/internal/pkg/clock"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/pkg/tracing"
	"venue-offers/internal/usecase/shared"

	"github.com/google/uuid"
)

const claimCodeRetryBudget = 5

type AcceptResult struct {
	ClaimCode         string
	Instructions      string
	ValidUntil        time.Time
	ParkingExtendedBy int
}

type RedemptionCommands interface {
	// Accept re-checks availability, consumes capacity, issues a claim code
	// and extends the parking session when the benefit includes time.
	Accept(ctx context.Context, opportunityID, sessionID, userID uuid.UUID) (*AcceptResult, error)
	// Dismiss appends a dismissed ledger row; the opportunity stays hidden
	// for the opportunity's cooldown window.
	Dismiss(ctx context.Context, opportunityID, sessionID, userID uuid.UUID, reason string, feedback *string) error
}

type redemptionCommandsImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	tracer *tracing.Tracer
}

func NewRedemptionCommands(uow shared.UnitOfWork, clk clock.Clock, tracer *tracing.Tracer) RedemptionCommands {
	return &redemptionCommandsImpl{uow: uow, clock: clk, tracer: tracer}
}

func (r *redemptionCommandsImpl) Accept(ctx context.Context, opportunityID, sessionID, userID uuid.UUID) (*AcceptResult, error) {
	ctx, span := r.tracer.StartSpan(ctx, "redemption.Accept")
	defer span.End()

	now := r.clock.Now()
	var result *AcceptResult

	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reads := tx.Reads()

		opp, err := reads.OpportunityByID(ctx, opportunityID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrOpportunityNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		// Second authoritative check; discovery results may be stale.
		if availErr := opp.CheckAvailability(now); availErr != nil {
			return errs.Mark(availErr, errs.ErrOpportunityGone)
		}

		sess, err := reads.SessionByID(ctx, sessionID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrSessionNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if sess.OwnerID != nil && *sess.OwnerID != userID {
			return errs.ErrSessionForbidden
		}

		partnerRec, err := reads.PartnerByID(ctx, opp.PartnerID())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		// Atomic conditional increment; a concurrent accept that takes the
		// last slot turns this into Gone instead of overselling.
		if opp.TotalCapacity() != nil {
			consumed, err := tx.Opportunities().TryConsumeCapacity(ctx, tx.DB(), opp.ID(), now)
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if !consumed {
				return errs.ErrOpportunityGone
			}
		}

		row, err := r.acceptedInteraction(ctx, tx, userID, opportunityID, sessionID, sess.MinutesRemaining(now), now)
		if err != nil {
			return err
		}

		issued, err := r.issueClaim(ctx, tx, row.ID(), opp.ID(), opp.PartnerID(), userID, now)
		if err != nil {
			return err
		}

		row.Accept(issued.Code(), opp.ValueDetails(), now)
		if err := tx.Interactions().Update(ctx, tx.DB(), row); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		extension := opp.ValueDetails().ParkingExtensionMinutes()
		if extension > 0 {
			if err := tx.Sessions().ExtendExpiry(ctx, tx.DB(), sessionID, extension); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		result = &AcceptResult{
			ClaimCode: issued.Code(),
			Instructions: fmt.Sprintf(
				"Show code %s at %s before %s.",
				issued.Code(), partnerRec.Name(), issued.ExpiresAt().Format("Jan 2 15:04"),
			),
			ValidUntil:        issued.ExpiresAt(),
			ParkingExtendedBy: extension,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *redemptionCommandsImpl) Dismiss(ctx context.Context, opportunityID, sessionID, userID uuid.UUID, reason string, feedback *string) error {
	now := r.clock.Now()

	snapshot := map[string]any{
		interaction.SnapshotKeyDismissReason: reason,
		interaction.SnapshotKeyTimeOfDay:     now.Format("15:04"),
	}
	if feedback != nil && *feedback != "" {
		snapshot[interaction.SnapshotKeyDismissFeedback] = *feedback
	}

	row, err := interaction.New(uuid.New(), userID, opportunityID, sessionID, interaction.TypeDismissed, snapshot, now)
	if err != nil {
		return err
	}

	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Interactions().Append(ctx, tx.DB(), row)
	})
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

// acceptedInteraction appends a fresh accepted row. Earlier impressed or
// viewed rows for the same tuple stay untouched; engagement counts and the
// per-user impression cap both read those rows by type.
func (r *redemptionCommandsImpl) acceptedInteraction(
	ctx context.Context,
	tx shared.Tx,
	userID, opportunityID, sessionID uuid.UUID,
	minutesRemaining int,
	now time.Time,
) (*interaction.Interaction, error) {
	row, err := interaction.New(uuid.New(), userID, opportunityID, sessionID, interaction.TypeAccepted, map[string]any{
		interaction.SnapshotKeyMinutesRemaining: minutesRemaining,
		interaction.SnapshotKeyTimeOfDay:        now.Format("15:04"),
	}, now)
	if err != nil {
		return nil, err
	}
	if err := tx.Interactions().Append(ctx, tx.DB(), row); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return row, nil
}

// issueClaim inserts a claim row, regenerating the code on a uniqueness
// collision up to the retry budget, then falling back once to a randomized
// suffix. Codes are only unique within a partner's namespace.
func (r *redemptionCommandsImpl) issueClaim(
	ctx context.Context,
	tx shared.Tx,
	interactionID, opportunityID, partnerID, userID uuid.UUID,
	now time.Time,
) (*claim.Claim, error) {
	var lastCode string

	for attempt := 0; attempt < claimCodeRetryBudget; attempt++ {
		code, err := claimcode.Generate()
		if err != nil {
			return nil, err
		}
		lastCode = code

		c := claim.New(code, interactionID, opportunityID, partnerID, userID, now)
		err = tx.Claims().Create(ctx, tx.DB(), c)
		if err == nil {
			return c, nil
		}
		if !infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}

	suffixed, err := claimcode.WithSuffix(lastCode)
	if err != nil {
		return nil, err
	}
	c := claim.New(suffixed, interactionID, opportunityID, partnerID, userID, now)
	if err := tx.Claims().Create(ctx, tx.DB(), c); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return c, nil
}
