package commands

import (
	"context"
	"errors"
	"time"

	"venue-offers/internal/domain/claim"
	"venue-offers/internal/infra"
	"venue-offers/internal/pkg/clock"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/pkg/tracing"
	"venue-offers/internal/usecase/shared"

	"github.com/google/uuid"
)

type ValidateClaimResult struct {
	ClaimCode    string
	UserID       uuid.UUID
	ClaimedValue map[string]any
	AcceptedAt   time.Time
	ExpiresAt    time.Time
}

type CompleteClaimResult struct {
	ClaimCode          string
	PartnerRevenue     *float64
	PlatformCommission *float64
	CompletedAt        time.Time
}

type ClaimCommands interface {
	// Validate checks a claim code within the acting partner's namespace.
	// Validation is repeatable and never consumes the claim.
	Validate(ctx context.Context, actor shared.Actor, code string) (*ValidateClaimResult, error)
	// Complete consumes the claim (first-writer-wins) and books partner
	// revenue and platform commission when an amount is supplied.
	Complete(ctx context.Context, actor shared.Actor, code string, transactionAmount *float64) (*CompleteClaimResult, error)
}

type claimCommandsImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	tracer *tracing.Tracer
}

func NewClaimCommands(uow shared.UnitOfWork, clk clock.Clock, tracer *tracing.Tracer) ClaimCommands {
	return &claimCommandsImpl{uow: uow, clock: clk, tracer: tracer}
}

func (c *claimCommandsImpl) Validate(ctx context.Context, actor shared.Actor, code string) (*ValidateClaimResult, error) {
	ctx, span := c.tracer.StartSpan(ctx, "claims.Validate")
	defer span.End()

	if actor.Kind != shared.ActorPartner {
		return nil, errs.ErrPartnerForbidden
	}

	reads := c.uow.CommandReads()
	now := c.clock.Now()

	cl, err := reads.ClaimByCode(ctx, code, actor.PartnerID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrClaimInvalid
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := checkRedeemable(cl, now); err != nil {
		return nil, err
	}

	row, err := reads.InteractionByID(ctx, cl.InteractionID())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return &ValidateClaimResult{
		ClaimCode:    cl.Code(),
		UserID:       cl.UserID(),
		ClaimedValue: row.ClaimedValue(),
		AcceptedAt:   cl.IssuedAt(),
		ExpiresAt:    cl.ExpiresAt(),
	}, nil
}

func (c *claimCommandsImpl) Complete(ctx context.Context, actor shared.Actor, code string, transactionAmount *float64) (*CompleteClaimResult, error) {
	ctx, span := c.tracer.StartSpan(ctx, "claims.Complete")
	defer span.End()

	if actor.Kind != shared.ActorPartner {
		return nil, errs.ErrPartnerForbidden
	}

	now := c.clock.Now()
	var result *CompleteClaimResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reads := tx.Reads()

		cl, err := reads.ClaimByCode(ctx, code, actor.PartnerID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrClaimInvalid
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := checkRedeemable(cl, now); err != nil {
			return err
		}

		// Conditional update on redeemed_at IS NULL: under two concurrent
		// completes exactly one wins and commission is counted once.
		affected, err := tx.Claims().Redeem(ctx, tx.DB(), code, actor.PartnerID, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if affected == 0 {
			return errs.ErrClaimRedeemed
		}

		row, err := reads.InteractionByID(ctx, cl.InteractionID())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		var revenue, commission *float64
		if transactionAmount != nil && *transactionAmount > 0 {
			fee := *transactionAmount * actor.CommissionRate
			revenue = transactionAmount
			commission = &fee
		}

		row.Complete(revenue, commission, now)
		if err := tx.Interactions().Update(ctx, tx.DB(), row); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		result = &CompleteClaimResult{
			ClaimCode:          code,
			PartnerRevenue:     revenue,
			PlatformCommission: commission,
			CompletedAt:        now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func checkRedeemable(cl *claim.Claim, now time.Time) error {
	if err := cl.CheckRedeemable(now); err != nil {
		switch {
		case errors.Is(err, claim.ErrAlreadyRedeemed):
			return errs.ErrClaimRedeemed
		case errors.Is(err, claim.ErrExpired):
			return errs.ErrClaimExpired
		}
		return err
	}
	return nil
}
