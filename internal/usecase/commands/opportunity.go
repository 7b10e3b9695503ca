package commands

import (
	"context"
	"errors"
	"time"

	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/infra"
	"venue-offers/internal/pkg/clock"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/pkg/geo"
	"venue-offers/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateOpportunityParams struct {
	Title                 string
	Proposition           string
	Category              string
	TriggerRules          map[string]any
	ValidFrom             time.Time
	ValidUntil            time.Time
	TotalCapacity         *int32
	ValueDetails          map[string]any
	Latitude              *float64
	Longitude             *float64
	MaxImpressionsPerUser int32
	CooldownHours         int32
	Priority              int32
}

// UpdateOpportunityParams patches only non-nil fields; the merged record is
// re-validated against the minimum-value rule before anything persists.
type UpdateOpportunityParams struct {
	Title         *string
	Proposition   *string
	Category      *string
	TriggerRules  map[string]any
	ValidFrom     *time.Time
	ValidUntil    *time.Time
	TotalCapacity *int32
	ValueDetails  map[string]any
	CooldownHours *int32
	Priority      *int32
}

type OpportunityCommands interface {
	Create(ctx context.Context, actor shared.Actor, params CreateOpportunityParams) (*opportunity.Opportunity, error)
	Update(ctx context.Context, actor shared.Actor, id uuid.UUID, params UpdateOpportunityParams) (*opportunity.Opportunity, error)
	// Deactivate soft-deletes: historical interactions are preserved.
	Deactivate(ctx context.Context, actor shared.Actor, id uuid.UUID) error
}

type opportunityCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewOpportunityCommands(uow shared.UnitOfWork, clk clock.Clock) OpportunityCommands {
	return &opportunityCommandsImpl{uow: uow, clock: clk}
}

func (o *opportunityCommandsImpl) Create(ctx context.Context, actor shared.Actor, params CreateOpportunityParams) (*opportunity.Opportunity, error) {
	if actor.Kind != shared.ActorPartner {
		return nil, errs.ErrPartnerForbidden
	}

	now := o.clock.Now()
	var created *opportunity.Opportunity

	err := o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reads := tx.Reads()

		partnerRec, err := reads.PartnerByID(ctx, actor.PartnerID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrPartnerNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !partnerRec.IsActive() {
			return errs.ErrPartnerInactive
		}

		active, err := reads.ActiveOpportunityCount(ctx, actor.PartnerID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if active >= partnerRec.OpportunityQuota() {
			return errs.ErrQuotaExceeded
		}

		entity, err := opportunity.New(
			uuid.New(),
			actor.PartnerID,
			params.Title,
			params.Proposition,
			opportunity.Category(params.Category),
			params.TriggerRules,
			params.ValidFrom,
			params.ValidUntil,
			params.TotalCapacity,
			params.ValueDetails,
			pointFrom(params.Latitude, params.Longitude),
			params.MaxImpressionsPerUser,
			params.CooldownHours,
			params.Priority,
			partnerRec.AutoApprove(),
			now,
		)
		if err != nil {
			return markValidation(err)
		}

		if err := tx.Opportunities().Create(ctx, tx.DB(), entity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		created = entity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (o *opportunityCommandsImpl) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, params UpdateOpportunityParams) (*opportunity.Opportunity, error) {
	if actor.Kind != shared.ActorPartner {
		return nil, errs.ErrPartnerForbidden
	}

	now := o.clock.Now()
	var updated *opportunity.Opportunity

	err := o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing, err := tx.Reads().OpportunityByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrOpportunityNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if existing.PartnerID() != actor.PartnerID {
			return errs.ErrPartnerForbidden
		}

		merged, err := mergeOpportunity(existing, params, now)
		if err != nil {
			return markValidation(err)
		}

		if err := tx.Opportunities().Update(ctx, tx.DB(), merged); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		updated = merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (o *opportunityCommandsImpl) Deactivate(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	if actor.Kind != shared.ActorPartner {
		return errs.ErrPartnerForbidden
	}

	now := o.clock.Now()
	return o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		affected, err := tx.Opportunities().Deactivate(ctx, tx.DB(), id, actor.PartnerID, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if affected == 0 {
			return errs.ErrOpportunityNotFound
		}
		return nil
	})
}

// mergeOpportunity applies the patch over the existing record and re-runs
// creation-grade validation, preserving capacity usage and approval state.
func mergeOpportunity(existing *opportunity.Opportunity, params UpdateOpportunityParams, now time.Time) (*opportunity.Opportunity, error) {
	title := existing.Title()
	if params.Title != nil {
		title = *params.Title
	}
	proposition := existing.Proposition()
	if params.Proposition != nil {
		proposition = *params.Proposition
	}
	category := existing.Category()
	if params.Category != nil {
		parsed, err := opportunity.ParseCategory(*params.Category)
		if err != nil {
			return nil, err
		}
		category = parsed
	}
	rules := existing.TriggerRules()
	if params.TriggerRules != nil {
		rules = params.TriggerRules
	}
	validFrom := existing.ValidFrom()
	if params.ValidFrom != nil {
		validFrom = *params.ValidFrom
	}
	validUntil := existing.ValidUntil()
	if params.ValidUntil != nil {
		validUntil = *params.ValidUntil
	}
	totalCapacity := existing.TotalCapacity()
	if params.TotalCapacity != nil {
		totalCapacity = params.TotalCapacity
	}
	details := existing.ValueDetails()
	if params.ValueDetails != nil {
		details = params.ValueDetails
	}
	cooldown := existing.CooldownHours()
	if params.CooldownHours != nil {
		cooldown = *params.CooldownHours
	}
	priority := existing.Priority()
	if params.Priority != nil {
		priority = *params.Priority
	}

	if title == "" {
		return nil, opportunity.ErrEmptyTitle
	}
	if !validFrom.Before(validUntil) {
		return nil, opportunity.ErrInvalidValidityWindow
	}
	if err := opportunity.ValueDetails(details).ValidateMinimumValue(); err != nil {
		return nil, err
	}

	return opportunity.Reconstruct(
		existing.ID(),
		existing.PartnerID(),
		title,
		proposition,
		category,
		rules,
		validFrom,
		validUntil,
		totalCapacity,
		existing.UsedCapacity(),
		details,
		existing.Location(),
		existing.MaxImpressionsPerUser(),
		cooldown,
		priority,
		existing.IsActive(),
		existing.IsApproved(),
		existing.CreatedAt(),
		now,
	), nil
}

func markValidation(err error) error {
	switch {
	case errors.Is(err, opportunity.ErrBelowMinimumValue),
		errors.Is(err, opportunity.ErrInvalidValidityWindow),
		errors.Is(err, opportunity.ErrEmptyTitle),
		errors.Is(err, opportunity.ErrInvalidCategory):
		return errs.Mark(err, errs.ErrValueRuleViolation)
	}
	return err
}

func pointFrom(lat, lng *float64) *geo.Point {
	if lat == nil || lng == nil {
		return nil
	}
	return &geo.Point{Lat: *lat, Lng: *lng}
}
