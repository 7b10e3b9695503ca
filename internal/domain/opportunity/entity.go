package opportunity

import (
	"errors"
	"time"

	"venue-offers/internal/pkg/geo"

	"github.com/google/uuid"
)

var (
	ErrInvalidValidityWindow = errors.New("valid_from must be before valid_until")
	ErrEmptyTitle            = errors.New("title is required")
	ErrInactive              = errors.New("opportunity is inactive")
	ErrNotApproved           = errors.New("opportunity is not approved")
	ErrOutsideValidity       = errors.New("opportunity is outside its validity window")
	ErrCapacityExhausted     = errors.New("opportunity capacity exhausted")
)

const DefaultCooldownHours = 24

type Opportunity struct {
	id                    uuid.UUID
	partnerID             uuid.UUID
	title                 string
	proposition           string
	category              Category
	triggerRules          TriggerRules
	validFrom             time.Time
	validUntil            time.Time
	totalCapacity         *int32
	usedCapacity          int32
	valueDetails          ValueDetails
	location              *geo.Point
	maxImpressionsPerUser int32
	cooldownHours         int32
	priority              int32
	active                bool
	approved              bool
	createdAt             time.Time
	updatedAt             time.Time
}

// New validates and builds an opportunity at creation time. Approval is the
// caller's decision (auto-approved partners publish immediately).
func New(
	id uuid.UUID,
	partnerID uuid.UUID,
	title string,
	proposition string,
	category Category,
	triggerRules TriggerRules,
	validFrom, validUntil time.Time,
	totalCapacity *int32,
	valueDetails ValueDetails,
	location *geo.Point,
	maxImpressionsPerUser int32,
	cooldownHours int32,
	priority int32,
	approved bool,
	now time.Time,
) (*Opportunity, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if _, err := ParseCategory(string(category)); err != nil {
		return nil, err
	}
	if !validFrom.Before(validUntil) {
		return nil, ErrInvalidValidityWindow
	}
	if err := valueDetails.ValidateMinimumValue(); err != nil {
		return nil, err
	}
	if triggerRules == nil {
		triggerRules = TriggerRules{}
	}
	if cooldownHours <= 0 {
		cooldownHours = DefaultCooldownHours
	}

	return &Opportunity{
		id:                    id,
		partnerID:             partnerID,
		title:                 title,
		proposition:           proposition,
		category:              category,
		triggerRules:          triggerRules,
		validFrom:             validFrom,
		validUntil:            validUntil,
		totalCapacity:         totalCapacity,
		valueDetails:          valueDetails,
		location:              location,
		maxImpressionsPerUser: maxImpressionsPerUser,
		cooldownHours:         cooldownHours,
		priority:              priority,
		active:                true,
		approved:              approved,
		createdAt:             now,
		updatedAt:             now,
	}, nil
}

// Reconstruct rebuilds an opportunity from storage without re-running
// creation validation; rows already persisted are trusted.
func Reconstruct(
	id uuid.UUID,
	partnerID uuid.UUID,
	title string,
	proposition string,
	category Category,
	triggerRules TriggerRules,
	validFrom, validUntil time.Time,
	totalCapacity *int32,
	usedCapacity int32,
	valueDetails ValueDetails,
	location *geo.Point,
	maxImpressionsPerUser int32,
	cooldownHours int32,
	priority int32,
	active, approved bool,
	createdAt, updatedAt time.Time,
) *Opportunity {
	return &Opportunity{
		id:                    id,
		partnerID:             partnerID,
		title:                 title,
		proposition:           proposition,
		category:              category,
		triggerRules:          triggerRules,
		validFrom:             validFrom,
		validUntil:            validUntil,
		totalCapacity:         totalCapacity,
		usedCapacity:          usedCapacity,
		valueDetails:          valueDetails,
		location:              location,
		maxImpressionsPerUser: maxImpressionsPerUser,
		cooldownHours:         cooldownHours,
		priority:              priority,
		active:                active,
		approved:              approved,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}
}

func (o *Opportunity) IsValidAt(t time.Time) bool {
	return !t.Before(o.validFrom) && !t.After(o.validUntil)
}

func (o *Opportunity) HasCapacity() bool {
	if o.totalCapacity == nil {
		return true
	}
	return o.usedCapacity < *o.totalCapacity
}

// RemainingCapacityRatio returns remaining/total; unlimited=true when no
// capacity is configured.
func (o *Opportunity) RemainingCapacityRatio() (ratio float64, unlimited bool) {
	if o.totalCapacity == nil || *o.totalCapacity == 0 {
		return 0, true
	}
	remaining := *o.totalCapacity - o.usedCapacity
	return float64(remaining) / float64(*o.totalCapacity), false
}

// CheckAvailability is the authoritative acceptance-time check, independent
// of any earlier discovery filtering.
func (o *Opportunity) CheckAvailability(now time.Time) error {
	if !o.active {
		return ErrInactive
	}
	if !o.approved {
		return ErrNotApproved
	}
	if !o.IsValidAt(now) {
		return ErrOutsideValidity
	}
	if !o.HasCapacity() {
		return ErrCapacityExhausted
	}
	return nil
}

func (o *Opportunity) Cooldown() time.Duration {
	return time.Duration(o.cooldownHours) * time.Hour
}

func (o *Opportunity) ID() uuid.UUID                { return o.id }
func (o *Opportunity) PartnerID() uuid.UUID         { return o.partnerID }
func (o *Opportunity) Title() string                { return o.title }
func (o *Opportunity) Proposition() string          { return o.proposition }
func (o *Opportunity) Category() Category           { return o.category }
func (o *Opportunity) TriggerRules() TriggerRules   { return o.triggerRules }
func (o *Opportunity) ValidFrom() time.Time         { return o.validFrom }
func (o *Opportunity) ValidUntil() time.Time        { return o.validUntil }
func (o *Opportunity) TotalCapacity() *int32        { return o.totalCapacity }
func (o *Opportunity) UsedCapacity() int32          { return o.usedCapacity }
func (o *Opportunity) ValueDetails() ValueDetails   { return o.valueDetails }
func (o *Opportunity) Location() *geo.Point         { return o.location }
func (o *Opportunity) MaxImpressionsPerUser() int32 { return o.maxImpressionsPerUser }
func (o *Opportunity) CooldownHours() int32         { return o.cooldownHours }
func (o *Opportunity) Priority() int32              { return o.priority }
func (o *Opportunity) IsActive() bool               { return o.active }
func (o *Opportunity) IsApproved() bool             { return o.approved }
func (o *Opportunity) CreatedAt() time.Time         { return o.createdAt }
func (o *Opportunity) UpdatedAt() time.Time         { return o.updatedAt }
