package partner

import (
	"errors"
	"time"

	"venue-offers/internal/pkg/geo"

	"github.com/google/uuid"
)

var (
	ErrEmptyName             = errors.New("partner name is required")
	ErrInvalidCommissionRate = errors.New("commission rate must be between 0 and 1")
	ErrInvalidQuota          = errors.New("opportunity quota must be positive")
)

const DefaultOpportunityQuota = 10

type Partner struct {
	id             uuid.UUID
	name           string
	contactEmail   string
	location       *geo.Point
	credentialHash string
	commissionRate float64
	autoApprove    bool
	opportunityQuota int32
	active         bool
	createdAt      time.Time
	updatedAt      time.Time
}

func New(
	id uuid.UUID,
	name string,
	contactEmail string,
	location *geo.Point,
	credentialHash string,
	commissionRate float64,
	autoApprove bool,
	opportunityQuota int32,
	now time.Time,
) (*Partner, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if commissionRate < 0 || commissionRate > 1 {
		return nil, ErrInvalidCommissionRate
	}
	if opportunityQuota <= 0 {
		opportunityQuota = DefaultOpportunityQuota
	}

	return &Partner{
		id:             id,
		name:           name,
		contactEmail:   contactEmail,
		location:       location,
		credentialHash: credentialHash,
		commissionRate: commissionRate,
		autoApprove:    autoApprove,
		opportunityQuota: opportunityQuota,
		active:         true,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	name string,
	contactEmail string,
	location *geo.Point,
	credentialHash string,
	commissionRate float64,
	autoApprove bool,
	opportunityQuota int32,
	active bool,
	createdAt, updatedAt time.Time,
) *Partner {
	return &Partner{
		id:             id,
		name:           name,
		contactEmail:   contactEmail,
		location:       location,
		credentialHash: credentialHash,
		commissionRate: commissionRate,
		autoApprove:    autoApprove,
		opportunityQuota: opportunityQuota,
		active:         active,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// CommissionOn returns the platform's share of a completed transaction.
func (p *Partner) CommissionOn(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	return amount * p.commissionRate
}

func (p *Partner) ID() uuid.UUID           { return p.id }
func (p *Partner) Name() string            { return p.name }
func (p *Partner) ContactEmail() string    { return p.contactEmail }
func (p *Partner) Location() *geo.Point    { return p.location }
func (p *Partner) CredentialHash() string  { return p.credentialHash }
func (p *Partner) CommissionRate() float64 { return p.commissionRate }
func (p *Partner) AutoApprove() bool       { return p.autoApprove }
func (p *Partner) OpportunityQuota() int32 { return p.opportunityQuota }
func (p *Partner) IsActive() bool          { return p.active }
func (p *Partner) CreatedAt() time.Time    { return p.createdAt }
func (p *Partner) UpdatedAt() time.Time    { return p.updatedAt }
