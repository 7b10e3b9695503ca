package usecase

import (
	"context"

	"venue-offers/internal/infra"
	"venue-offers/internal/pkg/credential"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/usecase/shared"

	"github.com/google/uuid"
)

// PartnerAuthenticator resolves the partner-scoped credential headers into a
// typed actor exactly once, at the handler boundary.
type PartnerAuthenticator interface {
	Authenticate(ctx context.Context, partnerID uuid.UUID, secret string) (shared.Actor, error)
}

type partnerAuthenticatorImpl struct {
	reads shared.CommandReads
}

func NewPartnerAuthenticator(reads shared.CommandReads) PartnerAuthenticator {
	return &partnerAuthenticatorImpl{reads: reads}
}

func (a *partnerAuthenticatorImpl) Authenticate(ctx context.Context, partnerID uuid.UUID, secret string) (shared.Actor, error) {
	rec, err := a.reads.PartnerByID(ctx, partnerID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return shared.Actor{}, errs.ErrPartnerNotFound
		}
		return shared.Actor{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if !rec.IsActive() {
		return shared.Actor{}, errs.ErrPartnerInactive
	}

	if err := credential.CompareSecret(rec.CredentialHash(), secret); err != nil {
		return shared.Actor{}, errs.ErrPartnerForbidden
	}

	return shared.PartnerActor(rec.ID(), rec.CommissionRate()), nil
}
