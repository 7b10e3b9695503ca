package usecase

import (
	"venue-offers/internal/pkg/jwt"

	"github.com/google/uuid"
)

// TokenValidator abstracts JWT verification for the auth middleware.
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{jwtService: jwtService}
}

func (v *tokenValidatorImpl) ValidateToken(token string) (uuid.UUID, error) {
	claims, err := v.jwtService.ValidateToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}
