package response

import (
	"time"

	"venue-offers/internal/usecase/commands"

	"github.com/google/uuid"
)

type ValidateClaimResponse struct {
	Valid        bool           `json:"valid"`
	ClaimCode    string         `json:"claimCode"`
	UserID       uuid.UUID      `json:"userId"`
	ClaimedValue map[string]any `json:"claimedValue,omitempty"`
	AcceptedAt   time.Time      `json:"acceptedAt"`
	ExpiresAt    time.Time      `json:"expiresAt"`
}

func FromValidateResult(result *commands.ValidateClaimResult) *ValidateClaimResponse {
	return &ValidateClaimResponse{
		Valid:        true,
		ClaimCode:    result.ClaimCode,
		UserID:       result.UserID,
		ClaimedValue: result.ClaimedValue,
		AcceptedAt:   result.AcceptedAt,
		ExpiresAt:    result.ExpiresAt,
	}
}

type CompleteClaimResponse struct {
	ClaimCode          string    `json:"claimCode"`
	PartnerRevenue     *float64  `json:"partnerRevenue,omitempty"`
	PlatformCommission *float64  `json:"platformCommission,omitempty"`
	CompletedAt        time.Time `json:"completedAt"`
}

func FromCompleteResult(result *commands.CompleteClaimResult) *CompleteClaimResponse {
	return &CompleteClaimResponse{
		ClaimCode:          result.ClaimCode,
		PartnerRevenue:     result.PartnerRevenue,
		PlatformCommission: result.PlatformCommission,
		CompletedAt:        result.CompletedAt,
	}
}
