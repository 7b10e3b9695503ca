package request

import (
	"strings"

	"github.com/google/uuid"
)

type AcceptOfferRequest struct {
	SessionID uuid.UUID `json:"session_id" binding:"required"`
}

type DismissOfferRequest struct {
	SessionID uuid.UUID `json:"session_id" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
	Feedback  *string   `json:"feedback,omitempty"`
}

func (r DismissOfferRequest) GetFeedback() *string {
	if r.Feedback == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.Feedback)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
