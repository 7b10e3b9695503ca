package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/usecase"
	"venue-offers/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	partnerIDHeader  = "X-Partner-ID"
	partnerKeyHeader = "X-Partner-Key"

	ctxActorKey = "actor"
)

// PartnerAuthMiddleware resolves partner credentials into a typed actor once
// per request. Handlers downstream read the actor from context and never see
// raw credentials.
type PartnerAuthMiddleware struct {
	authenticator usecase.PartnerAuthenticator
}

func NewPartnerAuthMiddleware(authenticator usecase.PartnerAuthenticator) *PartnerAuthMiddleware {
	return &PartnerAuthMiddleware{authenticator: authenticator}
}

func (m *PartnerAuthMiddleware) RequirePartner() gin.HandlerFunc {
	return func(c *gin.Context) {
		idHeader := c.GetHeader(partnerIDHeader)
		key := c.GetHeader(partnerKeyHeader)
		if idHeader == "" || key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Partner credentials required",
			})
			c.Abort()
			return
		}

		partnerID, err := uuid.Parse(idHeader)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid partner credentials",
			})
			c.Abort()
			return
		}

		actor, err := m.authenticator.Authenticate(c.Request.Context(), partnerID, key)
		if err != nil {
			// Wrong id, wrong key and disabled account are indistinguishable
			// to the caller.
			if !errors.Is(err, errs.ErrPartnerNotFound) &&
				!errors.Is(err, errs.ErrPartnerInactive) &&
				!errors.Is(err, errs.ErrPartnerForbidden) {
				slog.Warn("partner authentication failed", "error", err.Error())
			}
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid partner credentials",
			})
			c.Abort()
			return
		}

		c.Set(ctxActorKey, actor)
		c.Next()
	}
}

func GetActor(c *gin.Context) (shared.Actor, bool) {
	v, exists := c.Get(ctxActorKey)
	if !exists {
		return shared.Actor{}, false
	}

	actor, ok := v.(shared.Actor)
	return actor, ok
}
