package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "venue-offers/internal/handler/dto/request"
	resdto "venue-offers/internal/handler/dto/response"
	"venue-offers/internal/handler/httperr"
	"venue-offers/internal/handler/middleware"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/usecase/commands"
	"venue-offers/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PartnerClaimsHandler struct {
	claims    commands.ClaimCommands
	analytics queries.AnalyticsQueries
}

func NewPartnerClaimsHandler(claims commands.ClaimCommands, analytics queries.AnalyticsQueries) *PartnerClaimsHandler {
	return &PartnerClaimsHandler{
		claims:    claims,
		analytics: analytics,
	}
}

// Validate never consumes the claim; staff may check a code any number of
// times before completing it.
func (h *PartnerClaimsHandler) Validate(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ValidateClaimRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.claims.Validate(c.Request.Context(), actor, reqdto.NormalizedCode(req.Code))
	if err != nil {
		h.writeClaimError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromValidateResult(result))
}

func (h *PartnerClaimsHandler) Complete(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CompleteClaimRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.claims.Complete(c.Request.Context(), actor, reqdto.NormalizedCode(req.Code), req.TransactionAmount)
	if err != nil {
		h.writeClaimError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCompleteResult(result))
}

func (h *PartnerClaimsHandler) Analytics(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	from, ok := parseTimeParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(c, "to")
	if !ok {
		return
	}

	view, err := h.analytics.PartnerAnalytics(c.Request.Context(), actor, from, to)
	if err != nil {
		if errors.Is(err, errs.ErrPartnerForbidden) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Forbidden",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response, err := resdto.FromAnalyticsView(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, response)
}

// writeClaimError keeps invalid, redeemed and expired distinguishable;
// the kiosk UI shows staff different guidance for each.
func (h *PartnerClaimsHandler) writeClaimError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrClaimInvalid):
		httperr.AbortWithReason(c, http.StatusUnprocessableEntity, err, "Claim code invalid", "invalid")
	case errors.Is(err, errs.ErrClaimRedeemed):
		httperr.AbortWithReason(c, http.StatusUnprocessableEntity, err, "Claim code already redeemed", "already_redeemed")
	case errors.Is(err, errs.ErrClaimExpired):
		httperr.AbortWithReason(c, http.StatusUnprocessableEntity, err, "Claim code expired", "expired")
	case errors.Is(err, errs.ErrPartnerForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Forbidden", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func parseTimeParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name + " timestamp, expected RFC3339",
		})
		return time.Time{}, false
	}
	return t, true
}
