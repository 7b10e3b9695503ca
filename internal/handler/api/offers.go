package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "venue-offers/internal/handler/dto/request"
	resdto "venue-offers/internal/handler/dto/response"
	"venue-offers/internal/handler/middleware"
	"venue-offers/internal/domain/interaction"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/usecase/commands"
	"venue-offers/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OffersHandler struct {
	discovery  queries.DiscoveryQueries
	history    queries.HistoryQueries
	redemption commands.RedemptionCommands
}

func NewOffersHandler(
	discovery queries.DiscoveryQueries,
	history queries.HistoryQueries,
	redemption commands.RedemptionCommands,
) *OffersHandler {
	return &OffersHandler{
		discovery:  discovery,
		history:    history,
		redemption: redemption,
	}
}

// Discover returns the ranked offers for a parking session. Anonymous callers
// get context-only ranking and leave no ledger rows.
func (h *OffersHandler) Discover(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Query("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing session_id",
		})
		return
	}

	userID := middleware.GetOptionalUserID(c)

	views, err := h.discovery.Discover(c.Request.Context(), sessionID, userID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Session not found",
			})
		case errors.Is(err, errs.ErrSessionForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Session belongs to another user",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	response, err := resdto.FromOfferViews(views)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": response})
}

func (h *OffersHandler) Detail(c *gin.Context) {
	opportunityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid offer ID format",
		})
		return
	}

	userID := middleware.GetOptionalUserID(c)

	var sessionID *uuid.UUID
	if raw := c.Query("session_id"); raw != "" {
		sid, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid session_id format",
			})
			return
		}
		sessionID = &sid
	}

	view, err := h.discovery.OfferDetail(c.Request.Context(), opportunityID, userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrOpportunityNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Offer not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromOfferDetailView(view))
}

func (h *OffersHandler) Accept(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	opportunityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid offer ID format",
		})
		return
	}

	var req reqdto.AcceptOfferRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.redemption.Accept(c.Request.Context(), opportunityID, req.SessionID, userID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrOpportunityNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Offer not found",
			})
		case errors.Is(err, errs.ErrOpportunityGone):
			c.JSON(http.StatusGone, gin.H{
				"error": "Offer no longer available",
			})
		case errors.Is(err, errs.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Session not found",
			})
		case errors.Is(err, errs.ErrSessionForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Session belongs to another user",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromAcceptResult(result))
}

func (h *OffersHandler) Dismiss(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	opportunityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid offer ID format",
		})
		return
	}

	var req reqdto.DismissOfferRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	err = h.redemption.Dismiss(c.Request.Context(), opportunityID, req.SessionID, userID, req.Reason, req.GetFeedback())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *OffersHandler) History(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var status *interaction.Type
	if raw := c.Query("status"); raw != "" {
		parsed, parseErr := interaction.ParseType(raw)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid status filter",
			})
			return
		}
		status = &parsed
	}

	var after *queries.Cursor
	if raw := c.Query("after"); raw != "" {
		after = &queries.Cursor{After: raw}
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, parseErr := strconv.Atoi(raw)
		if parseErr != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit",
			})
			return
		}
		limit = parsed
	}

	items, next, err := h.history.ListByUser(c.Request.Context(), userID, status, after, limit)
	if err != nil {
		if errors.Is(err, errs.ErrDatabaseOperationFailed) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid pagination cursor",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromHistoryPage(items, next))
}
