package api

import (
	"errors"
	"net/http"

	reqdto "venue-offers/internal/handler/dto/request"
	resdto "venue-offers/internal/handler/dto/response"
	"venue-offers/internal/handler/middleware"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/usecase/commands"
	"venue-offers/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PartnerOpportunitiesHandler struct {
	oppCommands commands.OpportunityCommands
	catalog     queries.CatalogQueries
}

func NewPartnerOpportunitiesHandler(oppCommands commands.OpportunityCommands, catalog queries.CatalogQueries) *PartnerOpportunitiesHandler {
	return &PartnerOpportunitiesHandler{
		oppCommands: oppCommands,
		catalog:     catalog,
	}
}

func (h *PartnerOpportunitiesHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateOpportunityRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	opp, err := h.oppCommands.Create(c.Request.Context(), actor, req.ToParams())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrQuotaExceeded):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Active opportunity quota exceeded",
			})
		case errors.Is(err, errs.ErrValueRuleViolation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Value details below the minimum value rule",
			})
		case errors.Is(err, errs.ErrPartnerInactive):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Partner account is inactive",
			})
		case errors.Is(err, errs.ErrPartnerForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Forbidden",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromOpportunity(opp))
}

func (h *PartnerOpportunitiesHandler) List(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	list, err := h.catalog.ListOwned(c.Request.Context(), actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"opportunities": resdto.FromOpportunities(list)})
}

func (h *PartnerOpportunitiesHandler) Get(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid opportunity ID format",
		})
		return
	}

	opp, err := h.catalog.GetOwned(c.Request.Context(), actor, id)
	if err != nil {
		h.writeOwnedError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromOpportunity(opp))
}

func (h *PartnerOpportunitiesHandler) Update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid opportunity ID format",
		})
		return
	}

	var req reqdto.UpdateOpportunityRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	opp, err := h.oppCommands.Update(c.Request.Context(), actor, id, req.ToParams())
	if err != nil {
		if errors.Is(err, errs.ErrValueRuleViolation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Value details below the minimum value rule",
			})
			return
		}
		h.writeOwnedError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromOpportunity(opp))
}

// Delete soft-deletes; historical interactions keep pointing at the record.
func (h *PartnerOpportunitiesHandler) Delete(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid opportunity ID format",
		})
		return
	}

	if err := h.oppCommands.Deactivate(c.Request.Context(), actor, id); err != nil {
		h.writeOwnedError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PartnerOpportunitiesHandler) writeOwnedError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrOpportunityNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Opportunity not found",
		})
	case errors.Is(err, errs.ErrPartnerForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Opportunity belongs to another partner",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
