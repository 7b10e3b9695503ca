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
)

type PreferencesHandler struct {
	prefQueries  queries.PreferenceQueries
	prefCommands commands.PreferenceCommands
}

func NewPreferencesHandler(prefQueries queries.PreferenceQueries, prefCommands commands.PreferenceCommands) *PreferencesHandler {
	return &PreferencesHandler{
		prefQueries:  prefQueries,
		prefCommands: prefCommands,
	}
}

func (h *PreferencesHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	prefs, err := h.prefQueries.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromPreferences(prefs))
}

// Put replaces the whole record; partial updates are not supported so stale
// clients cannot silently resurrect old settings.
func (h *PreferencesHandler) Put(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.UpdatePreferencesRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	prefs, err := h.prefCommands.Replace(c.Request.Context(), userID, req.ToParams())
	if err != nil {
		if errors.Is(err, errs.ErrDatabaseOperationFailed) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Invalid preference values",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromPreferences(prefs))
}
