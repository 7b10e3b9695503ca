package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"venue-offers/internal/handler/api"
	"venue-offers/internal/handler/middleware"
	"venue-offers/internal/pkg/config"
	"venue-offers/internal/pkg/tracing"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	tracer *tracing.Tracer,
	offersHandler *api.OffersHandler,
	preferencesHandler *api.PreferencesHandler,
	partnerOpportunitiesHandler *api.PartnerOpportunitiesHandler,
	partnerClaimsHandler *api.PartnerClaimsHandler,
	authMiddleware *middleware.AuthMiddleware,
	partnerAuthMiddleware *middleware.PartnerAuthMiddleware,
) {
	setupMiddleware(engine, cfg, tracer)
	setupRoutes(engine, offersHandler, preferencesHandler, partnerOpportunitiesHandler, partnerClaimsHandler, authMiddleware, partnerAuthMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, tracer *tracing.Tracer) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.TracingMiddleware(tracer))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	offersHandler *api.OffersHandler,
	preferencesHandler *api.PreferencesHandler,
	partnerOpportunitiesHandler *api.PartnerOpportunitiesHandler,
	partnerClaimsHandler *api.PartnerClaimsHandler,
	authMiddleware *middleware.AuthMiddleware,
	partnerAuthMiddleware *middleware.PartnerAuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		offers := apiGroup.Group("/offers")
		{
			// Static paths before the :id wildcard.
			prefs := offers.Group("/preferences")
			prefs.Use(authMiddleware.RequireAuth())
			addRoutes(prefs, []route{
				{Method: http.MethodGet, Path: "", Handler: preferencesHandler.Get},
				{Method: http.MethodPut, Path: "", Handler: preferencesHandler.Put},
			})

			history := offers.Group("/history")
			history.Use(authMiddleware.RequireAuth())
			addRoutes(history, []route{
				{Method: http.MethodGet, Path: "", Handler: offersHandler.History},
			})

			browse := offers.Group("")
			browse.Use(authMiddleware.OptionalAuth())
			addRoutes(browse, []route{
				{Method: http.MethodGet, Path: "/discover", Handler: offersHandler.Discover},
				{Method: http.MethodGet, Path: "/:id", Handler: offersHandler.Detail},
			})

			engage := offers.Group("")
			engage.Use(authMiddleware.RequireAuth())
			addRoutes(engage, []route{
				{Method: http.MethodPost, Path: "/:id/accept", Handler: offersHandler.Accept},
				{Method: http.MethodPost, Path: "/:id/dismiss", Handler: offersHandler.Dismiss},
			})
		}

		partner := apiGroup.Group("/partner")
		partner.Use(partnerAuthMiddleware.RequirePartner())
		{
			addRoutes(partner, []route{
				{Method: http.MethodPost, Path: "/opportunities", Handler: partnerOpportunitiesHandler.Create},
				{Method: http.MethodGet, Path: "/opportunities", Handler: partnerOpportunitiesHandler.List},
				{Method: http.MethodGet, Path: "/opportunities/:id", Handler: partnerOpportunitiesHandler.Get},
				{Method: http.MethodPatch, Path: "/opportunities/:id", Handler: partnerOpportunitiesHandler.Update},
				{Method: http.MethodDelete, Path: "/opportunities/:id", Handler: partnerOpportunitiesHandler.Delete},
				{Method: http.MethodPost, Path: "/claims/validate", Handler: partnerClaimsHandler.Validate},
				{Method: http.MethodPost, Path: "/claims/complete", Handler: partnerClaimsHandler.Complete},
				{Method: http.MethodGet, Path: "/analytics", Handler: partnerClaimsHandler.Analytics},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
