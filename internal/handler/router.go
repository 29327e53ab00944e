package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"karabox/internal/handler/api"
	"karabox/internal/handler/middleware"
	"karabox/internal/pkg/config"
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
	redisClient *redis.Client,
	reservationHandler *api.ReservationHandler,
	paymentHandler *api.PaymentHandler,
	accessHandler *api.AccessHandler,
	loyaltyHandler *api.LoyaltyHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg, redisClient)
	setupRoutes(engine, reservationHandler, paymentHandler, accessHandler, loyaltyHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, redisClient *redis.Client) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.RateLimitMiddleware(redisClient, cfg.Redis))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	reservationHandler *api.ReservationHandler,
	paymentHandler *api.PaymentHandler,
	accessHandler *api.AccessHandler,
	loyaltyHandler *api.LoyaltyHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		reservations := apiGroup.Group("/reservations")
		// Booking stays open to anonymous customers; a valid token only adds
		// loyalty context on top.
		reservations.Use(authMiddleware.OptionalAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "/verify-cart", Handler: reservationHandler.VerifyCart},
				{Method: http.MethodPost, Path: "/confirm", Handler: reservationHandler.Confirm},
				{Method: http.MethodGet, Path: "/slots", Handler: reservationHandler.SlotsByDate},
			})
		}

		payments := apiGroup.Group("/payments")
		{
			addRoutes(payments, []route{
				{Method: http.MethodPost, Path: "/intent", Handler: paymentHandler.CreateIntent},
				{Method: http.MethodPost, Path: "/deposit/authorize", Handler: paymentHandler.AuthorizeDeposit},
				{Method: http.MethodPost, Path: "/deposit/capture", Handler: paymentHandler.CaptureDeposit},
				{Method: http.MethodPost, Path: "/deposit/cancel", Handler: paymentHandler.CancelDeposit},
			})
		}

		access := apiGroup.Group("/access")
		{
			addRoutes(access, []route{
				{Method: http.MethodGet, Path: "/check", Handler: accessHandler.Check},
			})
		}

		loyalty := apiGroup.Group("/loyalty")
		loyalty.Use(authMiddleware.RequireAuth())
		{
			addRoutes(loyalty, []route{
				{Method: http.MethodGet, Path: "", Handler: loyaltyHandler.Balance},
				{Method: http.MethodPost, Path: "/redeem", Handler: loyaltyHandler.Redeem},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
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
