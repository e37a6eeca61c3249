package routes

import (
	"net/http"

	"github.com/Amber-bisht/watch-me/controllers"
	"github.com/Amber-bisht/watch-me/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the controllers that carry state
type Handlers struct {
	Auth      *controllers.AuthController
	Checkout  *controllers.CheckoutController
	Orders    *controllers.OrderController
	Shipments *controllers.ShipmentController
	Webhooks  *controllers.WebhookController
}

// RouterConfig holds the settings the router needs
type RouterConfig struct {
	JWTSecret     string
	SessionSecret string
	SecureCookies bool
	CORSOrigins   []string
}

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	router := gin.New()

	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.CORSMiddleware(cfg.CORSOrigins))
	router.Use(utils.SecurityHeadersMiddleware())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   int(utils.AdminTokenTTL.Seconds()),
		Path:     "/",
		Secure:   cfg.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(utils.SessionName, store))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": utils.AppName, "version": utils.APIVersion})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/" + utils.APIVersion)
	{
		initStoreRoutes(api, h)
		initAdminRoutes(api, cfg, h)
	}

	return router
}
