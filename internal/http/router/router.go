// Package router assembles the gin engine: global middleware, the webhook
// endpoints at the root, and the /api route groups.
package router

import (
	"context"
	"net/http"
	"time"

	apphttp "lms_backend/internal/http"
	"lms_backend/internal/http/middleware"
	"lms_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	ClerkWebhookPath  = "/clerk"
	StripeWebhookPath = "/stripe"

	healthCheckTimeout = 2 * time.Second
	roleEducator       = "educator"
)

// New builds the engine from the initialized application dependencies.
func New(app *apphttp.App) (*gin.Engine, error) {
	authenticate, err := httpkit.Authenticate(app.Config)
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(app.Config))
	engine.OPTIONS("/*path", middleware.Preflight())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(authenticate)
	engine.Use(middleware.BodyParser(app.Config.GetMaxBodyBytes(), StripeWebhookPath))

	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API Working")
	})
	engine.POST(ClerkWebhookPath, app.Webhooks.HandleClerk)
	engine.POST(StripeWebhookPath, app.Webhooks.HandleStripe)

	limiter := httpkit.NewIPRateLimiter(rate.Limit(app.Config.GetRateLimitRPS()), app.Config.GetRateLimitBurst(), app.Logger)
	api := engine.Group("/api")
	api.Use(limiter.RateLimit())
	api.GET("/health", healthHandler(app.Health))

	routerCtx := &apphttp.RouterContext{
		Engine:          engine,
		API:             api,
		RequireAuth:     httpkit.RequireAuth(),
		RequireEducator: httpkit.RequireRole(roleEducator),
	}
	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		app.Logger.Debug("registered module routes", "module", module.Name())
	}

	return engine, nil
}

func healthHandler(health apphttp.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		if err := health.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	}
}
