// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"lms_backend/platform/config"
	"lms_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.CORSConfig
	config.AuthConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// WebhookHandlers receives the two inbound provider callbacks.
// HandleStripe runs on the raw-body path; HandleClerk on the JSON path.
type WebhookHandlers interface {
	HandleClerk(c *gin.Context)
	HandleStripe(c *gin.Context)
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP, CORS and auth settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness checks (database ping).
	Health HealthChecker
	// Webhooks handles POST /clerk and POST /stripe.
	Webhooks WebhookHandlers
	// Modules contains the /api route groups.
	Modules []Module
}
