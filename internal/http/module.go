// Package http provides HTTP server infrastructure including the Module interface
// that every route group implements for route registration.
package http

import (
	"github.com/gin-gonic/gin"
)

// Module represents a route group mounted under /api.
// Each module encapsulates its own route setup, keeping the main router
// decoupled from specific endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router group.
	// The RouterContext provides access to shared middleware.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access.
	Engine *gin.Engine
	// API is the rate-limited /api route group.
	API *gin.RouterGroup
	// RequireAuth rejects anonymous callers.
	RequireAuth gin.HandlerFunc
	// RequireEducator rejects callers without the educator role.
	RequireEducator gin.HandlerFunc
}
