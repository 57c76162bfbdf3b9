// Package course serves the public course catalog.
package course

import (
	apphttp "lms_backend/internal/http"

	"go.mongodb.org/mongo-driver/mongo"
)

// Module is the course route group implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the course module.
func NewModule(database *mongo.Database) *Module {
	return NewModuleWithRepository(NewRepository(database))
}

// NewModuleWithRepository creates the module over an existing repository.
func NewModuleWithRepository(repo Repository) *Module {
	return &Module{handler: NewHandler(repo)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "course"
}

// RegisterRoutes mounts course routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.API.Group("/course")
	group.GET("/all", m.handler.List)
	group.GET("/:id", m.handler.Get)
}

var _ apphttp.Module = (*Module)(nil)
