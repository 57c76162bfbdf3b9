// Package user serves the signed-in user's own data.
package user

import (
	apphttp "lms_backend/internal/http"

	"go.mongodb.org/mongo-driver/mongo"
)

// Module is the user route group implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the user module.
func NewModule(database *mongo.Database) *Module {
	return NewModuleWithRepository(NewRepository(database))
}

// NewModuleWithRepository creates the module over an existing repository.
func NewModuleWithRepository(repo Repository) *Module {
	return &Module{handler: NewHandler(repo)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "user"
}

// RegisterRoutes mounts user routes behind authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.API.Group("/user")
	group.Use(ctx.RequireAuth)
	group.GET("/data", m.handler.GetData)
	group.GET("/purchases", m.handler.ListPurchases)
}

var _ apphttp.Module = (*Module)(nil)
