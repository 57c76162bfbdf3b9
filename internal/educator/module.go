// Package educator serves the educator dashboard: owned courses and media
// upload/download URLs.
package educator

import (
	apphttp "lms_backend/internal/http"
	"lms_backend/platform/logger"
	"lms_backend/platform/media"
	"lms_backend/platform/validator"

	"go.mongodb.org/mongo-driver/mongo"
)

// Module is the educator route group implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the educator module.
func NewModule(database *mongo.Database, mediaSvc media.Service, val *validator.Validator, log *logger.Logger) *Module {
	return NewModuleWithRepository(NewRepository(database), mediaSvc, val, log)
}

// NewModuleWithRepository creates the module over an existing repository.
func NewModuleWithRepository(repo Repository, mediaSvc media.Service, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{handler: NewHandler(repo, mediaSvc, val, log)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "educator"
}

// RegisterRoutes mounts educator routes behind the educator role.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.API.Group("/educator")
	group.Use(ctx.RequireEducator)
	group.GET("/courses", m.handler.ListCourses)
	group.POST("/media/upload-url", m.handler.CreateUploadURL)
	group.GET("/media/download-url", m.handler.CreateDownloadURL)
}

var _ apphttp.Module = (*Module)(nil)
