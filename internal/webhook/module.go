package webhook

import (
	apphttp "lms_backend/internal/http"
	"lms_backend/platform/config"
	"lms_backend/platform/logger"
	"lms_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// Module wires the webhook handlers. It is mounted at the root rather than
// under /api, so it implements http.WebhookHandlers instead of http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the webhook module.
func NewModule(database *mongo.Database, cfg config.WebhookConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	clerk, err := NewClerkVerifier(cfg.GetClerkWebhookSecret())
	if err != nil {
		return nil, err
	}
	strp := NewStripeVerifier(cfg.GetStripeWebhookSecret())

	svc := NewService(NewRepository(database), val, log)
	return &Module{handler: NewHandler(svc, clerk, strp, log)}, nil
}

// HandleClerk serves POST /clerk.
func (m *Module) HandleClerk(c *gin.Context) {
	m.handler.HandleClerk(c)
}

// HandleStripe serves POST /stripe.
func (m *Module) HandleStripe(c *gin.Context) {
	m.handler.HandleStripe(c)
}

var _ apphttp.WebhookHandlers = (*Module)(nil)
