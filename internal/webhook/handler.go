package webhook

import (
	"errors"
	"io"
	"net/http"

	"lms_backend/platform/apperr"
	"lms_backend/platform/httpkit"
	"lms_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidSignature = "invalid signature"
	msgUnreadableBody   = "unreadable body"

	svixIDHeader          = "svix-id"
	stripeSignatureHeader = "Stripe-Signature"
)

// Handler handles the provider callbacks.
type Handler struct {
	svc   *Service
	clerk ClerkVerifier
	strp  StripeVerifier
	log   *logger.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(svc *Service, clerk ClerkVerifier, strp StripeVerifier, log *logger.Logger) *Handler {
	return &Handler{svc: svc, clerk: clerk, strp: strp, log: log}
}

// HandleClerk processes user lifecycle events.
// POST /clerk
func (h *Handler) HandleClerk(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.WebhookRejected(ProviderClerk, msgUnreadableBody, err)
		httpkit.Error(c, http.StatusBadRequest, msgUnreadableBody, nil)
		return
	}

	if err := h.clerk.Verify(payload, c.Request.Header); err != nil {
		h.log.WebhookRejected(ProviderClerk, msgInvalidSignature, err)
		httpkit.Error(c, http.StatusBadRequest, msgInvalidSignature, nil)
		return
	}

	messageID := c.GetHeader(svixIDHeader)
	applied, err := h.svc.ProcessClerkEvent(c.Request.Context(), messageID, payload)
	if err != nil {
		h.reject(c, ProviderClerk, err)
		return
	}
	if !applied {
		h.log.Debug("duplicate webhook delivery", "provider", ProviderClerk, "event_id", messageID)
	}
	httpkit.OK(c, gin.H{"success": true})
}

// HandleStripe processes checkout events. The route sits behind the raw body strategy.
// POST /stripe
func (h *Handler) HandleStripe(c *gin.Context) {
	payload, ok := httpkit.RawBody(c)
	if !ok {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			h.log.WebhookRejected(ProviderStripe, msgUnreadableBody, err)
			httpkit.Error(c, http.StatusBadRequest, msgUnreadableBody, nil)
			return
		}
		payload = body
	}

	event, err := h.strp.ConstructEvent(payload, c.GetHeader(stripeSignatureHeader))
	if err != nil {
		h.log.WebhookRejected(ProviderStripe, msgInvalidSignature, err)
		httpkit.Error(c, http.StatusBadRequest, msgInvalidSignature, nil)
		return
	}

	applied, err := h.svc.ProcessStripeEvent(c.Request.Context(), event, payload)
	if err != nil {
		h.reject(c, ProviderStripe, err)
		return
	}
	if !applied {
		h.log.Debug("duplicate webhook delivery", "provider", ProviderStripe, "event_id", event.ID)
	}
	httpkit.OK(c, gin.H{"received": true})
}

// reject logs client mistakes as rejections and everything else as a storage failure.
// Storage failures answer 500 so the provider retries the delivery.
func (h *Handler) reject(c *gin.Context, provider string, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		h.log.WebhookRejected(provider, appErr.Message, err)
	} else {
		h.log.DatabaseError("webhook."+provider, err)
	}
	httpkit.HandleError(c, err)
}
