package user

import (
	"lms_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests scoped to the signed-in user.
type Handler struct {
	repo Repository
}

// NewHandler creates a new user handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// GetData returns the caller's user document.
// GET /api/user/data
func (h *Handler) GetData(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	user, err := h.repo.GetUser(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"user": user})
}

// ListPurchases returns the caller's purchases.
// GET /api/user/purchases
func (h *Handler) ListPurchases(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	purchases, err := h.repo.ListPurchases(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"purchases": purchases})
}
