package course

import (
	"net/http"
	"strings"

	"lms_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const msgInvalidID = "invalid course id"

// Handler handles HTTP requests for the public course catalog.
type Handler struct {
	repo Repository
}

// NewHandler creates a new course handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// List returns all courses.
// GET /api/course/all
func (h *Handler) List(c *gin.Context) {
	courses, err := h.repo.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"courses": courses})
}

// Get returns a single course.
// GET /api/course/:id
func (h *Handler) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	course, err := h.repo.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"course": course})
}
