package educator

import (
	"net/http"
	"path"
	"strings"

	"lms_backend/platform/httpkit"
	"lms_backend/platform/logger"
	"lms_backend/platform/media"
	"lms_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgForeignObject    = "object does not belong to this educator"

	mediaRoot = "educators"
)

// Handler handles HTTP requests for the educator dashboard.
type Handler struct {
	repo  Repository
	media media.Service
	val   *validator.Validator
	log   *logger.Logger
}

// NewHandler creates a new educator handler.
func NewHandler(repo Repository, mediaSvc media.Service, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{repo: repo, media: mediaSvc, val: val, log: log}
}

// ListCourses returns the courses owned by the caller.
// GET /api/educator/courses
func (h *Handler) ListCourses(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	courses, err := h.repo.ListCourses(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"courses": courses})
}

// CreateUploadURL returns a presigned upload URL under the caller's media folder.
// POST /api/educator/media/upload-url
func (h *Handler) CreateUploadURL(c *gin.Context) {
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	presigned, err := h.media.GenerateUploadURL(c.Request.Context(), mediaFolder(identity.UserID()), req.FileName, req.ContentType, req.SizeBytes)
	if httpkit.HandleError(c, err) {
		return
	}
	h.log.WithContext(c.Request.Context()).Info("media upload url issued", "file_key", presigned.FileKey, "size_bytes", req.SizeBytes)
	httpkit.OK(c, presigned)
}

// CreateDownloadURL returns a presigned download URL for one of the caller's objects.
// GET /api/educator/media/download-url?key=
func (h *Handler) CreateDownloadURL(c *gin.Context) {
	var req DownloadURLRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	if !ownsKey(identity.UserID(), req.Key) {
		httpkit.Error(c, http.StatusForbidden, msgForeignObject, nil)
		return
	}

	presigned, err := h.media.GenerateDownloadURL(c.Request.Context(), req.Key)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, presigned)
}

func mediaFolder(userID string) string {
	return path.Join(mediaRoot, userID)
}

// ownsKey reports whether key resolves inside the user's folder.
func ownsKey(userID, key string) bool {
	prefix := mediaFolder(userID) + "/"
	cleaned := path.Clean("/" + key)[1:]
	return strings.HasPrefix(cleaned, prefix) && cleaned == key
}
