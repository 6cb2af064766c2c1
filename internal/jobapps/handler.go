package jobapps

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"talentflow-api/internal/shared/auth"
	"talentflow-api/internal/shared/server/middleware"
	"talentflow-api/internal/shared/server/respond"
	"talentflow-api/internal/shared/util"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches application routes. requireUser gates candidate routes and requireHR gates review routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireUser, requireHR gin.HandlerFunc) {
	rg.POST("/jobs/:id/apply", requireUser, h.apply)
	rg.GET("/job-applications", requireHR, h.list)
	rg.GET("/job-applications/my", requireUser, h.mine)
	rg.GET("/job-applications/stats", requireHR, h.stats)
	rg.GET("/job-applications/:id", requireUser, h.get)
	rg.PUT("/job-applications/:id/status", requireHR, h.updateStatus)
}

func (h *Handler) apply(c *gin.Context) {
	jobID := c.Param("id")
	c.Set(middleware.LogJobIDKey, jobID)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	var in ApplyInput
	if err := c.ShouldBind(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid form data", nil)
		return
	}

	var resume *Resume
	fileHeader, err := c.FormFile("resume_file")
	switch {
	case err == nil:
		data, readErr := util.ReadFormFile(fileHeader)
		if readErr != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
			return
		}
		resume = &Resume{FileName: fileHeader.Filename, Data: data}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid form data", nil)
		return
	}

	who := Applicant{
		ID:    middleware.UserIDFromContext(c),
		Name:  middleware.UserNameFromContext(c),
		Email: middleware.UserEmailFromContext(c),
	}
	app, err := h.Svc.Apply(c.Request.Context(), jobID, who, in, resume)
	if err != nil {
		switch {
		case errors.Is(err, ErrJobNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
		case errors.Is(err, ErrJobClosed), errors.Is(err, ErrAlreadyApplied), errors.Is(err, ErrInvalidResumeType):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit application", nil)
		}
		return
	}
	c.Set(middleware.LogApplicationIDKey, app.ID)
	respond.OK(c, gin.H{"success": true, "message": "Application submitted successfully", "application": app})
}

func (h *Handler) list(c *gin.Context) {
	apps, err := h.Svc.List(c.Request.Context(), c.Query("job_id"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}
	respond.OK(c, gin.H{"applications": apps})
}

func (h *Handler) mine(c *gin.Context) {
	apps, err := h.Svc.ListMine(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}
	respond.OK(c, gin.H{"applications": apps})
}

// get lets HR read any application and candidates read their own.
func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.LogApplicationIDKey, id)
	app, err := h.Svc.Get(c.Request.Context(), id)
	if err == nil && middleware.UserRoleFromContext(c) != auth.RoleHR && app.CandidateID != middleware.UserIDFromContext(c) {
		err = ErrNotFound
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", ErrNotFound.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load application", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "application": app})
}

func (h *Handler) updateStatus(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.LogApplicationIDKey, id)
	status := strings.TrimSpace(c.PostForm("status"))
	if err := h.Svc.UpdateStatus(c.Request.Context(), id, status); err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update status", nil)
		}
		return
	}
	respond.OK(c, gin.H{"success": true, "message": "Application status updated to " + status})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load stats", nil)
		return
	}
	respond.OK(c, stats)
}
