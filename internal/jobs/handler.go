package jobs

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"talentflow-api/internal/shared/server/middleware"
	"talentflow-api/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc      *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// RegisterRoutes attaches posting routes. Reads are public; writes go through hrGuards.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, hrGuards ...gin.HandlerFunc) {
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/:id", h.get)

	hr := rg.Group("", hrGuards...)
	hr.POST("/jobs", h.createJSON)
	hr.POST("/jobs/from-jd", h.createForm)
	hr.PUT("/jobs/:id/status", h.updateStatus)
	hr.DELETE("/jobs/:id", h.delete)
}

func (h *Handler) createJSON(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	h.create(c, in)
}

func (h *Handler) createForm(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBind(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid form data", nil)
		return
	}
	h.create(c, in)
}

func (h *Handler) create(c *gin.Context, in CreateInput) {
	if err := h.validate.Struct(in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "title, company_name and description are required", validationDetails(err))
		return
	}
	job, err := h.Svc.Create(c.Request.Context(), in, middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "title, company_name and description are required", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create job", nil)
		return
	}
	c.Set(middleware.LogJobIDKey, job.ID)
	respond.OK(c, gin.H{"success": true, "message": "Job posting created successfully", "job": job})
}

func (h *Handler) list(c *gin.Context) {
	jobs, err := h.Svc.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list jobs", nil)
		return
	}
	respond.OK(c, gin.H{"jobs": jobs})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.LogJobIDKey, id)
	job, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to load job")
		return
	}
	respond.OK(c, gin.H{"success": true, "job": job})
}

func (h *Handler) updateStatus(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.LogJobIDKey, id)
	status := strings.TrimSpace(c.PostForm("status"))
	if err := h.Svc.UpdateStatus(c.Request.Context(), id, status); err != nil {
		h.writeError(c, err, "failed to update job")
		return
	}
	respond.OK(c, gin.H{"success": true, "message": "Job status updated to " + status})
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.LogJobIDKey, id)
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "failed to delete job")
		return
	}
	respond.OK(c, gin.H{"success": true, "message": "Job deleted successfully"})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", ErrNotFound.Error(), nil)
	case errors.Is(err, ErrInvalidStatus):
		respond.Error(c, http.StatusBadRequest, "validation_error", ErrInvalidStatus.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func validationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
