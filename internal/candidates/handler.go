package candidates

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"talentflow-api/internal/shared/server/middleware"
	"talentflow-api/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches candidate and dashboard routes. guards run before every handler.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	g := rg.Group("", guards...)
	g.GET("/candidates", h.list)
	g.PUT("/candidates/:id/status", h.updateStatus)
	g.GET("/dashboard/stats", h.stats)
}

func (h *Handler) list(c *gin.Context) {
	apps, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list candidates", nil)
		return
	}
	respond.OK(c, gin.H{"candidates": apps})
}

func (h *Handler) updateStatus(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.LogApplicationIDKey, id)
	status := strings.TrimSpace(c.PostForm("status"))

	if err := h.Svc.UpdateStatus(c.Request.Context(), id, status); err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			respond.Error(c, http.StatusBadRequest, "validation_error", ErrInvalidStatus.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", ErrNotFound.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update status", nil)
		}
		return
	}
	respond.OK(c, gin.H{"success": true, "message": "Status updated to " + status})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load stats", nil)
		return
	}
	respond.OK(c, stats)
}
