package realtime

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"talentflow-api/internal/shared/server/respond"
	"talentflow-api/internal/shared/telemetry"
)

// SessionCreator mints realtime sessions.
type SessionCreator interface {
	CreateSession(ctx context.Context, candidateName string) (Session, error)
}

// Handler serves the voice interview session route.
type Handler struct {
	Sessions SessionCreator
}

// NewHandler constructs a Handler.
func NewHandler(sessions SessionCreator) *Handler {
	return &Handler{Sessions: sessions}
}

// RegisterRoutes attaches the realtime route. Extra handlers run before it.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, middlewares ...gin.HandlerFunc) {
	rg.POST("/realtime/session", append(middlewares, h.createSession)...)
}

func (h *Handler) createSession(c *gin.Context) {
	session, err := h.Sessions.CreateSession(c.Request.Context(), c.PostForm("candidate_name"))
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			respond.OK(c, gin.H{"success": false, "message": err.Error(), "session": nil})
			return
		}
		telemetry.Error("realtime.session_failed", map[string]any{"error": err.Error()})
		respond.OK(c, gin.H{"success": false, "message": "Error: " + err.Error(), "session": nil})
		return
	}
	respond.OK(c, gin.H{"success": true, "message": "Session created", "session": session})
}
