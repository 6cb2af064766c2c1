package jobdesc

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"talentflow-api/internal/llm"
	"talentflow-api/internal/shared/server/respond"
)

// Handler exposes the generator over HTTP.
type Handler struct {
	Gen *Generator
}

// NewHandler constructs a Handler.
func NewHandler(gen *Generator) *Handler {
	return &Handler{Gen: gen}
}

// RegisterRoutes attaches the job description route. Callers apply auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	rg.POST("/create_job_description", append(guards, h.create)...)
}

func (h *Handler) create(c *gin.Context) {
	var in RoleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", err.Error())
		return
	}

	text, err := h.Gen.Generate(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, llm.ErrTransport) {
			respond.Error(c, http.StatusBadGateway, "model_unavailable", "An error occurred while generating the job description with the LLM: "+err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", err.Error(), nil)
		return
	}

	respond.OK(c, gin.H{"job_description": text})
}
