package email

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"talentflow-api/internal/shared/server/respond"
)

// BulkRequest is the bulk email payload.
type BulkRequest struct {
	CandidateEmails []string `json:"candidate_emails" validate:"required,min=1,dive,omitempty,email"`
	Subject         string   `json:"subject" validate:"required"`
	HTMLContent     string   `json:"html_content" validate:"required"`
	SenderEmail     string   `json:"sender_email" validate:"omitempty,email"`
	AppPassword     string   `json:"app_password"`
}

// Handler serves the bulk email route.
type Handler struct {
	Mailer   *Mailer
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(m *Mailer) *Handler {
	return &Handler{Mailer: m, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// RegisterRoutes attaches the email route behind guards.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	rg.Group("", guards...).POST("/email/bulk", h.sendBulk)
}

func (h *Handler) sendBulk(c *gin.Context) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "candidate_emails, subject and html_content are required", nil)
		return
	}

	results, err := h.Mailer.SendBulk(c.Request.Context(), Bulk{
		Recipients: req.CandidateEmails,
		Subject:    req.Subject,
		Content:    req.HTMLContent,
		Sender:     req.SenderEmail,
		Password:   req.AppPassword,
	})
	if err != nil {
		if errors.Is(err, ErrMissingCredentials) {
			respond.OK(c, gin.H{"success": false, "results": []Result{}, "error": err.Error()})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to send emails", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "results": results})
}
