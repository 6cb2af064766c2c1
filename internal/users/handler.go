package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"talentflow-api/internal/shared/server/middleware"
	"talentflow-api/internal/shared/server/respond"
)

// Handler wires auth HTTP handlers to the service.
type Handler struct {
	Svc      *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// RegisterRoutes attaches the auth routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
	rg.POST("/auth/logout", h.logout)
	rg.GET("/auth/me", h.me)
}

func (h *Handler) register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid registration details", validationDetails(err))
		return
	}
	user, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			respond.OK(c, gin.H{"success": false, "message": ErrEmailTaken.Error()})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to register user", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "message": "Registration successful", "user": user})
}

func (h *Handler) login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email and password are required", validationDetails(err))
		return
	}
	user, token, err := h.Svc.Login(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.OK(c, gin.H{"success": false, "message": ErrInvalidCredentials.Error()})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to log in", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "message": "Login successful", "user": user, "token": token})
}

func (h *Handler) logout(c *gin.Context) {
	removed, err := h.Svc.Logout(c.Request.Context(), middleware.TokenFromRequest(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to log out", nil)
		return
	}
	if !removed {
		respond.OK(c, gin.H{"success": false, "message": "Invalid token"})
		return
	}
	respond.OK(c, gin.H{"success": true, "message": "Logged out successfully"})
}

func (h *Handler) me(c *gin.Context) {
	token := middleware.TokenFromRequest(c)
	user, err := h.Svc.Me(c.Request.Context(), token)
	if err != nil {
		respond.OK(c, gin.H{"success": false, "message": "Invalid or expired token"})
		return
	}
	respond.OK(c, gin.H{"success": true, "message": "User found", "user": user, "token": token})
}

func validationDetails(err error) map[string]any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}
