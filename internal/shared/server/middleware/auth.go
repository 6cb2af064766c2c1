package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"talentflow-api/internal/shared/auth"
	"talentflow-api/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	userNameKey  = "userName"
	userRoleKey  = "userRole"
)

// Auth resolves the request token into an identity when one is present.
// It never rejects; RequireUser and RequireRole gate the routes that need a principal.
func Auth(authenticator auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token := TokenFromRequest(c)
		if token == "" || authenticator == nil {
			c.Next()
			return
		}

		id, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(userIDKey, id.UserID)
		if id.Email != "" {
			c.Set(userEmailKey, id.Email)
		}
		if id.Name != "" {
			c.Set(userNameKey, id.Name)
		}
		if id.Role != "" {
			c.Set(userRoleKey, id.Role)
		}
		c.Next()
	}
}

// RequireUser rejects requests without an authenticated identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserIDFromContext(c) == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Invalid or expired token", nil)
			return
		}
		c.Next()
	}
}

// RequireRole rejects requests whose identity does not hold role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserIDFromContext(c) == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Invalid or expired token", nil)
			return
		}
		if UserRoleFromContext(c) != role {
			respond.Error(c, http.StatusForbidden, "forbidden", "Insufficient permissions", map[string]any{"requiredRole": role})
			return
		}
		c.Next()
	}
}

// TokenFromRequest reads the token from the Authorization header, the token
// query parameter or the token form field, in that order.
func TokenFromRequest(c *gin.Context) string {
	if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
		if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
			return strings.TrimSpace(header[7:])
		}
	}
	if token := strings.TrimSpace(c.Query("token")); token != "" {
		return token
	}
	ct := c.ContentType()
	if ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data" {
		return strings.TrimSpace(c.PostForm("token"))
	}
	return ""
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return stringFromContext(c, userIDKey)
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	return stringFromContext(c, userEmailKey)
}

// UserNameFromContext fetches the user name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	return stringFromContext(c, userNameKey)
}

// UserRoleFromContext fetches the user role set by the auth middleware.
func UserRoleFromContext(c *gin.Context) string {
	return stringFromContext(c, userRoleKey)
}

func stringFromContext(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
