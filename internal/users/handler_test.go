package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := newTestService(t)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, svc
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, token string) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func TestAuthFlow(t *testing.T) {
	r, _ := setupRouter(t)
	reg := map[string]any{"email": "hr@example.com", "password": "secret1", "full_name": "HR Person", "role": "hr"}

	out := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", reg, "")
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Registration successful", out["message"])
	user := out["user"].(map[string]any)
	assert.NotContains(t, user, "password_hash")

	out = doJSON(t, r, http.MethodPost, "/api/v1/auth/register", reg, "")
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Email already registered", out["message"])

	out = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", map[string]any{"email": "hr@example.com", "password": "nope"}, "")
	assert.Equal(t, "Invalid email or password", out["message"])

	out = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", map[string]any{"email": "hr@example.com", "password": "secret1"}, "")
	assert.Equal(t, "Login successful", out["message"])
	token, _ := out["token"].(string)
	require.NotEmpty(t, token)

	out = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, token)
	assert.Equal(t, "User found", out["message"])
	assert.Equal(t, token, out["token"])

	out = doJSON(t, r, http.MethodPost, "/api/v1/auth/logout", nil, token)
	assert.Equal(t, "Logged out successfully", out["message"])

	out = doJSON(t, r, http.MethodPost, "/api/v1/auth/logout", nil, token)
	assert.Equal(t, "Invalid token", out["message"])

	out = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, token)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Invalid or expired token", out["message"])
}

func TestRegisterValidation(t *testing.T) {
	r, _ := setupRouter(t)
	cases := []map[string]any{
		{"email": "bad", "password": "secret1", "full_name": "X", "role": "hr"},
		{"email": "a@example.com", "password": "123", "full_name": "X", "role": "hr"},
		{"email": "a@example.com", "password": "secret1", "full_name": "X", "role": "admin"},
	}
	for _, body := range cases {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", &buf)
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusBadRequest, resp.Code, "body %v", body)
	}
}
