package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow-api/internal/candidates"
	"talentflow-api/internal/jobs"
	"talentflow-api/internal/shared/auth"
	localstore "talentflow-api/internal/shared/storage/object/local"
	"talentflow-api/internal/users"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	signer, err := auth.NewSigner("router-secret", time.Hour, false)
	require.NoError(t, err)
	userSvc := users.NewService(users.NewMemoryRepo(), users.NewMemorySessionRepo(), signer, 4)
	store := localstore.New(t.TempDir(), "http://api.test")

	return NewRouter(RouterDeps{
		Authenticator:      userSvc,
		UsersHandler:       users.NewHandler(userSvc),
		CandidatesHandler:  candidates.NewHandler(candidates.NewService(candidates.NewMemoryRepo(), store, time.Hour)),
		JobsHandler:        jobs.NewHandler(jobs.NewService(jobs.NewMemoryRepo(), nil)),
		DisableRequestLogs: true,
	})
}

func send(r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func loginAs(t *testing.T, r *gin.Engine, email, role string) string {
	t.Helper()
	resp := send(r, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email": email, "password": "secret1", "full_name": "Test User", "role": role,
	}, "")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = send(r, http.MethodPost, "/api/v1/auth/login", map[string]any{"email": email, "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, resp.Code)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestEngine(t)

	resp := send(r, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"ok":true,"database":"memory"}`, resp.Body.String())

	resp = send(r, http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = send(r, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "go_goroutines")
}

func TestHRRoutesRequireRole(t *testing.T) {
	r := newTestEngine(t)

	resp := send(r, http.MethodGet, "/api/v1/candidates", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	candidate := loginAs(t, r, "cand@example.com", auth.RoleCandidate)
	resp = send(r, http.MethodGet, "/api/v1/candidates", nil, candidate)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	hr := loginAs(t, r, "hr@example.com", auth.RoleHR)
	resp = send(r, http.MethodGet, "/api/v1/candidates", nil, hr)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"candidates":[]}`, resp.Body.String())

	resp = send(r, http.MethodGet, "/api/v1/dashboard/stats", nil, hr)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestJobsReadsArePublicWritesNeedHR(t *testing.T) {
	r := newTestEngine(t)

	resp := send(r, http.MethodGet, "/api/v1/jobs", nil, "")
	assert.Equal(t, http.StatusOK, resp.Code)

	job := map[string]any{"title": "Go Engineer", "company_name": "Acme", "description": "Build APIs"}
	resp = send(r, http.MethodPost, "/api/v1/jobs", job, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	hr := loginAs(t, r, "hr@example.com", auth.RoleHR)
	resp = send(r, http.MethodPost, "/api/v1/jobs", job, hr)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestScoringRoutesUseScoringGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var group string
	r.POST("/api/v1/score_resume", func(c *gin.Context) { group = rateLimitGroup(c) })
	r.GET("/api/v1/jobs", func(c *gin.Context) { group = rateLimitGroup(c) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/score_resume", nil))
	assert.Equal(t, "SCORING", group)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))
	assert.Equal(t, "DEFAULT", group)
}

func TestAddr(t *testing.T) {
	for in, want := range map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"} {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
