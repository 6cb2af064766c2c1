package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "talentflow-api/internal/auth"
	"talentflow-api/internal/candidates"
	"talentflow-api/internal/email"
	"talentflow-api/internal/jobapps"
	"talentflow-api/internal/jobdesc"
	"talentflow-api/internal/jobs"
	"talentflow-api/internal/realtime"
	"talentflow-api/internal/screening"
	"talentflow-api/internal/services/health"
	"talentflow-api/internal/shared/auth"
	"talentflow-api/internal/shared/config"
	"talentflow-api/internal/shared/metrics"
	"talentflow-api/internal/shared/server/middleware"
	"talentflow-api/internal/shared/server/respond"
	"talentflow-api/internal/users"
)

// RouterDeps carries the handlers registered on the engine. Nil handlers are skipped.
type RouterDeps struct {
	Config        config.Config
	Authenticator auth.Authenticator
	Health        *health.Service
	UploadsDir    string

	UsersHandler       *users.Handler
	GoogleAuth         *googleauth.GoogleService
	ScreeningHandler   *screening.Handler
	CandidatesHandler  *candidates.Handler
	JobDescHandler     *jobdesc.Handler
	JobsHandler        *jobs.Handler
	JobAppsHandler     *jobapps.Handler
	EmailHandler       *email.Handler
	RealtimeHandler    *realtime.Handler
	RateLimitRules     map[string]middleware.RateLimitRule
	DisableRequestLogs bool
}

// DefaultRateLimitRules applies a strict bucket to model-backed routes.
func DefaultRateLimitRules() map[string]middleware.RateLimitRule {
	return map[string]middleware.RateLimitRule{
		middleware.RateLimitGroupDefault: {Rate: 20, Burst: 40},
		middleware.RateLimitGroupScoring: {Rate: 0.5, Burst: 5},
	}
}

var scoringRoutes = map[string]struct{}{
	"/api/v1/score_resume":           {},
	"/api/v1/score_resumes_batch":    {},
	"/api/v1/create_job_description": {},
	"/api/v1/realtime/session":       {},
}

func rateLimitGroup(c *gin.Context) string {
	if _, ok := scoringRoutes[c.FullPath()]; ok {
		return middleware.RateLimitGroupScoring
	}
	return middleware.RateLimitGroupDefault
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	rules := deps.RateLimitRules
	if rules == nil {
		rules = DefaultRateLimitRules()
	}

	r.Use(middleware.RequestID())
	if !deps.DisableRequestLogs {
		r.Use(middleware.Logging())
	}
	r.Use(
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Authenticator),
		middleware.RateLimit(middleware.RateLimitConfig{Rules: rules, GroupFor: rateLimitGroup}),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil)
	}
	healthHandler := func(c *gin.Context) {
		ok, body := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, body)
	}
	r.GET("/health", healthHandler)
	r.GET("/metrics", metrics.Handler())
	if deps.UploadsDir != "" {
		r.Static("/uploads", deps.UploadsDir)
	}

	requireUser := middleware.RequireUser()
	requireHR := middleware.RequireRole(auth.RoleHR)

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler)

	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.ScreeningHandler != nil {
		deps.ScreeningHandler.RegisterRoutes(api, requireHR)
	}
	if deps.CandidatesHandler != nil {
		deps.CandidatesHandler.RegisterRoutes(api, requireHR)
	}
	if deps.JobDescHandler != nil {
		deps.JobDescHandler.RegisterRoutes(api, requireHR)
	}
	if deps.JobsHandler != nil {
		deps.JobsHandler.RegisterRoutes(api, requireHR)
	}
	if deps.JobAppsHandler != nil {
		deps.JobAppsHandler.RegisterRoutes(api, requireUser, requireHR)
	}
	if deps.EmailHandler != nil {
		deps.EmailHandler.RegisterRoutes(api, requireHR)
	}
	if deps.RealtimeHandler != nil {
		deps.RealtimeHandler.RegisterRoutes(api, requireUser)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
