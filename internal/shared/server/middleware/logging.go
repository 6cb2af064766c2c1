package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"talentflow-api/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log.
const (
	LogJobIDKey         = "jobId"
	LogApplicationIDKey = "applicationId"
)

var extraLogFields = map[string]string{
	LogJobIDKey:         "job_id",
	LogApplicationIDKey: "application_id",
}

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"user_role":   UserRoleFromContext(c),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		for key, field := range extraLogFields {
			if v := c.GetString(key); v != "" {
				fields[field] = v
			}
		}
		telemetry.Info("request.complete", fields)
	}
}
