package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsMethods = "GET,POST,PUT,PATCH,DELETE,OPTIONS"
	corsHeaders = "Content-Type, Authorization, X-Request-Id"
	corsExpose  = "X-Request-Id, Retry-After"
	corsMaxAge  = "600"
)

type corsPolicy struct {
	listed   map[string]bool
	wildcard bool
}

func newCORSPolicy(allowedOrigins []string) corsPolicy {
	p := corsPolicy{listed: make(map[string]bool)}
	for _, o := range allowedOrigins {
		switch o = strings.TrimSpace(o); o {
		case "":
		case "*":
			p.wildcard = true
		default:
			p.listed[o] = true
		}
	}
	return p
}

// apply writes the headers for origin and reports whether it was allowed.
// Listed origins get credentials; a wildcard match never does.
func (p corsPolicy) apply(h http.Header, origin string) bool {
	switch {
	case origin == "":
		return false
	case p.listed[origin]:
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Add("Vary", "Origin")
	case p.wildcard:
		h.Set("Access-Control-Allow-Origin", "*")
	default:
		return false
	}
	h.Set("Access-Control-Allow-Methods", corsMethods)
	h.Set("Access-Control-Allow-Headers", corsHeaders)
	h.Set("Access-Control-Expose-Headers", corsExpose)
	h.Set("Access-Control-Max-Age", corsMaxAge)
	return true
}

// CORS answers preflight requests with 204 and decorates the rest for
// allow-listed origins. A "*" entry allows any origin without credentials.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	policy := newCORSPolicy(allowedOrigins)
	return func(c *gin.Context) {
		policy.apply(c.Writer.Header(), c.GetHeader("Origin"))
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
