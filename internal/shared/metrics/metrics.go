package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector exposed on /metrics.
var Registry = prometheus.NewRegistry()

var (
	scoringRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scoring_requests_total",
		Help: "Resume scoring requests by outcome.",
	}, []string{"outcome"})

	extractions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "extraction_total",
		Help: "Document text extractions by type and outcome.",
	}, []string{"type", "outcome"})

	screeningJobs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "screening_jobs_total",
		Help: "Queued application screening jobs by outcome.",
	}, []string{"outcome"})

	emailsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emails_sent_total",
		Help: "Bulk email deliveries by status.",
	}, []string{"status"})

	rateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Requests rejected by the rate limiter by group.",
	}, []string{"group"})

	modelCallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "model_call_duration_seconds",
		Help:    "Latency of remote model calls.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"operation"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		scoringRequests,
		extractions,
		screeningJobs,
		emailsSent,
		rateLimited,
		modelCallDuration,
	)
}

// IncScoring counts a scoring request outcome (completed, rejected, failed).
func IncScoring(outcome string) {
	scoringRequests.WithLabelValues(outcome).Inc()
}

// IncExtraction counts an extraction attempt.
func IncExtraction(fileType, outcome string) {
	extractions.WithLabelValues(fileType, outcome).Inc()
}

// IncScreeningJob counts a processed screening job.
func IncScreeningJob(outcome string) {
	screeningJobs.WithLabelValues(outcome).Inc()
}

// IncEmail counts one bulk email delivery.
func IncEmail(status string) {
	emailsSent.WithLabelValues(status).Inc()
}

// IncRateLimited counts a request rejected with 429.
func IncRateLimited(group string) {
	rateLimited.WithLabelValues(group).Inc()
}

// ObserveModelCall records the latency of a remote model call.
func ObserveModelCall(operation string, started time.Time) {
	modelCallDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
