package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector exported at /metrics.
var Registry = prometheus.NewRegistry()

var (
	resumeAnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resume_analyses_total",
		Help: "Resume analyses completed, by target role",
	}, []string{"role"})

	resumeAnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "resume_analysis_duration_seconds",
		Help:    "Time spent extracting and scoring a resume",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	quizzesCompletedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quizzes_completed_total",
		Help: "Role quizzes completed, by target role",
	}, []string{"role"})

	eligibilityVerdictsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eligibility_verdicts_total",
		Help: "Eligibility verdicts recorded, by risk tier",
	}, []string{"tier"})

	eligibilityScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "eligibility_score",
		Help:    "Distribution of eligibility scores",
		Buckets: prometheus.LinearBuckets(10, 10, 9),
	})

	readinessClassificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "readiness_classifications_total",
		Help: "Readiness test submissions, by classification",
	}, []string{"classification"})

	xpAwardedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xp_awarded_total",
		Help: "Experience points awarded, by reward type",
	}, []string{"type"})

	httpPanicsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_panics_total",
		Help: "Handler panics recovered, by route template",
	}, []string{"route"})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		resumeAnalysesTotal,
		resumeAnalysisDuration,
		quizzesCompletedTotal,
		eligibilityVerdictsTotal,
		eligibilityScore,
		readinessClassificationsTotal,
		xpAwardedTotal,
		httpPanicsTotal,
		httpRequestDuration,
	)
}

// IncResumeAnalysis counts a completed resume analysis.
func IncResumeAnalysis(role string) {
	resumeAnalysesTotal.WithLabelValues(role).Inc()
}

// ObserveResumeAnalysis records how long an analysis took.
func ObserveResumeAnalysis(d time.Duration) {
	if d < 0 {
		d = 0
	}
	resumeAnalysisDuration.Observe(d.Seconds())
}

// IncQuizCompleted counts a completed quiz.
func IncQuizCompleted(role string) {
	quizzesCompletedTotal.WithLabelValues(role).Inc()
}

// ObserveEligibility records a verdict and its score.
func ObserveEligibility(tier string, score float64) {
	eligibilityVerdictsTotal.WithLabelValues(tier).Inc()
	eligibilityScore.Observe(score)
}

// IncReadinessClassification counts a classified readiness submission.
func IncReadinessClassification(classification string) {
	readinessClassificationsTotal.WithLabelValues(classification).Inc()
}

// AddXPAwarded counts experience points granted.
func AddXPAwarded(rewardType string, amount int) {
	if amount > 0 {
		xpAwardedTotal.WithLabelValues(rewardType).Add(float64(amount))
	}
}

// IncPanic counts a recovered handler panic.
func IncPanic(route string) {
	httpPanicsTotal.WithLabelValues(route).Inc()
}

// Instrument records request latency per route template.
func Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
