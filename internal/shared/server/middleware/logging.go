package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"careerlytics-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request. Handlers may tag the request
// with resumeId, quizId, testId or statusTransition for correlation.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
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
		for ctxKey, logKey := range map[string]string{
			"resumeId":         "resume_id",
			"quizId":           "quiz_id",
			"testId":           "test_id",
			"statusTransition": "status_transition",
		} {
			if v := c.GetString(ctxKey); v != "" {
				fields[logKey] = v
			}
		}

		telemetry.Info("request.complete", fields)
	}
}
