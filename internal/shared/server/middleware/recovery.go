package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"careerlytics-backend/internal/shared/metrics"
	"careerlytics-backend/internal/shared/server/respond"
	"careerlytics-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 envelope. The route template and
// the caller's resume or quiz, when already bound, are logged with the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      rec,
				"stack":      string(debug.Stack()),
				"route":      route,
				"method":     c.Request.Method,
			}
			for ctxKey, logKey := range map[string]string{"userId": "user_id", "resumeId": "resume_id", "quizId": "quiz_id"} {
				if v := c.GetString(ctxKey); v != "" {
					fields[logKey] = v
				}
			}
			telemetry.Error("http.panic", fields)
			metrics.IncPanic(route)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
