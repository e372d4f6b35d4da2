package respond

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"careerlytics-backend/internal/shared/telemetry"
)

// RequestIDKey is the gin context key holding the current request ID.
const RequestIDKey = "requestId"

// ErrorBody is the payload of every failed request.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// ErrorResponse wraps ErrorBody under "error".
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error aborts the request with the error envelope. Client errors log at
// warn, server errors at error.
func Error(c *gin.Context, status int, code, message string, details any) {
	reqID := c.GetString(RequestIDKey)
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": reqID,
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.rejected", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: reqID,
		},
	})
}

// RetryLater answers 429 and sets Retry-After to wait rounded up to whole
// seconds, never less than one. The same value is added to details as
// retryAfterSeconds.
func RetryLater(c *gin.Context, code, message string, wait time.Duration, details gin.H) {
	seconds := int(math.Ceil(wait.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	if details == nil {
		details = gin.H{}
	}
	details["retryAfterSeconds"] = seconds
	c.Header("Retry-After", strconv.Itoa(seconds))
	Error(c, http.StatusTooManyRequests, code, message, details)
}
