package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"careerlytics-backend/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	telemetry.SetOutput(&buf)
	defer telemetry.SetOutput(os.Stdout)

	router := gin.New()
	router.Use(RequestID(), Auth("dev", newSigner(t)), Logging())
	router.POST("/api/v1/quizzes/:id/complete", func(c *gin.Context) {
		c.Set("quizId", c.Param("id"))
		c.Set("statusTransition", "in_progress->completed")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quizzes/quiz-1/complete", nil)
	req.Header.Set("X-User-Id", "stu-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	required := []string{"request_id", "user_id", "quiz_id", "duration_ms", "status", "status_transition", "route"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["msg"] != "request.complete" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["user_id"] != "stu-1" {
		t.Fatalf("unexpected user_id: %v", payload["user_id"])
	}
	if payload["quiz_id"] != "quiz-1" {
		t.Fatalf("unexpected quiz_id: %v", payload["quiz_id"])
	}
	if payload["route"] != "/api/v1/quizzes/:id/complete" {
		t.Fatalf("unexpected route: %v", payload["route"])
	}
	if payload["status_transition"] != "in_progress->completed" {
		t.Fatalf("unexpected status_transition: %v", payload["status_transition"])
	}
}
