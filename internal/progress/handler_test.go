package progress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProgressRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _, _ := newProgressService()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", c.GetHeader("X-User-Id"))
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, svc
}

func get(r *gin.Engine, path, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-User-Id", userID)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestProgressHTTP(t *testing.T) {
	r, svc := newProgressRouter(t)
	_, err := svc.Award(context.Background(), QuizActivity("stu-1", "quiz-1", "frontend", 25, 75))
	require.NoError(t, err)

	resp := get(r, "/api/v1/progress", "stu-1")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var sum Summary
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &sum))
	// 550 for the passed quiz plus the level-up bonus.
	assert.Equal(t, 600, sum.XP.Total)
	assert.Equal(t, 7, sum.XP.Level)
	assert.Equal(t, 1.0, sum.StreakMultiplier)
	assert.Len(t, sum.RecentRewards, 2)

	resp = get(r, "/api/v1/progress/rewards?limit=1", "stu-1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"total":1`)

	resp = get(r, "/api/v1/progress/rewards?limit=0", "stu-1")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = get(r, "/api/v1/progress", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
