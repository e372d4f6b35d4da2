package readiness

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReadinessRouter(t *testing.T) (*gin.Engine, readinessFixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := newReadinessFixture(t)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", c.GetHeader("X-User-Id"))
		c.Next()
	})
	h := NewHandler(f.svc, nil)
	h.RegisterRoutes(r.Group("/api/v1"))
	h.RegisterAdminRoutes(r.Group("/api/v1/admin"))
	return r, f
}

func doJSON(r *gin.Engine, method, path, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", userID)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestReadinessHTTPSubmitFlow(t *testing.T) {
	r, _ := newReadinessRouter(t)
	body := map[string]any{
		"department": "CSE",
		"year":       3,
		"time_taken": 40,
		"answers": []map[string]any{
			{"question_text": "2+2?", "options": []string{"3", "4"}, "category": "aptitude", "selected_index": 1, "correct_index": 1},
			{"question_text": "Opposite of hot?", "options": []string{"cold", "warm"}, "category": "english", "selected_index": 1, "correct_index": 0},
		},
	}

	resp := doJSON(r, http.MethodPost, "/api/v1/readiness/tests/1/submit", "stu-1", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var res Result
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &res))
	assert.Equal(t, 50.0, res.Percentage)
	assert.Equal(t, NeedsImprovement, res.Classification)
	assert.Equal(t, 40, res.TimeTakenMinutes)

	resp = doJSON(r, http.MethodPost, "/api/v1/readiness/tests/1/submit", "stu-1", body)
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = doJSON(r, http.MethodGet, "/api/v1/readiness/tests/1/result", "stu-1", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = doJSON(r, http.MethodGet, "/api/v1/readiness/tests/1/result", "stu-2", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestReadinessHTTPValidation(t *testing.T) {
	r, _ := newReadinessRouter(t)

	resp := doJSON(r, http.MethodPost, "/api/v1/readiness/tests/abc/submit", "stu-1", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(r, http.MethodPost, "/api/v1/readiness/tests/1/submit", "stu-1", map[string]any{"time_taken": -5})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(r, http.MethodPost, "/api/v1/readiness/tests/7/submit", "stu-1", map[string]any{})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestReadinessHTTPAdmin(t *testing.T) {
	r, _ := newReadinessRouter(t)

	resp := doJSON(r, http.MethodGet, "/api/v1/admin/readiness/tests/1/thresholds", "cell-1", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"placement_ready_threshold":70,"needs_improvement_threshold":40,"at_risk_threshold":0}`, resp.Body.String())

	resp = doJSON(r, http.MethodPut, "/api/v1/admin/readiness/tests/1/thresholds", "cell-1", map[string]any{
		"placement_ready_threshold": 30, "needs_improvement_threshold": 60, "at_risk_threshold": 0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(r, http.MethodPut, "/api/v1/admin/readiness/tests/1/thresholds", "cell-1", map[string]any{
		"placement_ready_threshold": 75,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code, "all three keys are required")

	resp = doJSON(r, http.MethodPut, "/api/v1/admin/readiness/tests/1/status", "cell-1", map[string]string{"status": "disabled"})
	require.Equal(t, http.StatusOK, resp.Code)
	resp = doJSON(r, http.MethodPost, "/api/v1/readiness/tests/1/submit", "stu-1", map[string]any{})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = doJSON(r, http.MethodPut, "/api/v1/admin/readiness/tests/1/status", "cell-1", map[string]string{"status": "enabled"})
	require.Equal(t, http.StatusOK, resp.Code)
	resp = doJSON(r, http.MethodPost, "/api/v1/readiness/tests/1/submit", "stu-1", map[string]any{})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doJSON(r, http.MethodGet, "/api/v1/admin/readiness/tests/1/insights?classification=bogus", "cell-1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(r, http.MethodGet, "/api/v1/admin/readiness/tests/1/insights?classification=at_risk", "cell-1", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var insights Insights
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &insights))
	assert.Equal(t, 1, insights.Summary.AtRisk)
	assert.True(t, insights.CanReset)

	resp = doJSON(r, http.MethodDelete, "/api/v1/admin/readiness/tests/1/results", "cell-1", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"testId":1,"deleted":1}`, resp.Body.String())
}
