package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerlytics-backend/internal/readiness"
	"careerlytics-backend/internal/shared/config"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := readiness.NewService(readiness.NewMemoryRepo(), readiness.NewFileStore(t.TempDir()), nil)
	return NewRouter(RouterDeps{
		Config:           config.Config{Env: "dev"},
		ReadinessHandler: readiness.NewHandler(svc, nil),
	})
}

func serve(h http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestHealthReportsMemoryStorage(t *testing.T) {
	router := newTestRouter(t)
	for _, path := range []string{"/health", "/api/v1/health"} {
		resp := serve(router, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, resp.Code, path)
		assert.JSONEq(t, `{"ok":true,"storage":"memory"}`, resp.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	serve(router, http.MethodGet, "/health", nil)

	resp := serve(router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.Contains(resp.Body.String(), "# TYPE"))
}

func TestAdminRoutesRequirePlacementCell(t *testing.T) {
	router := newTestRouter(t)
	path := "/api/v1/admin/readiness/tests/1/thresholds"

	resp := serve(router, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = serve(router, http.MethodGet, path, map[string]string{"X-User-Id": "stu-1"})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = serve(router, http.MethodGet, path, map[string]string{"X-User-Id": "tpo-1", "X-User-Role": "placement_cell"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "placement_ready_threshold")
}

func TestMeReturnsIdentity(t *testing.T) {
	router := newTestRouter(t)
	resp := serve(router, http.MethodGet, "/api/v1/me", map[string]string{"X-User-Id": "stu-9"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"userId":"stu-9"`)
	assert.Contains(t, resp.Body.String(), `"role":"student"`)
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", Addr(""))
	assert.Equal(t, ":9000", Addr("9000"))
	assert.Equal(t, ":9000", Addr(":9000"))
}
