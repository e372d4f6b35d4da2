package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"careerlytics-backend/internal/shared/auth"
)

func newSigner(t *testing.T) *auth.Signer {
	t.Helper()
	signer, err := auth.NewSigner("test-secret", "dev")
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	return signer
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth("dev", newSigner(t)))
	router.OPTIONS("/api/v1/resumes", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/resumes", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthBearerTokenSetsIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	signer := newSigner(t)
	router := gin.New()
	router.Use(Auth("production", signer))
	router.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": UserIDFromContext(c), "role": UserRoleFromContext(c)})
	})

	token, err := signer.Sign(auth.Claims{Role: auth.RolePlacementCell, RegisteredClaims: jwt.RegisteredClaims{Subject: "cell-1"}})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != `{"id":"cell-1","role":"placement_cell"}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestAuthDevHeadersOnlyOutsideProduction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, tc := range []struct {
		env  string
		want int
	}{
		{env: "dev", want: http.StatusOK},
		{env: "production", want: http.StatusUnauthorized},
	} {
		router := gin.New()
		router.Use(Auth(tc.env, newSigner(t)))
		router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-User-Id", "stu-1")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("env %s: expected %d, got %d", tc.env, tc.want, resp.Code)
		}
	}
}

func TestRequireRoleRejectsStudents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth("dev", newSigner(t)))
	router.GET("/admin", RequireRole(auth.RolePlacementCell), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-User-Id", "stu-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-User-Id", "cell-1")
	req.Header.Set("X-User-Role", auth.RolePlacementCell)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for placement cell, got %d", resp.Code)
	}
}
