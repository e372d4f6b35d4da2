package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRetryLaterRoundsUp(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		wait time.Duration
		want string
	}{
		{wait: 1500 * time.Millisecond, want: "2"},
		{wait: 0, want: "1"},
		{wait: -time.Hour, want: "1"},
		{wait: 7 * 24 * time.Hour, want: "604800"},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/", func(c *gin.Context) {
			c.Set(RequestIDKey, "req-3")
			RetryLater(c, "upload_cooldown", "later", tc.wait, gin.H{"nextUploadAt": "soon"})
		})
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

		if resp.Code != http.StatusTooManyRequests {
			t.Fatalf("wait %v: expected 429, got %d", tc.wait, resp.Code)
		}
		if got := resp.Header().Get("Retry-After"); got != tc.want {
			t.Fatalf("wait %v: expected Retry-After %s, got %q", tc.wait, tc.want, got)
		}
		var body ErrorResponse
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		details, _ := body.Error.Details.(map[string]any)
		if details["nextUploadAt"] != "soon" || details["retryAfterSeconds"] == nil {
			t.Fatalf("unexpected details %v", body.Error.Details)
		}
		if body.Error.RequestID != "req-3" {
			t.Fatalf("expected request id in body, got %q", body.Error.RequestID)
		}
	}
}

func TestListSendsEmptyArray(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		var none []string
		List(c, none, 20, 40)
	})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Body.String() != `{"items":[],"limit":20,"offset":40}` {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}
