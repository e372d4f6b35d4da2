package resumes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
)

func newResumeRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _, _ := newTestService(t)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", c.GetHeader("X-User-Id"))
		c.Next()
	})
	NewHandler(svc, nil).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func uploadRequest(t *testing.T, userID, fileName, content, role string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if fileName != "" {
		fw, err := writer.CreateFormFile("resume_file", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if role != "" {
		if err := writer.WriteField("target_role", role); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-User-Id", userID)
	return req
}

func TestResumeUploadGetAndCooldown(t *testing.T) {
	r := newResumeRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, uploadRequest(t, "stu-1", "cv.txt", backendResume, "backend"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		Analysis struct {
			ID       string `json:"id"`
			ATSScore int    `json:"atsScore"`
		} `json:"analysis"`
		QuizID string `json:"quizId"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Analysis.ID == "" || created.QuizID == "" {
		t.Fatalf("expected ids, got %+v", created)
	}
	if bytes.Contains(resp.Body.Bytes(), []byte("storageKey")) {
		t.Fatalf("storage key must not be exposed: %s", resp.Body.String())
	}

	get := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+created.Analysis.ID, nil)
	get.Header.Set("X-User-Id", "stu-1")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, get)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, uploadRequest(t, "stu-1", "cv.txt", backendResume, "backend"))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 cooldown, got %d", resp.Code)
	}
	var cooldown struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &cooldown); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cooldown.Error.Code != "upload_cooldown" || cooldown.Error.Details["nextUploadAt"] == nil {
		t.Fatalf("unexpected cooldown body %s", resp.Body.String())
	}
	wantWait := strconv.Itoa(int(DefaultCooldown.Seconds()))
	if got := resp.Header().Get("Retry-After"); got != wantWait {
		t.Fatalf("expected Retry-After %s, got %q", wantWait, got)
	}
	if cooldown.Error.Details["retryAfterSeconds"] != float64(DefaultCooldown.Seconds()) {
		t.Fatalf("unexpected retryAfterSeconds %v", cooldown.Error.Details["retryAfterSeconds"])
	}
}

func TestResumeUploadValidation(t *testing.T) {
	r := newResumeRouter(t)

	cases := []struct {
		name     string
		fileName string
		content  string
		role     string
		want     int
	}{
		{name: "missing file", role: "backend", want: http.StatusBadRequest},
		{name: "missing role", fileName: "cv.txt", content: backendResume, want: http.StatusBadRequest},
		{name: "bad role", fileName: "cv.txt", content: backendResume, role: "chef", want: http.StatusBadRequest},
		{name: "too short", fileName: "cv.txt", content: "hello", role: "backend", want: http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, uploadRequest(t, "stu-9", tc.fileName, tc.content, tc.role))
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestResumeDeleteIsOwnerOnly(t *testing.T) {
	r := newResumeRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, uploadRequest(t, "stu-1", "cv.txt", backendResume, "frontend"))
	var created struct {
		Analysis struct {
			ID string `json:"id"`
		} `json:"analysis"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &created)

	del := httptest.NewRequest(http.MethodDelete, "/api/v1/resumes/"+created.Analysis.ID, nil)
	del.Header.Set("X-User-Id", "stu-2")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, del)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for non-owner, got %d", resp.Code)
	}

	del = httptest.NewRequest(http.MethodDelete, "/api/v1/resumes/"+created.Analysis.ID, nil)
	del.Header.Set("X-User-Id", "stu-1")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, del)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}
