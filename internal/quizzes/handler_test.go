package quizzes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"careerlytics-backend/internal/roles"
)

func newQuizRouter(t *testing.T) (*gin.Engine, quizFixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := newQuizFixture(t)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", c.GetHeader("X-User-Id"))
		c.Next()
	})
	NewHandler(f.svc, nil).RegisterRoutes(r.Group("/api/v1"))
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

func TestQuizHTTPFlow(t *testing.T) {
	r, f := newQuizRouter(t)
	quizID, err := f.svc.CreatePending(context.Background(), "stu-1", "res-1", roles.Backend)
	if err != nil {
		t.Fatalf("CreatePending: %v", err)
	}
	base := "/api/v1/quizzes/" + quizID

	resp := doJSON(r, http.MethodGet, base+"/results", "stu-1", nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("results before completion expected 409, got %d", resp.Code)
	}

	resp = doJSON(r, http.MethodPost, base+"/start", "stu-1", map[string]string{"difficulty": "mixed"})
	if resp.Code != http.StatusOK {
		t.Fatalf("start expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if strings.Contains(resp.Body.String(), "correct_answer") || strings.Contains(resp.Body.String(), "correctAnswer") {
		t.Fatalf("start response leaked answers: %s", resp.Body.String())
	}
	var started struct {
		Status    string `json:"status"`
		Questions []struct {
			ID      string   `json:"id"`
			Number  int      `json:"number"`
			Options []string `json:"options"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &started); err != nil {
		t.Fatalf("decode start: %v", err)
	}
	if started.Status != string(StatusInProgress) || len(started.Questions) != 30 {
		t.Fatalf("unexpected start payload: status=%s questions=%d", started.Status, len(started.Questions))
	}

	q := started.Questions[0]
	resp = doJSON(r, http.MethodPost, base+"/answers", "stu-1", map[string]any{
		"questionId": q.ID, "selectedOption": q.Options[0], "timeTaken": 12,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("answer expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if strings.Contains(resp.Body.String(), "isCorrect") {
		t.Fatalf("answer response leaked correctness: %s", resp.Body.String())
	}

	resp = doJSON(r, http.MethodPost, base+"/answers", "stu-1", map[string]any{"questionId": "missing", "selectedOption": "x"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unknown question expected 400, got %d", resp.Code)
	}

	resp = doJSON(r, http.MethodPost, base+"/answers", "stu-1", map[string]any{"questionId": q.ID})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("missing option expected 400, got %d", resp.Code)
	}

	resp = doJSON(r, http.MethodPost, base+"/complete", "stu-1", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("complete expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	resp = doJSON(r, http.MethodPost, base+"/complete", "stu-1", nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("second complete expected 409, got %d", resp.Code)
	}

	resp = doJSON(r, http.MethodGet, base+"/results", "stu-1", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("results expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var results struct {
		Answered    int `json:"questionsAnswered"`
		Eligibility struct {
			QuizID string `json:"quizId"`
		} `json:"eligibility"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if results.Answered != 1 || results.Eligibility.QuizID != quizID {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestQuizHTTPOwnershipAndValidation(t *testing.T) {
	r, f := newQuizRouter(t)
	quizID, err := f.svc.CreatePending(context.Background(), "stu-1", "res-1", roles.DevOps)
	if err != nil {
		t.Fatalf("CreatePending: %v", err)
	}

	resp := doJSON(r, http.MethodGet, "/api/v1/quizzes/"+quizID, "stu-2", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("foreign quiz expected 404, got %d", resp.Code)
	}

	resp = doJSON(r, http.MethodPost, "/api/v1/quizzes/"+quizID+"/start", "stu-1", map[string]string{"difficulty": "brutal"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("bad difficulty expected 400, got %d", resp.Code)
	}

	resp = doJSON(r, http.MethodGet, "/api/v1/quizzes/stats/devops", "stu-1", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("stats expected 200, got %d", resp.Code)
	}
	resp = doJSON(r, http.MethodGet, "/api/v1/quizzes/stats/fullstack", "stu-1", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("fullstack stats expected 400, got %d", resp.Code)
	}

	resp = doJSON(r, http.MethodGet, "/api/v1/quizzes", "stu-1", nil)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), quizID) {
		t.Fatalf("list expected the quiz, got %d: %s", resp.Code, resp.Body.String())
	}
}
