package quizzes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"careerlytics-backend/internal/roles"
	"careerlytics-backend/internal/shared/server/middleware"
	"careerlytics-backend/internal/shared/server/request"
	"careerlytics-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc     *Service
	Limiter *middleware.RateLimiter
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, limiter *middleware.RateLimiter) *Handler {
	return &Handler{Svc: svc, Limiter: limiter}
}

// RegisterRoutes attaches quiz routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/quizzes", h.list)
	rg.GET("/quizzes/stats/:role", h.stats)
	rg.GET("/quizzes/:id", h.get)
	rg.POST("/quizzes/:id/start", h.start)
	rg.POST("/quizzes/:id/answers", h.Limiter.For(middleware.RateGroupSubmit), h.answer)
	rg.POST("/quizzes/:id/complete", h.complete)
	rg.GET("/quizzes/:id/results", h.results)
}

// quizView is a quiz with its questions stripped of answers.
type quizView struct {
	Quiz
	Questions []PublicQuestion `json:"questions,omitempty"`
}

func viewOf(q Quiz) quizView {
	v := quizView{Quiz: q}
	if q.Status == StatusInProgress {
		v.Questions = PublicQuestions(q.Questions)
	}
	return v
}

type startRequest struct {
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard mixed"`
}

type answerRequest struct {
	QuestionID     string `json:"questionId" validate:"required"`
	SelectedOption string `json:"selectedOption" validate:"required"`
	TimeTaken      int    `json:"timeTaken" validate:"gte=0"`
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	limit = min(max(limit, 1), 50)
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	items, err := h.Svc.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.List(c, items, limit, offset)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("quizId", id)
	q, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, viewOf(q))
}

func (h *Handler) start(c *gin.Context) {
	id := c.Param("id")
	c.Set("quizId", id)

	var req startRequest
	if c.Request.ContentLength != 0 {
		if !request.BindJSON(c, &req) {
			return
		}
	}
	difficulty, err := ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(c, err)
		return
	}

	q, err := h.Svc.Start(c.Request.Context(), middleware.UserIDFromContext(c), id, difficulty)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, viewOf(q))
}

func (h *Handler) answer(c *gin.Context) {
	id := c.Param("id")
	c.Set("quizId", id)

	var req answerRequest
	if !request.BindJSON(c, &req) {
		return
	}
	resp, err := h.Svc.Answer(c.Request.Context(), middleware.UserIDFromContext(c), id, AnswerInput{
		QuestionID:       req.QuestionID,
		SelectedOption:   req.SelectedOption,
		TimeTakenSeconds: req.TimeTaken,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{
		"questionId":     resp.QuestionID,
		"selectedOption": resp.SelectedOption,
		"answeredAt":     resp.AnsweredAt,
	})
}

func (h *Handler) complete(c *gin.Context) {
	id := c.Param("id")
	c.Set("quizId", id)
	res, err := h.Svc.Complete(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) results(c *gin.Context) {
	id := c.Param("id")
	c.Set("quizId", id)
	res, err := h.Svc.Results(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Param("role"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, stats)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "quiz not found", nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusConflict, "invalid_status", err.Error(), nil)
	case errors.Is(err, ErrNotCompleted):
		respond.Error(c, http.StatusConflict, "quiz_not_completed", "Results are available once the quiz is completed", nil)
	case errors.Is(err, ErrUnknownQuestion), errors.Is(err, ErrInvalidOption), errors.Is(err, ErrInvalidDifficulty):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, roles.ErrUnknownRole):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNoQuestions):
		respond.Error(c, http.StatusServiceUnavailable, "question_bank_empty", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "quiz request failed", nil)
	}
}
