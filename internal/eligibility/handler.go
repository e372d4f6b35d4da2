package eligibility

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"careerlytics-backend/internal/shared/server/middleware"
	"careerlytics-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches eligibility routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/eligibility", h.dashboard)
	rg.GET("/eligibility/quiz/:quizId", h.getByQuiz)
}

func (h *Handler) dashboard(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	limit, offset := pageParams(c)

	items, err := h.Svc.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list eligibility", nil)
		return
	}

	eligible := 0
	for _, e := range items {
		if e.IsEligible {
			eligible++
		}
	}
	resp := gin.H{
		"items":         items,
		"total":         len(items),
		"eligibleCount": eligible,
	}
	if len(items) > 0 {
		resp["latest"] = items[0]
	}
	respond.OK(c, resp)
}

func (h *Handler) getByQuiz(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	quizID := c.Param("quizId")
	c.Set("quizId", quizID)

	e, err := h.Svc.GetByQuiz(c.Request.Context(), userID, quizID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "eligibility not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch eligibility", nil)
		return
	}
	respond.OK(c, e)
}

func pageParams(c *gin.Context) (int, int) {
	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}
	return limit, offset
}
