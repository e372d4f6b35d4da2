package readiness

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches student routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/readiness/tests/:id/submit", h.Limiter.For(middleware.RateGroupSubmit), h.submit)
	rg.GET("/readiness/tests/:id/result", h.result)
}

// RegisterAdminRoutes attaches placement cell routes. The caller is
// responsible for the role check.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/readiness/tests/:id/thresholds", h.getThresholds)
	rg.PUT("/readiness/tests/:id/thresholds", h.putThresholds)
	rg.PUT("/readiness/tests/:id/status", h.putStatus)
	rg.GET("/readiness/tests/:id/insights", h.insights)
	rg.DELETE("/readiness/tests/:id/results", h.reset)
}

type thresholdsRequest struct {
	PlacementReady   *float64 `json:"placement_ready_threshold" validate:"required,gte=0,lte=100"`
	NeedsImprovement *float64 `json:"needs_improvement_threshold" validate:"required,gte=0,lte=100"`
	AtRisk           *float64 `json:"at_risk_threshold" validate:"required,gte=0,lte=100"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=enabled disabled"`
}

func (h *Handler) testID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid test id", nil)
		return 0, false
	}
	c.Set("testId", id)
	return id, true
}

func (h *Handler) submit(c *gin.Context) {
	id, ok := h.testID(c)
	if !ok {
		return
	}
	var sub Submission
	if !request.BindJSON(c, &sub) {
		return
	}
	res, err := h.Svc.Submit(c.Request.Context(), middleware.UserIDFromContext(c), id, sub)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, res)
}

func (h *Handler) result(c *gin.Context) {
	id, ok := h.testID(c)
	if !ok {
		return
	}
	res, err := h.Svc.Result(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) getThresholds(c *gin.Context) {
	id, ok := h.testID(c)
	if !ok {
		return
	}
	t, err := h.Svc.GetThresholds(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, t)
}

func (h *Handler) putThresholds(c *gin.Context) {
	id, ok := h.testID(c)
	if !ok {
		return
	}
	var req thresholdsRequest
	if !request.BindJSON(c, &req) {
		return
	}
	t, err := h.Svc.SetThresholds(c.Request.Context(), id, Thresholds{
		PlacementReady:   *req.PlacementReady,
		NeedsImprovement: *req.NeedsImprovement,
		AtRisk:           *req.AtRisk,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, t)
}

func (h *Handler) putStatus(c *gin.Context) {
	id, ok := h.testID(c)
	if !ok {
		return
	}
	var req statusRequest
	if !request.BindJSON(c, &req) {
		return
	}
	t, err := h.Svc.SetStatus(c.Request.Context(), id, TestStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, t)
}

func (h *Handler) insights(c *gin.Context) {
	id, ok := h.testID(c)
	if !ok {
		return
	}
	f := Filter{Search: c.Query("search")}
	if raw := c.Query("classification"); raw != "" && raw != "all" {
		cls, err := ParseClassification(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		f.Classification = cls
	}
	out, err := h.Svc.Insights(c.Request.Context(), id, f)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) reset(c *gin.Context) {
	id, ok := h.testID(c)
	if !ok {
		return
	}
	n, err := h.Svc.Reset(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"testId": id, "deleted": n})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "readiness test or result not found", nil)
	case errors.Is(err, ErrAlreadySubmitted):
		respond.Error(c, http.StatusConflict, "already_submitted", "You have already submitted this test", nil)
	case errors.Is(err, ErrTestDisabled):
		respond.Error(c, http.StatusForbidden, "test_disabled", "This test is not accepting submissions", nil)
	case errors.Is(err, ErrInvalidThresholds), errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "readiness request failed", nil)
	}
}
