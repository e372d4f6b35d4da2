package progress

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"careerlytics-backend/internal/shared/server/middleware"
	"careerlytics-backend/internal/shared/server/respond"
)

const maxRewardsPage = 100

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches progress routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/progress", h.summary)
	rg.GET("/progress/rewards", h.rewards)
}

func (h *Handler) summary(c *gin.Context) {
	out, err := h.Svc.Summary(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) rewards(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxRewardsPage {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be between 1 and 100", nil)
			return
		}
		limit = n
	}
	items, err := h.Svc.Rewards(c.Request.Context(), middleware.UserIDFromContext(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"items": items, "total": len(items)})
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidInput) {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "progress request failed", nil)
}
