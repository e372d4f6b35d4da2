package resumes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"careerlytics-backend/internal/shared/server/middleware"
	"careerlytics-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc     *Service
	Limiter *middleware.RateLimiter
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, limiter *middleware.RateLimiter) *Handler {
	return &Handler{Svc: svc, Limiter: limiter}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.Limiter.For(middleware.RateGroupUpload), h.upload)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.DELETE("/resumes/:id", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("resume_file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume_file is required", nil)
		return
	}
	targetRole := c.PostForm("target_role")
	if targetRole == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "target_role is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	res, err := h.Svc.Upload(c.Request.Context(), userID, fileHeader.Filename, file, targetRole)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Set("resumeId", res.Analysis.ID)
	c.Set("quizId", res.QuizID)
	respond.Created(c, res)
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

	items, err := h.Svc.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.List(c, items, limit, offset)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("resumeId", id)
	a, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, a)
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set("resumeId", id)
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	var cooldown *CooldownError
	switch {
	case errors.As(err, &cooldown):
		respond.RetryLater(c, "upload_cooldown", "You can upload a new resume after the cooldown period", cooldown.Wait, gin.H{
			"nextUploadAt": cooldown.NextUploadAt,
		})
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume analysis not found", nil)
	case errors.Is(err, ErrUnreadableFile):
		respond.Error(c, http.StatusUnprocessableEntity, "unreadable_file", "Could not read text from the uploaded file", nil)
	case errors.Is(err, ErrTextTooShort):
		respond.Error(c, http.StatusUnprocessableEntity, "text_too_short", "The resume does not contain enough text to analyse", gin.H{
			"minCharacters": MinTextLength,
		})
	case errors.Is(err, ErrAnalysisTimeout):
		respond.Error(c, http.StatusGatewayTimeout, "analysis_timeout", "Resume analysis took too long", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "resume request failed", nil)
	}
}
