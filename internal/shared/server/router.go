package server

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"careerlytics-backend/internal/eligibility"
	"careerlytics-backend/internal/progress"
	"careerlytics-backend/internal/quizzes"
	"careerlytics-backend/internal/readiness"
	"careerlytics-backend/internal/resumes"
	"careerlytics-backend/internal/services/health"
	"careerlytics-backend/internal/shared/auth"
	"careerlytics-backend/internal/shared/config"
	"careerlytics-backend/internal/shared/metrics"
	"careerlytics-backend/internal/shared/server/middleware"
	"careerlytics-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers and shared middleware inputs.
type RouterDeps struct {
	Config             config.Config
	DB                 *sql.DB
	Verifier           middleware.TokenVerifier
	ResumeHandler      *resumes.Handler
	QuizHandler        *quizzes.Handler
	EligibilityHandler *eligibility.Handler
	ReadinessHandler   *readiness.Handler
	ProgressHandler    *progress.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		metrics.Instrument(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthSvc := health.NewService(deps.DB)
	r.GET("/health", healthHandler(healthSvc))
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler(healthSvc))

	authed := api.Group("")
	authed.Use(middleware.Auth(deps.Config.Env, deps.Verifier))
	registerMeRoutes(authed)
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(authed)
	}
	if deps.QuizHandler != nil {
		deps.QuizHandler.RegisterRoutes(authed)
	}
	if deps.EligibilityHandler != nil {
		deps.EligibilityHandler.RegisterRoutes(authed)
	}
	if deps.ProgressHandler != nil {
		deps.ProgressHandler.RegisterRoutes(authed)
	}
	if deps.ReadinessHandler != nil {
		deps.ReadinessHandler.RegisterRoutes(authed)

		admin := authed.Group("/admin")
		admin.Use(middleware.RequireRole(auth.RolePlacementCell))
		deps.ReadinessHandler.RegisterAdminRoutes(admin)
	}

	return r
}

func healthHandler(svc *health.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := svc.Status(c.Request.Context())
		if !status.OK {
			respond.JSON(c, http.StatusServiceUnavailable, status)
			return
		}
		respond.JSON(c, http.StatusOK, status)
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
