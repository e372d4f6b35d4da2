package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"careerlytics-backend/internal/eligibility"
	"careerlytics-backend/internal/events"
	"careerlytics-backend/internal/progress"
	"careerlytics-backend/internal/quizzes"
	"careerlytics-backend/internal/readiness"
	"careerlytics-backend/internal/resumes"
	"careerlytics-backend/internal/shared/auth"
	"careerlytics-backend/internal/shared/config"
	"careerlytics-backend/internal/shared/server"
	"careerlytics-backend/internal/shared/server/middleware"
	"careerlytics-backend/internal/shared/storage/db"
	"careerlytics-backend/internal/shared/storage/object"
	localstore "careerlytics-backend/internal/shared/storage/object/local"
	"careerlytics-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Store     object.ObjectStore
	Publisher events.Publisher
	Signer    *auth.Signer
	Limiter   *middleware.RateLimiter

	ResumesService     *resumes.Service
	QuizzesService     *quizzes.Service
	EligibilityService *eligibility.Service
	ReadinessService   *readiness.Service
	ProgressService    *progress.Service

	closers []func() error
}

// Build prepares every dependency and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	telemetry.SetLevel(cfg.LogLevel)

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.Env)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   localstore.New(cfg.UploadsDir),
		Signer:  signer,
		Limiter: middleware.NewRateLimiter(middleware.DefaultRateLimitRules(), nil),
	}
	if sqlDB != nil {
		app.closers = append(app.closers, sqlDB.Close)
	}

	publisher, err := buildPublisher(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Publisher = publisher
	if c, ok := publisher.(interface{ Close() error }); ok {
		app.closers = append(app.closers, c.Close)
	}

	if err := buildServices(app); err != nil {
		app.Close()
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		DB:                 sqlDB,
		Verifier:           signer,
		ResumeHandler:      resumes.NewHandler(app.ResumesService, app.Limiter),
		QuizHandler:        quizzes.NewHandler(app.QuizzesService, app.Limiter),
		EligibilityHandler: eligibility.NewHandler(app.EligibilityService),
		ReadinessHandler:   readiness.NewHandler(app.ReadinessService, app.Limiter),
		ProgressHandler:    progress.NewHandler(app.ProgressService),
	})
	return app, nil
}

// Close releases the broker connection and the database pool.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			telemetry.Warn("bootstrap.close_failed", map[string]any{"error": err})
		}
	}
	a.closers = nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildPublisher(cfg config.Config) (events.Publisher, error) {
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		return events.NoopPublisher{}, nil
	}
	pub, err := events.DialAMQP(cfg.RabbitMQURL, cfg.EventsQueue)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.events_disabled", map[string]any{"error": err})
			return events.NoopPublisher{}, nil
		}
		return nil, err
	}
	return pub, nil
}

func buildServices(app *App) error {
	cfg := app.Config

	var (
		resumeRepo      resumes.Repo
		quizRepo        quizzes.Repo
		eligibilityRepo eligibility.Repo
		readinessRepo   readiness.Repo
		progressRepo    progress.Repo
	)
	if app.DB != nil {
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		quizRepo = &quizzes.PGRepo{DB: app.DB}
		eligibilityRepo = &eligibility.PGRepo{DB: app.DB}
		readinessRepo = &readiness.PGRepo{DB: app.DB}
		progressRepo = &progress.PGRepo{DB: app.DB}
	} else {
		resumeRepo = resumes.NewMemoryRepo()
		quizRepo = quizzes.NewMemoryRepo()
		eligibilityRepo = eligibility.NewMemoryRepo()
		readinessRepo = readiness.NewMemoryRepo()
		progressRepo = progress.NewMemoryRepo()
	}

	bank, err := quizzes.OpenBank(cfg.QuestionBankDir)
	if err != nil {
		return fmt.Errorf("open question bank: %w", err)
	}

	app.ProgressService = progress.NewService(progressRepo, app.Publisher)
	app.EligibilityService = eligibility.NewService(eligibilityRepo, app.Publisher)
	app.ResumesService = &resumes.Service{
		Repo:     resumeRepo,
		Store:    app.Store,
		Cooldown: cfg.ResumeCooldown,
		Timeout:  cfg.AnalysisTimeout,
		Version:  cfg.AnalysisVersion,
	}
	app.QuizzesService = &quizzes.Service{
		Repo:        quizRepo,
		Generator:   quizzes.NewGenerator(bank, nil),
		Eligibility: app.EligibilityService,
		Resumes:     app.ResumesService,
		Progress:    app.ProgressService,
	}
	app.ResumesService.Quizzes = app.QuizzesService
	app.ReadinessService = readiness.NewService(readinessRepo, readiness.NewFileStore(cfg.ThresholdsDir), app.Publisher)
	app.ReadinessService.Progress = app.ProgressService
	return nil
}
