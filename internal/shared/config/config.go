package config

import (
	"log"
	"os"
	"strings"
	"time"
)

const (
	defaultAnalysisTimeout = 10 * time.Second
	defaultResumeCooldown  = 7 * 24 * time.Hour
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	DatabaseURL     string
	JWTSecret       string
	LogLevel        string
	UploadsDir      string
	ThresholdsDir   string
	QuestionBankDir string
	RabbitMQURL     string
	EventsQueue     string
	AnalysisVersion string
	AnalysisTimeout time.Duration
	ResumeCooldown  time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:             env,
		DatabaseURL:     dbURL,
		JWTSecret:       getEnv("JWT_SECRET", ""),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		UploadsDir:      getEnv("UPLOADS_DIR", "./data/uploads"),
		ThresholdsDir:   getEnv("THRESHOLDS_DIR", "./data/readiness"),
		QuestionBankDir: getEnv("QUESTION_BANK_DIR", ""),
		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		EventsQueue:     getEnv("EVENTS_QUEUE", "careerlytics.events"),
		AnalysisVersion: getEnv("ANALYSIS_VERSION", "rules:v1"),
		AnalysisTimeout: getDuration("ANALYSIS_TIMEOUT", defaultAnalysisTimeout),
		ResumeCooldown:  getDuration("RESUME_COOLDOWN", defaultResumeCooldown),
	}
}

// IsDevLike reports whether the environment tolerates in-memory fallbacks.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid duration %q, using %s", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
