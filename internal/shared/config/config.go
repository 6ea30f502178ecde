package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	UploadStoreType string
	UploadDir       string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	LLMProvider     string
	LLMModel        string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	LLMTimeout      time.Duration
	PromptVersion   string
	FeedbackLogPath string
	CleanupDelay    time.Duration
	MaxUploadBytes  int64
	UserStoreType   string
	DatabaseURL     string
	MongoURI        string
	MongoDatabase   string
	JWTSecret       string
	JWTTTL          time.Duration
}

const (
	defaultCleanupDelay   = 30 * time.Second
	defaultMaxUploadBytes = 10 << 20
	defaultJWTTTL         = 30 * 24 * time.Hour
	defaultFeedbackLog    = "logs/feedback.md"
)

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	provider := normalizeProvider(getEnv("LLM_PROVIDER", "gemini"))

	cfg := Config{
		Port:            getEnv("PORT", "3000"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		UploadStoreType: normalizeStoreType(getEnv("UPLOAD_STORE", "local")),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", "uploads/"),
		LLMProvider:     provider,
		LLMModel:        getEnv("LLM_MODEL", defaultModel(provider)),
		GeminiAPIKey:    getEnv("API_KEY", os.Getenv("GEMINI_API_KEY")),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		LLMTimeout:      time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 0)) * time.Second,
		PromptVersion:   getEnv("PROMPT_VERSION", "v2"),
		FeedbackLogPath: os.Getenv("FEEDBACK_LOG_PATH"),
		CleanupDelay:    getEnvDuration("CLEANUP_DELAY", defaultCleanupDelay),
		MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
		UserStoreType:   normalizeUserStore(getEnv("USER_STORE", "memory")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "essay"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTTTL:          getEnvDuration("JWT_TTL", defaultJWTTTL),
	}
	if _, set := os.LookupEnv("FEEDBACK_LOG_PATH"); !set {
		cfg.FeedbackLogPath = defaultFeedbackLog
	}

	if env == "production" && cfg.JWTSecret == "" {
		log.Printf("JWT_SECRET is required in production")
	}
	if cfg.UserStoreType == "postgres" && cfg.DatabaseURL == "" {
		log.Printf("USER_STORE=postgres requires DATABASE_URL")
	}

	return cfg
}

// IsDevLike reports whether env is a developer environment.
func IsDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		log.Printf("config %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val < 0 {
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
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "memory":
		return "memory"
	default:
		return "local"
	}
}

func normalizeUserStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg":
		return "postgres"
	case "mongo", "mongodb":
		return "mongo"
	default:
		return "memory"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "none", "placeholder":
		return "none"
	default:
		return "gemini"
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-4o-mini"
	case "gemini":
		return "gemini-1.5-flash"
	default:
		return ""
	}
}
