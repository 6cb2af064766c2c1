package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"talentflow-api/internal/shared/storage/db"
	"talentflow-api/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	PublicBaseURL   string

	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration
	DBPingTimeout     time.Duration

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	ResumeURLTTL    time.Duration

	MistralAPIKey   string
	MistralBaseURL  string
	MistralOCRModel string
	OCRTimeout      time.Duration

	LLMProvider    string
	LLMTemperature float64
	LLMMaxTokens   int
	LLMTimeout     time.Duration

	AzureEndpoint   string
	AzureAPIKey     string
	AzureAPIVersion string
	AzureDeployment string
	AzureModel      string

	OpenAIAPIKey string
	OpenAIModel  string

	GeminiAPIKey string
	GeminiModel  string

	RealtimeModel   string
	RealtimeVoice   string
	RealtimeTimeout time.Duration

	EmailSender    string
	EmailPassword  string
	SMTPHost       string
	SMTPPort       int
	EmailSendDelay time.Duration

	JWTSecret    string
	SessionTTL   time.Duration
	SessionStore string
	RedisURL     string
	BcryptCost   int

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string

	SQSQueueURL          string
	WorkerConcurrency    int
	SQSVisibilityTimeout int
	ShutdownTimeout      time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),

		DatabaseURL:       dbURL,
		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 0),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 0),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 0),
		DBConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 0),
		DBPingTimeout:     getEnvDuration("DB_PING_TIMEOUT", 0),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./uploads"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		ResumeURLTTL:    getEnvDuration("RESUME_URL_TTL", time.Hour),

		MistralAPIKey:   getEnv("MISTRAL_API_KEY", ""),
		MistralBaseURL:  getEnv("MISTRAL_BASE_URL", "https://api.mistral.ai"),
		MistralOCRModel: getEnv("MISTRAL_OCR_MODEL", "mistral-ocr-latest"),
		OCRTimeout:      time.Duration(getEnvInt("OCR_TIMEOUT_SECONDS", 60)) * time.Second,

		LLMProvider:    normalizeProvider(getEnv("LLM_PROVIDER", "azure")),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 1000),
		LLMTimeout:     time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,

		AzureEndpoint:   getEnv("AZURE_ENDPOINT", ""),
		AzureAPIKey:     getEnv("AZURE_API_KEY", ""),
		AzureAPIVersion: getEnv("AZURE_API_VERSION", "2025-01-01-preview"),
		AzureDeployment: getEnv("AZURE_DEPLOYMENT", "gpt-4.1"),
		AzureModel:      getEnv("AZURE_MODEL", "gpt-4.1"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4.1"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		RealtimeModel:   getEnv("REALTIME_MODEL", "gpt-4o-realtime-preview-2024-12-17"),
		RealtimeVoice:   getEnv("REALTIME_VOICE", "alloy"),
		RealtimeTimeout: time.Duration(getEnvInt("REALTIME_TIMEOUT_SECONDS", 30)) * time.Second,

		EmailSender:    getEnv("EMAIL_SENDER", ""),
		EmailPassword:  getEnv("EMAIL_PASSWORD", ""),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnvInt("SMTP_PORT", 587),
		EmailSendDelay: getEnvDuration("EMAIL_SEND_DELAY", 500*time.Millisecond),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		SessionTTL:   getEnvDuration("SESSION_TTL", 24*time.Hour),
		SessionStore: normalizeSessionStore(getEnv("SESSION_STORE", "db")),
		RedisURL:     getEnv("REDIS_URL", ""),
		BcryptCost:   getEnvInt("BCRYPT_COST", 12),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		UIRedirectURL:      getEnv("UI_REDIRECT_URL", ""),

		SQSQueueURL:          getEnv("SQS_QUEUE_URL", ""),
		WorkerConcurrency:    getEnvInt("WORKER_CONCURRENCY", 4),
		SQSVisibilityTimeout: getEnvInt("SQS_VISIBILITY_TIMEOUT_SECONDS", 1200),
		ShutdownTimeout:      time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second,
	}
}

// IsDevLike reports whether env allows in-memory fallbacks.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// DBPool returns the DB_* pool overrides. Unset values stay zero so the
// process profile defaults apply.
func (c Config) DBPool() db.PoolConfig {
	return db.PoolConfig{
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
		ConnMaxIdleTime: c.DBConnMaxIdleTime,
		PingTimeout:     c.DBPingTimeout,
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
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
	if err != nil {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "error": err.Error()})
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		telemetry.Warn("config.invalid_float", map[string]any{"key": key, "error": err.Error()})
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
	if err != nil {
		telemetry.Warn("config.invalid_duration", map[string]any{"key": key, "error": err.Error()})
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

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "gemini", "google":
		return "gemini"
	default:
		return "azure"
	}
}

func normalizeSessionStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "redis":
		return "redis"
	case "memory":
		return "memory"
	default:
		return "db"
	}
}
