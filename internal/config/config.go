package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	FrontendURL string

	AuthJWTSecret   string
	AuthTokenTTLDay int

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Telemetry TelemetryConfig
	Stripe    StripeConfig
	OpenAI    OpenAIConfig
	Email     EmailConfig
	RateLimit RateLimitConfig
}

// TelemetryConfig covers logging and OTLP export.
type TelemetryConfig struct {
	LogLevel         string
	LogFormat        string
	ExportEnabled    bool
	OTLPEndpoint     string
	OTLPProtocol     string
	TraceSampleRatio float64
}

type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	PremiumPriceID string
	APIBase        string
	TrialDays      int
}

type OpenAIConfig struct {
	APIKey      string
	APIBase     string
	Temperature float64
	MaxTokens   int
	TimeoutSec  int
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// Enabled reports whether an SMTP relay is configured.
func (c EmailConfig) Enabled() bool {
	return strings.TrimSpace(c.SMTPHost) != ""
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	AssistRate    float64
	AssistBurst   int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:         getenv("APP_SERVICE", "quill"),
		AppVersion:      getenv("APP_VERSION", "0.1.0"),
		Environment:     getenv("ENVIRONMENT", "development"),
		HTTPAddr:        getenv("HTTP_ADDR", ":3000"),
		FrontendURL:     strings.TrimRight(getenv("FRONTEND_URL", "http://localhost:3001"), "/"),
		AuthJWTSecret:   strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
		AuthTokenTTLDay: getenvInt("AUTH_TOKEN_TTL_DAYS", 30),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "quill"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBPath:            getenv("DATABASE_PATH", "quill.db"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),

		Telemetry: TelemetryConfig{
			LogLevel:         getenv("LOG_LEVEL", "info"),
			LogFormat:        getenv("LOG_FORMAT", "json"),
			ExportEnabled:    getenvBool("OTEL_ENABLED", true),
			OTLPEndpoint:     strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")),
			OTLPProtocol:     getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
			TraceSampleRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		},
		Stripe: StripeConfig{
			SecretKey:      strings.TrimSpace(getenv("STRIPE_SECRET_KEY", "")),
			WebhookSecret:  strings.TrimSpace(getenv("STRIPE_WEBHOOK_SECRET", "")),
			PremiumPriceID: strings.TrimSpace(getenv("STRIPE_PREMIUM_PRICE_ID", "")),
			APIBase:        strings.TrimRight(getenv("STRIPE_API_BASE", "https://api.stripe.com"), "/"),
			TrialDays:      getenvInt("STRIPE_TRIAL_DAYS", 14),
		},
		OpenAI: OpenAIConfig{
			APIKey:      strings.TrimSpace(getenv("OPENAI_API_KEY", "")),
			APIBase:     strings.TrimRight(getenv("OPENAI_API_BASE", "https://api.openai.com/v1"), "/"),
			Temperature: getenvFloat("OPENAI_TEMPERATURE", 0.7),
			MaxTokens:   getenvInt("OPENAI_MAX_TOKENS", 3000),
			TimeoutSec:  getenvInt("OPENAI_TIMEOUT_SECONDS", 60),
		},
		Email: EmailConfig{
			SMTPHost:     strings.TrimSpace(getenv("SMTP_HOST", "")),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: strings.TrimSpace(getenv("SMTP_USERNAME", "")),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", "no-reply@quill.local"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
			RedisPassword: getenv("RATE_LIMIT_REDIS_PASSWORD", ""),
			RedisDB:       getenvInt("RATE_LIMIT_REDIS_DB", 0),
			AssistRate:    getenvFloat("RATE_LIMIT_ASSIST_RATE", 1),
			AssistBurst:   getenvInt("RATE_LIMIT_ASSIST_BURST", 5),
		},
	}

	return cfg
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
