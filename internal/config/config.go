package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string `env:"APP_ENV,default=development"`
	Port     string `env:"PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	DB        PostgresConfig
	Auth      AuthConfig
	AI        AIConfig
	Embedding EmbeddingConfig
	Stripe    StripeConfig
	Mail      MailConfig
	Quota     QuotaConfig
}

type PostgresConfig struct {
	URL             string        `env:"POSTGRES_URL"`
	MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS,default=20"`
	MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS,default=5"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME,default=30m"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE,default=false"`
	LogSQL          bool          `env:"POSTGRES_LOG_SQL,default=false"`
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"JWT_TTL,default=24h"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL,default=15m"`

	// Per client IP limit on the forgot/reset password routes.
	ResetRPS   float64 `env:"RESET_RATE_PER_SECOND,default=0.1"`
	ResetBurst int     `env:"RESET_RATE_BURST,default=5"`
}

// AIConfig selects the text generation backend used for dream interpretation.
type AIConfig struct {
	Provider        string        `env:"AI_PROVIDER,default=gemini"`
	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	GeminiModel     string        `env:"GEMINI_MODEL,default=gemini-2.5-flash"`
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
	OpenAIModel     string        `env:"OPENAI_MODEL,default=gpt-4o-mini"`
	Temperature     float64       `env:"AI_TEMPERATURE,default=0.95"`
	MaxOutputTokens int           `env:"AI_MAX_OUTPUT_TOKENS,default=700"`
	Timeout         time.Duration `env:"AI_TIMEOUT,default=45s"`
}

// EmbeddingConfig is optional. Provider "none" disables similar-dream search.
type EmbeddingConfig struct {
	Provider string `env:"EMBEDDING_PROVIDER,default=none"`
	Model    string `env:"EMBEDDING_MODEL"`
}

type StripeConfig struct {
	SecretKey         string `env:"STRIPE_SECRET_KEY"`
	WebhookSecret     string `env:"STRIPE_WEBHOOK_SECRET"`
	PriceIDProMonthly string `env:"STRIPE_PRICE_ID_PRO_MONTHLY"`
	FrontendURL       string `env:"FRONTEND_URL,default=http://localhost:3000"`
}

type MailConfig struct {
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	FromEmail      string `env:"MAIL_FROM_EMAIL,default=no-reply@dreamsaver.app"`
	FromName       string `env:"MAIL_FROM_NAME,default=DreamSaver"`
	AppBaseURL     string `env:"APP_BASE_URL,default=http://localhost:3000"`
}

type QuotaConfig struct {
	FreeInsightLimit int     `env:"FREE_INSIGHT_LIMIT,default=5"`
	GenerateRPS      float64 `env:"GENERATE_RATE_PER_SECOND,default=0.5"`
	GenerateBurst    int     `env:"GENERATE_RATE_BURST,default=3"`
}

// Load reads .env (when present) and decodes the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var missing []string
	if c.DB.URL == "" {
		missing = append(missing, "POSTGRES_URL")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	switch strings.ToLower(c.AI.Provider) {
	case "gemini":
		if c.AI.GeminiAPIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	case "openai":
		if c.AI.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q, use 'gemini' or 'openai'", c.AI.Provider)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.Quota.FreeInsightLimit < 0 {
		return fmt.Errorf("FREE_INSIGHT_LIMIT must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// BillingEnabled reports whether Stripe checkout can be offered.
func (c *Config) BillingEnabled() bool {
	return c.Stripe.SecretKey != "" && c.Stripe.PriceIDProMonthly != ""
}
