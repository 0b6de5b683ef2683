// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// MinJWTSecretLength is the shortest JWT_SECRET accepted outside development.
const MinJWTSecretLength = 32

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the browser-facing HTTP API listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// GRPCAddr is the address the gRPC server listens on (e.g. :9090).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`

	// StoreDriver selects the account store: memory, postgres or mongo. Empty picks postgres when
	// DATABASE_URL is set and memory otherwise.
	StoreDriver string `mapstructure:"STORE_DRIVER"`
	// DatabaseURL is the Postgres DSN. Also used for audit rows when set.
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	// JWTSecret is the HS256 signing secret. Required; at least 32 bytes outside development.
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	JWTIssuer   string `mapstructure:"JWT_ISSUER"`
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	MailFrom     string `mapstructure:"MAIL_FROM"`
	MailFromName string `mapstructure:"MAIL_FROM_NAME"`

	// OTPReturnToClient when true enables dev OTP mode: codes are not mailed but kept for
	// GET /dev/otp. Must not be true when Env is production.
	OTPReturnToClient bool `mapstructure:"OTP_RETURN_TO_CLIENT"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// CookieSecure sets the Secure attribute on the jwt cookie. Turn off only for plain-HTTP development.
	CookieSecure bool   `mapstructure:"COOKIE_SECURE"`
	CookieDomain string `mapstructure:"COOKIE_DOMAIN"`

	// RedisURL backs the rate limiter (redis://host:6379/0). Empty uses an in-process limiter.
	RedisURL string `mapstructure:"REDIS_URL"`
	// OTPRateLimit is the number of OTP and login attempts allowed per key per OTPRateWindow.
	OTPRateLimit  int           `mapstructure:"OTP_RATE_LIMIT"`
	OTPRateWindow time.Duration `mapstructure:"OTP_RATE_WINDOW"`

	// TelemetryKafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	TelemetryKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// TelemetryKafkaTopic is the Kafka topic for account events (default authify-telemetry).
	TelemetryKafkaTopic string `mapstructure:"TELEMETRY_KAFKA_TOPIC"`
	// Worker-only: Loki URL for the telemetry worker to push logs (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`
	// KafkaGroupID is the consumer group ID for the telemetry worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`

	// OTLPEndpoint is the OpenTelemetry collector (e.g. localhost:4317). Empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GRPC_ADDR", ":9090")
	v.SetDefault("STORE_DRIVER", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DATABASE", "authify")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "authify")
	v.SetDefault("JWT_AUDIENCE", "authify-api")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("MAIL_FROM", "")
	v.SetDefault("MAIL_FROM_NAME", "Authify Support")
	v.SetDefault("OTP_RETURN_TO_CLIENT", false)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("OTP_RATE_LIMIT", 5)
	v.SetDefault("OTP_RATE_WINDOW", "15m")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("TELEMETRY_KAFKA_TOPIC", "authify-telemetry")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("KAFKA_GROUP_ID", "authify-telemetry-worker")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPAddr == "" {
		return errors.New("config: HTTP_ADDR must be set")
	}
	if c.GRPCAddr == "" {
		return errors.New("config: GRPC_ADDR must be set")
	}

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	if c.StoreDriver == "" {
		c.StoreDriver = StoreMemory
		if c.DatabaseURL != "" {
			c.StoreDriver = StorePostgres
		}
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL must be set when STORE_DRIVER=postgres")
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("config: MONGO_URI must be set when STORE_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("config: STORE_DRIVER %q must be one of memory, postgres, mongo", c.StoreDriver)
	}

	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must be set")
	}
	if !c.IsDevelopment() && len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("config: JWT_SECRET must be at least %d bytes outside development", MinJWTSecretLength)
	}

	if c.BcryptCost == 0 {
		c.BcryptCost = 12
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	if c.OTPReturnToClient && c.IsProduction() {
		return errors.New("config: OTP_RETURN_TO_CLIENT must not be true when APP_ENV=production")
	}
	if !c.OTPReturnToClient && (c.SMTPHost == "" || c.MailFrom == "") {
		return errors.New("config: SMTP_HOST and MAIL_FROM must be set unless OTP_RETURN_TO_CLIENT=true")
	}

	if c.OTPRateLimit < 0 {
		return errors.New("config: OTP_RATE_LIMIT must not be negative")
	}
	if c.OTPRateLimit > 0 && c.OTPRateWindow <= 0 {
		return errors.New("config: OTP_RATE_WINDOW must be positive")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// IsDevelopment reports whether APP_ENV is unset, development or dev.
func (c *Config) IsDevelopment() bool {
	switch strings.ToLower(c.Env) {
	case "", "development", "dev":
		return true
	}
	return false
}

// TelemetryKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if telemetry is enabled (non-empty list) and to create the producer.
func (c *Config) TelemetryKafkaBrokersList() []string {
	if c == nil || c.TelemetryKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.TelemetryKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
