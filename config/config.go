// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/austcse/carnival-backend/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Email providers understood by the mailer factory.
const (
	EmailProviderResend = "resend"
	EmailProviderSES    = "ses"
	EmailProviderNoop   = "noop"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
	// TrustedProxies is a list of CIDR ranges or IPs of trusted reverse proxies.
	// If empty, X-Forwarded-For headers are ignored and the socket address
	// identifies the client.
	TrustedProxies         []string `mapstructure:"TRUSTED_PROXIES" yaml:"trusted_proxies"`
	ShutdownTimeoutSeconds int      `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS" yaml:"shutdown_timeout_seconds"`
}

// EmailConfig holds configuration for the outbound mail relay.
type EmailConfig struct {
	Provider     string    `mapstructure:"PROVIDER" yaml:"provider"`
	FromAddress  string    `mapstructure:"FROM_ADDRESS" yaml:"from_address"`
	FromName     string    `mapstructure:"FROM_NAME" yaml:"from_name"`
	ResendAPIKey string    `mapstructure:"RESEND_API_KEY" yaml:"resend_api_key"`
	SES          SESConfig `mapstructure:"SES" yaml:"ses"`
}

// SESConfig holds the SES region and optional static credentials. Empty keys
// defer to the AWS default credential chain.
type SESConfig struct {
	Region          string `mapstructure:"REGION" yaml:"region"`
	AccessKeyID     string `mapstructure:"ACCESS_KEY_ID" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"SECRET_ACCESS_KEY" yaml:"secret_access_key"`
}

// RedisConfig holds Redis connection details. When disabled the contact
// rate limiter keeps its counters in process memory.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"ENABLED" yaml:"enabled"`
	Address  string `mapstructure:"ADDRESS" yaml:"address"`
	Password string `mapstructure:"PASSWORD" yaml:"password"`
	DB       int    `mapstructure:"DB" yaml:"db"`
	UseTLS   bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
	PoolSize int    `mapstructure:"POOL_SIZE" yaml:"pool_size"`
}

// RateLimitConfig holds configuration for the contact endpoint limiter.
type RateLimitConfig struct {
	// Maximum contact submissions per client per window
	ContactRequests int `mapstructure:"CONTACT_REQUESTS" yaml:"contact_requests"`
	// Window duration in seconds
	WindowSeconds int `mapstructure:"WINDOW_SECONDS" yaml:"window_seconds"`
}

// Window returns the limiter window as a duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// ContactConfig holds the contact pipeline settings.
type ContactConfig struct {
	OrganizerInbox         string `mapstructure:"ORGANIZER_INBOX" yaml:"organizer_inbox"`
	Subject                string `mapstructure:"SUBJECT" yaml:"subject"`
	DeliveryTimeoutSeconds int    `mapstructure:"DELIVERY_TIMEOUT_SECONDS" yaml:"delivery_timeout_seconds"`
	// TimeZone is the IANA zone used to decide which segments are upcoming.
	TimeZone string `mapstructure:"TIME_ZONE" yaml:"time_zone"`
}

// DeliveryTimeout returns the per-send timeout.
func (c ContactConfig) DeliveryTimeout() time.Duration {
	return time.Duration(c.DeliveryTimeoutSeconds) * time.Second
}

// Location resolves TimeZone.
func (c ContactConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

// Config aggregates all application configuration sections.
type Config struct {
	Server    ServerConfig    `mapstructure:"SERVER" yaml:"server"`
	Email     EmailConfig     `mapstructure:"EMAIL" yaml:"email"`
	Redis     RedisConfig     `mapstructure:"REDIS" yaml:"redis"`
	RateLimit RateLimitConfig `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
	Contact   ContactConfig   `mapstructure:"CONTACT" yaml:"contact"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "5000")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"http://localhost:5173"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("SERVER.TRUSTED_PROXIES", []string{})
	v.SetDefault("SERVER.SHUTDOWN_TIMEOUT_SECONDS", 10)

	v.SetDefault("EMAIL.PROVIDER", EmailProviderResend)
	v.SetDefault("EMAIL.FROM_ADDRESS", "noreply@austcsecarnival.com")
	v.SetDefault("EMAIL.FROM_NAME", "AUST CSE Carnival")
	v.SetDefault("EMAIL.RESEND_API_KEY", "")
	v.SetDefault("EMAIL.SES.REGION", "ap-south-1")
	v.SetDefault("EMAIL.SES.ACCESS_KEY_ID", "")
	v.SetDefault("EMAIL.SES.SECRET_ACCESS_KEY", "")

	v.SetDefault("REDIS.ENABLED", false)
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("REDIS.POOL_SIZE", 3)

	v.SetDefault("RATE_LIMIT.CONTACT_REQUESTS", 5)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 3600)

	v.SetDefault("CONTACT.ORGANIZER_INBOX", "austcsecarnival@gmail.com")
	v.SetDefault("CONTACT.SUBJECT", "New Contact Form Submission - AUST CSE Carnival")
	v.SetDefault("CONTACT.DELIVERY_TIMEOUT_SECONDS", 10)
	v.SetDefault("CONTACT.TIME_ZONE", "Asia/Dhaka")
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, binds environment variables to config struct fields,
// unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		// Server config
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"SERVER.TRUSTED_PROXIES", "TRUSTED_PROXIES"},
		{"SERVER.SHUTDOWN_TIMEOUT_SECONDS", "SHUTDOWN_TIMEOUT_SECONDS"},
		// Email config
		{"EMAIL.PROVIDER", "EMAIL_PROVIDER"},
		{"EMAIL.FROM_ADDRESS", "EMAIL_FROM_ADDRESS"},
		{"EMAIL.FROM_NAME", "EMAIL_FROM_NAME"},
		{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},
		{"EMAIL.SES.REGION", "AWS_REGION"},
		{"EMAIL.SES.ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID"},
		{"EMAIL.SES.SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY"},
		// Redis config
		{"REDIS.ENABLED", "REDIS_ENABLED"},
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		// Rate limit config
		{"RATE_LIMIT.CONTACT_REQUESTS", "RATE_LIMIT_CONTACT_REQUESTS"},
		{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},
		// Contact config
		{"CONTACT.ORGANIZER_INBOX", "CONTACT_ORGANIZER_INBOX"},
		{"CONTACT.SUBJECT", "CONTACT_SUBJECT"},
		{"CONTACT.DELIVERY_TIMEOUT_SECONDS", "CONTACT_DELIVERY_TIMEOUT_SECONDS"},
		{"CONTACT.TIME_ZONE", "CONTACT_TIME_ZONE"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}
	// ENVIRONMENT is what the logger reads; SERVER_ENVIRONMENT wins when both are set.
	if err := v.BindEnv("SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT", "ENVIRONMENT"); err != nil {
		return nil, fmt.Errorf("failed to bind SERVER.ENVIRONMENT: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}
	// Comma separated env values arrive as a single element.
	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)
	cfg.Server.TrustedProxies = splitList(cfg.Server.TrustedProxies)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"server_port", cfg.Server.Port,
		"allowed_origins", cfg.Server.AllowedOrigins,
		"trusted_proxies", cfg.Server.TrustedProxies,
		"email_provider", cfg.Email.Provider,
		"redis_enabled", cfg.Redis.Enabled,
		"contact_limit", cfg.RateLimit.ContactRequests,
		"contact_window_seconds", cfg.RateLimit.WindowSeconds,
		"organizer_inbox", logger.MaskEmail(cfg.Contact.OrganizerInbox),
	)
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	log := logger.GetLogger()

	switch cfg.Server.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q", cfg.Server.Environment)
	}
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin is required")
	}
	// Credentialed CORS cannot be combined with a wildcard origin.
	if containsWildcard(cfg.Server.AllowedOrigins) {
		return fmt.Errorf("wildcard allowed origin is not permitted")
	}
	for _, origin := range cfg.Server.AllowedOrigins {
		if _, err := url.ParseRequestURI(origin); err != nil {
			return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
		}
	}
	if cfg.Server.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	if err := validateEmailConfig(cfg, log); err != nil {
		return err
	}

	if cfg.Redis.Enabled {
		if cfg.Redis.Address == "" {
			return fmt.Errorf("redis address is required when redis is enabled")
		}
		if cfg.Redis.Password == "" && cfg.Redis.UseTLS {
			log.Warn("Redis password is not set, but TLS is enabled. Ensure this is correct for your Redis provider.")
		}
	}

	if cfg.RateLimit.ContactRequests <= 0 {
		return fmt.Errorf("rate limit contact requests must be positive")
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate limit window seconds must be positive")
	}

	if _, err := mail.ParseAddress(cfg.Contact.OrganizerInbox); err != nil {
		return fmt.Errorf("invalid organizer inbox '%s': %w", cfg.Contact.OrganizerInbox, err)
	}
	if cfg.Contact.Subject == "" {
		return fmt.Errorf("contact subject is required")
	}
	if cfg.Contact.DeliveryTimeoutSeconds <= 0 {
		return fmt.Errorf("contact delivery timeout must be positive")
	}
	if _, err := cfg.Contact.Location(); err != nil {
		return fmt.Errorf("invalid contact time zone '%s': %w", cfg.Contact.TimeZone, err)
	}

	return nil
}

// validateEmailConfig checks provider specific settings. A resend provider
// without an API key is downgraded to noop outside production.
func validateEmailConfig(cfg *Config, log *zap.SugaredLogger) error {
	email := &cfg.Email
	if email.FromAddress == "" {
		return fmt.Errorf("email from address is required")
	}

	switch email.Provider {
	case EmailProviderResend:
		if email.ResendAPIKey == "" {
			if cfg.IsProduction() {
				return fmt.Errorf("resend API key is required")
			}
			log.Warn("Resend API key not set, falling back to noop email provider")
			email.Provider = EmailProviderNoop
		}
	case EmailProviderSES:
		if email.SES.Region == "" {
			return fmt.Errorf("SES region is required")
		}
		// Both keys or neither; without keys the AWS default credential chain applies.
		if (email.SES.AccessKeyID == "") != (email.SES.SecretAccessKey == "") {
			return fmt.Errorf("SES access key id and secret access key must be set together")
		}
	case EmailProviderNoop:
		if cfg.IsProduction() {
			log.Warn("Noop email provider in production; contact messages will not be delivered")
		}
	default:
		return fmt.Errorf("unknown email provider %q", email.Provider)
	}
	return nil
}

// containsWildcard checks if the list of allowed origins contains the wildcard "*".
func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
