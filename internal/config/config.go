package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Mailchimp MailchimpConfig `yaml:"mailchimp"`
	DNS       DNSConfig       `yaml:"dns"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Events    EventsConfig    `yaml:"events"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	TemplatesDir   string   `yaml:"templates_dir"`
	// TrustProxy honours X-Forwarded-For and X-Real-IP. Enable only behind
	// a load balancer that overwrites them.
	TrustProxy bool `yaml:"trust_proxy"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// MailchimpConfig holds credentials and defaults for the remote mailing-list API
type MailchimpConfig struct {
	APIKey     string `yaml:"api_key"`
	AudienceID string `yaml:"audience_id"`
	// ListID is the pre-audience name of AudienceID. Deprecated.
	ListID         string `yaml:"list_id"`
	DoubleOptIn    *bool  `yaml:"double_opt_in"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c MailchimpConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DoubleOptInEnabled reports whether new members start as pending. Defaults to true.
func (c MailchimpConfig) DoubleOptInEnabled() bool {
	return c.DoubleOptIn == nil || *c.DoubleOptIn
}

// DNSConfig controls the mail-route lookup used by the email validator
type DNSConfig struct {
	// Nameserver is host:port of a resolver to query directly. Empty uses the system resolver.
	Nameserver     string `yaml:"nameserver"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c DNSConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabaseConfig holds the Postgres connection used for the event log
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds the Redis connection used for rate limiting
type RedisConfig struct {
	URL string `yaml:"url"`
}

// EventsConfig holds the SQS destination for subscription events
type EventsConfig struct {
	SQSQueueURL string `yaml:"sqs_queue_url"`
	Region      string `yaml:"region"`
}

// RateLimitConfig bounds form submissions per client IP
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// RedactPIIEnabled reports whether email addresses are masked in logs. Defaults to true.
func (c LogConfig) RedactPIIEnabled() bool {
	return c.RedactPII == nil || *c.RedactPII
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	resolveEnvRefs(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Mailchimp.TimeoutSeconds == 0 {
		cfg.Mailchimp.TimeoutSeconds = 10
	}
	if cfg.DNS.TimeoutSeconds == 0 {
		cfg.DNS.TimeoutSeconds = 5
	}
	if cfg.Events.Region == "" {
		cfg.Events.Region = "us-west-2"
	}
	if cfg.RateLimit.RequestsPerMinute == 0 {
		cfg.RateLimit.RequestsPerMinute = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// resolveEnvRefs replaces "$NAME" credential values with the named
// environment variable, so secrets can stay out of the YAML file.
func resolveEnvRefs(cfg *Config) {
	cfg.Mailchimp.APIKey = ParseEnv(cfg.Mailchimp.APIKey)
	cfg.Mailchimp.AudienceID = ParseEnv(cfg.Mailchimp.AudienceID)
	cfg.Mailchimp.ListID = ParseEnv(cfg.Mailchimp.ListID)
}

// ParseEnv returns the value of the environment variable named by s when s
// has the form "$NAME". Any other string is returned unchanged.
func ParseEnv(s string) string {
	if len(s) < 2 || s[0] != '$' {
		return s
	}
	name := s[1:]
	if strings.ContainsAny(name, " /:") {
		return s
	}
	return os.Getenv(name)
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in production.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("MAILCHIMP_API_KEY"); v != "" {
		cfg.Mailchimp.APIKey = v
	}
	if v := os.Getenv("MAILCHIMP_AUDIENCE_ID"); v != "" {
		cfg.Mailchimp.AudienceID = v
	}
	if v := os.Getenv("MAILCHIMP_LIST_ID"); v != "" {
		cfg.Mailchimp.ListID = v
	}
	if v := os.Getenv("MAILCHIMP_BASE_URL"); v != "" {
		cfg.Mailchimp.BaseURL = v
	}
	if v := os.Getenv("MAILCHIMP_DOUBLE_OPT_IN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Mailchimp.DoubleOptIn = &b
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("EVENTS_SQS_QUEUE_URL"); v != "" {
		cfg.Events.SQSQueueURL = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Events.Region = v
	}
	if v := os.Getenv("DNS_NAMESERVER"); v != "" {
		cfg.DNS.Nameserver = v
	}
	if v := os.Getenv("TRUST_PROXY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.TrustProxy = b
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	return cfg, nil
}
