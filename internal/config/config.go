package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the environment leaves a setting empty.
const (
	DefaultLogFormat      = "text"
	DefaultLogLevel       = "info"
	DefaultAuthBackend    = "stub"
	DefaultSubmitDelay    = 1500 * time.Millisecond
	DefaultEmailProvider  = "log"
	DefaultEmailSender    = "Auth Panel <no-reply@localhost>"
	DefaultEmailOutboxDir = "outbox"
	DefaultAppBaseURL     = "http://localhost:8080"
)

// ErrInvalidConfig is returned by Validate for any rejected setting.
var ErrInvalidConfig = errors.New("invalid configuration")

// Provider exposes configuration through getters so that consumers can be
// handed a small mock in tests.
type Provider interface {
	GetLogFormat() string
	GetLogLevel() string
	GetAuthBackend() string
	GetSubmitDelay() time.Duration
	GetEmailProvider() string
	GetEmailSender() string
	GetEmailOutboxDir() string
	GetAppBaseURL() string
}

// Config holds all configuration for the application.
type Config struct {
	LogFormat      string
	LogLevel       string
	AuthBackend    string
	SubmitDelay    time.Duration
	EmailProvider  string
	EmailSender    string
	EmailOutboxDir string
	AppBaseURL     string

	// rawSubmitDelay keeps an unparsable SUBMIT_DELAY for Validate.
	rawSubmitDelay string
}

// New loads configuration from a .env file, if present, and the environment.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv reads configuration from the environment only.
func FromEnv() *Config {
	cfg := &Config{
		LogFormat:      getenv("LOG_FORMAT", DefaultLogFormat),
		LogLevel:       getenv("LOG_LEVEL", DefaultLogLevel),
		AuthBackend:    getenv("AUTH_BACKEND", DefaultAuthBackend),
		SubmitDelay:    DefaultSubmitDelay,
		EmailProvider:  getenv("EMAIL_PROVIDER", DefaultEmailProvider),
		EmailSender:    getenv("EMAIL_SENDER", DefaultEmailSender),
		EmailOutboxDir: getenv("EMAIL_OUTBOX_DIR", DefaultEmailOutboxDir),
		AppBaseURL:     strings.TrimRight(getenv("APP_BASE_URL", DefaultAppBaseURL), "/"),
	}

	if raw := strings.TrimSpace(os.Getenv("SUBMIT_DELAY")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.SubmitDelay = d
		} else {
			cfg.rawSubmitDelay = raw
		}
	}
	return cfg
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: LOG_FORMAT must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: LOG_LEVEL must be debug, info, warn or error, got %q", ErrInvalidConfig, c.LogLevel)
	}
	switch c.AuthBackend {
	case "stub", "memory":
	default:
		return fmt.Errorf("%w: AUTH_BACKEND must be stub or memory, got %q", ErrInvalidConfig, c.AuthBackend)
	}
	if c.rawSubmitDelay != "" {
		return fmt.Errorf("%w: SUBMIT_DELAY %q is not a duration", ErrInvalidConfig, c.rawSubmitDelay)
	}
	if c.SubmitDelay < 0 {
		return fmt.Errorf("%w: SUBMIT_DELAY must not be negative", ErrInvalidConfig)
	}
	switch c.EmailProvider {
	case "log":
	case "outbox":
		if c.EmailOutboxDir == "" {
			return fmt.Errorf("%w: EMAIL_PROVIDER is outbox but EMAIL_OUTBOX_DIR is empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: EMAIL_PROVIDER must be log or outbox, got %q", ErrInvalidConfig, c.EmailProvider)
	}
	if u, err := url.Parse(c.AppBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: APP_BASE_URL %q is not an absolute URL", ErrInvalidConfig, c.AppBaseURL)
	}
	return nil
}

func (c *Config) GetLogFormat() string          { return c.LogFormat }
func (c *Config) GetLogLevel() string           { return c.LogLevel }
func (c *Config) GetAuthBackend() string        { return c.AuthBackend }
func (c *Config) GetSubmitDelay() time.Duration { return c.SubmitDelay }
func (c *Config) GetEmailProvider() string      { return c.EmailProvider }
func (c *Config) GetEmailSender() string        { return c.EmailSender }
func (c *Config) GetEmailOutboxDir() string     { return c.EmailOutboxDir }
func (c *Config) GetAppBaseURL() string         { return c.AppBaseURL }

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
