// Package config provides application configuration management using Viper.
// It supports loading from environment variables, config files, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	WhatsApp    WhatsAppConfig
	Log         LogConfig
	RateLimit   RateLimitConfig
	SenderLimit SenderLimitConfig
	Shutdown    ShutdownConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string
	Port        int
	Environment string
}

// Address returns the host:port pair the HTTP server listens on.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// WhatsAppConfig holds WhatsApp Cloud API settings.
type WhatsAppConfig struct {
	// VerifyToken is compared against hub.verify_token during webhook
	// subscription handshakes.
	VerifyToken string

	// AccessToken is the Graph API bearer token.
	AccessToken string

	// PhoneNumberID is the business phone number identifier messages are
	// sent from.
	PhoneNumberID string

	// APIURL overrides the Graph API base URL (tests, proxies).
	APIURL string

	// SendTimeout bounds a single outbound send, retries included.
	SendTimeout time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// RateLimitConfig holds per-IP rate limiting settings for the HTTP surface.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// SenderLimitConfig holds per-sender inbound message limits.
type SenderLimitConfig struct {
	MaxPerMinute int
	MaxPerHour   int
}

// ShutdownConfig holds graceful shutdown settings.
type ShutdownConfig struct {
	Timeout time.Duration
}

// Load reads configuration from environment variables and config files.
// Environment variables take precedence over config file values.
func Load() (*Config, error) {
	v := viper.New()

	// Set config file options
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/chatapp")

	// Enable environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	setDefaults(v)

	// Try to read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configNotFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFoundErr) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("server.host"),
			Port:        v.GetInt("server.port"),
			Environment: v.GetString("server.env"),
		},
		WhatsApp: WhatsAppConfig{
			VerifyToken:   v.GetString("whatsapp.verify_token"),
			AccessToken:   v.GetString("whatsapp.access_token"),
			PhoneNumberID: v.GetString("whatsapp.phone_number_id"),
			APIURL:        v.GetString("whatsapp.api_url"),
			SendTimeout:   v.GetDuration("whatsapp.send_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("rate_limit.requests"),
			Window:   v.GetDuration("rate_limit.window"),
		},
		SenderLimit: SenderLimitConfig{
			MaxPerMinute: v.GetInt("sender_limit.max_per_minute"),
			MaxPerHour:   v.GetInt("sender_limit.max_per_hour"),
		},
		Shutdown: ShutdownConfig{
			Timeout: v.GetDuration("shutdown.timeout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults configures default values for all settings.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.env", "development")

	// WhatsApp defaults
	v.SetDefault("whatsapp.api_url", "https://graph.facebook.com/v19.0")
	v.SetDefault("whatsapp.send_timeout", "45s")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Rate limit defaults
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	// Sender limit defaults
	v.SetDefault("sender_limit.max_per_minute", 20)
	v.SetDefault("sender_limit.max_per_hour", 200)

	// Shutdown defaults
	v.SetDefault("shutdown.timeout", "30s")
}

// Validate checks that all required configuration values are present.
func (c *Config) Validate() error {
	var missing []string

	if c.WhatsApp.VerifyToken == "" {
		missing = append(missing, "WHATSAPP_VERIFY_TOKEN")
	}
	if c.WhatsApp.AccessToken == "" {
		missing = append(missing, "WHATSAPP_ACCESS_TOKEN")
	}
	if c.WhatsApp.PhoneNumberID == "" {
		missing = append(missing, "WHATSAPP_PHONE_NUMBER_ID")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
