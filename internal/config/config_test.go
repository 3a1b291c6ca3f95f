package config

import (
	"testing"
	"time"
)

func TestServerConfig_Address(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 9090}

	if got := cfg.Address(); got != "127.0.0.1:9090" {
		t.Errorf("Address() = %q, expected %q", got, "127.0.0.1:9090")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				WhatsApp: WhatsAppConfig{
					VerifyToken:   "verify",
					AccessToken:   "token",
					PhoneNumberID: "12345",
				},
			},
			wantErr: false,
		},
		{
			name: "missing verify token",
			config: Config{
				WhatsApp: WhatsAppConfig{
					AccessToken:   "token",
					PhoneNumberID: "12345",
				},
			},
			wantErr: true,
		},
		{
			name: "missing access token",
			config: Config{
				WhatsApp: WhatsAppConfig{
					VerifyToken:   "verify",
					PhoneNumberID: "12345",
				},
			},
			wantErr: true,
		},
		{
			name: "missing phone number id",
			config: Config{
				WhatsApp: WhatsAppConfig{
					VerifyToken: "verify",
					AccessToken: "token",
				},
			},
			wantErr: true,
		},
		{
			name:    "everything missing",
			config:  Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WHATSAPP_VERIFY_TOKEN", "verify")
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "token")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "12345")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, expected 8080", cfg.Server.Port)
	}
	if cfg.WhatsApp.APIURL != "https://graph.facebook.com/v19.0" {
		t.Errorf("WhatsApp.APIURL = %q", cfg.WhatsApp.APIURL)
	}
	if cfg.WhatsApp.SendTimeout != 45*time.Second {
		t.Errorf("WhatsApp.SendTimeout = %v, expected 45s", cfg.WhatsApp.SendTimeout)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log defaults = %q/%q", cfg.Log.Level, cfg.Log.Format)
	}
	if cfg.RateLimit.Requests != 100 || cfg.RateLimit.Window != time.Minute {
		t.Errorf("RateLimit defaults = %d/%v", cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}
	if cfg.SenderLimit.MaxPerMinute != 20 || cfg.SenderLimit.MaxPerHour != 200 {
		t.Errorf("SenderLimit defaults = %d/%d", cfg.SenderLimit.MaxPerMinute, cfg.SenderLimit.MaxPerHour)
	}
	if cfg.Shutdown.Timeout != 30*time.Second {
		t.Errorf("Shutdown.Timeout = %v, expected 30s", cfg.Shutdown.Timeout)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("WHATSAPP_VERIFY_TOKEN", "")
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for missing required values")
	}
}

func TestConfig_EnvironmentHelpers(t *testing.T) {
	tests := []struct {
		env     string
		wantDev bool
		wantPrd bool
	}{
		{"development", true, false},
		{"production", false, true},
		{"staging", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := &Config{Server: ServerConfig{Environment: tt.env}}
			if got := cfg.IsDevelopment(); got != tt.wantDev {
				t.Errorf("IsDevelopment() = %v, expected %v", got, tt.wantDev)
			}
			if got := cfg.IsProduction(); got != tt.wantPrd {
				t.Errorf("IsProduction() = %v, expected %v", got, tt.wantPrd)
			}
		})
	}
}
