package config

import (
	"testing"
	"time"
)

func validTestConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:        "gemini",
			Model:           "test-model",
			Timeout:         60 * time.Second,
			APIKey:          "test-key",
			MaxRetries:      3,
			Temperature:     1.0,
			MaxOutputTokens: 1024,
		},
		Sources: SourcesConfig{
			PostingsURL:   "http://example.com/postings",
			CandidatesURL: "http://example.com/candidates",
			Timeout:       30 * time.Second,
		},
		Resume: ResumeConfig{
			Timeout:         30 * time.Second,
			MaxSummaryChars: 1000,
		},
		Matching: MatchingConfig{
			SampleSize: 10,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: "8080",
			TLS:  TLSConfig{Mode: "disabled"},
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxRequestBytes:  1024 * 1024,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing AI API key",
			mutate:  func(c *Config) { c.AI.APIKey = "" },
			wantErr: true,
		},
		{
			name:    "non-positive AI timeout",
			mutate:  func(c *Config) { c.AI.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "missing server port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: true,
		},
		{
			name:    "missing postings URL",
			mutate:  func(c *Config) { c.Sources.PostingsURL = "" },
			wantErr: true,
		},
		{
			name:    "missing candidates URL",
			mutate:  func(c *Config) { c.Sources.CandidatesURL = "" },
			wantErr: true,
		},
		{
			name:    "zero sample size",
			mutate:  func(c *Config) { c.Matching.SampleSize = 0 },
			wantErr: true,
		},
		{
			name: "auto-advance threshold out of range",
			mutate: func(c *Config) {
				c.Matching.AutoAdvance.Enabled = true
				c.Matching.AutoAdvance.Threshold = 150
			},
			wantErr: true,
		},
		{
			name: "auto-advance threshold in range",
			mutate: func(c *Config) {
				c.Matching.AutoAdvance.Enabled = true
				c.Matching.AutoAdvance.Threshold = 70
			},
			wantErr: false,
		},
		{
			name:    "zero resume budget",
			mutate:  func(c *Config) { c.Resume.MaxSummaryChars = 0 },
			wantErr: true,
		},
		{
			name:    "invalid default format",
			mutate:  func(c *Config) { c.App.DefaultFormat = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTLSConfig(t *testing.T) {
	tests := []struct {
		name    string
		tls     TLSConfig
		wantErr bool
	}{
		{
			name:    "disabled mode",
			tls:     TLSConfig{Mode: "disabled"},
			wantErr: false,
		},
		{
			name:    "server mode with files",
			tls:     TLSConfig{Mode: "server", CertFile: "cert.pem", KeyFile: "key.pem"},
			wantErr: false,
		},
		{
			name:    "server mode missing key",
			tls:     TLSConfig{Mode: "server", CertFile: "cert.pem"},
			wantErr: true,
		},
		{
			name:    "mutual mode missing CA",
			tls:     TLSConfig{Mode: "mutual", CertFile: "cert.pem", KeyFile: "key.pem"},
			wantErr: true,
		},
		{
			name: "mutual mode complete",
			tls: TLSConfig{
				Mode: "mutual", CertFile: "cert.pem", KeyFile: "key.pem",
				CAFile: "ca.pem", ClientAuthPolicy: "require",
			},
			wantErr: false,
		},
		{
			name:    "invalid mode",
			tls:     TLSConfig{Mode: "sideways"},
			wantErr: true,
		},
		{
			name:    "invalid min version",
			tls:     TLSConfig{Mode: "server", CertFile: "c", KeyFile: "k", MinVersion: "1.1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.Server.TLS = tt.tls
			err := cfg.ValidateTLSConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTLSConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplySecretFallbacks(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-gemini")
	t.Setenv("LEVER_API_KEY", "env-lever")
	t.Setenv("CALENDLY_API_KEY", "env-calendly")
	t.Setenv("SMTP_USERNAME", "mailer@example.com")
	t.Setenv("SMTP_PASSWORD", "hunter2")

	cfg := &Config{}
	cfg.applySecretFallbacks()

	if cfg.AI.APIKey != "env-gemini" {
		t.Errorf("AI.APIKey = %q, want env-gemini", cfg.AI.APIKey)
	}
	if cfg.ATS.APIKey != "env-lever" {
		t.Errorf("ATS.APIKey = %q, want env-lever", cfg.ATS.APIKey)
	}
	if cfg.Scheduling.APIKey != "env-calendly" {
		t.Errorf("Scheduling.APIKey = %q, want env-calendly", cfg.Scheduling.APIKey)
	}
	if cfg.SMTP.Username != "mailer@example.com" || cfg.SMTP.Password != "hunter2" {
		t.Error("SMTP credentials not picked up from environment")
	}
	if cfg.SMTP.From != "mailer@example.com" {
		t.Errorf("SMTP.From = %q, want fallback to username", cfg.SMTP.From)
	}

	// Explicit config values win over env
	cfg2 := &Config{}
	cfg2.AI.APIKey = "explicit"
	cfg2.applySecretFallbacks()
	if cfg2.AI.APIKey != "explicit" {
		t.Errorf("explicit AI.APIKey overridden by env: %q", cfg2.AI.APIKey)
	}
}
