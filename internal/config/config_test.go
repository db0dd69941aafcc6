package config

import (
	"os"
	"testing"
	"time"

	"github.com/ashureev/salestwin/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "PORT", "DB_PATH", "BACKEND_URL", "SILENCE_THRESHOLD", "SPEECH_LOCALE",
		"SESSION_TTL", "CLIENT_REPLY_DELAY", "ARCHIVE_ENABLED", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, remote.DefaultBaseURL, cfg.BackendURL)
	assert.Equal(t, 2*time.Second, cfg.Speech.SilenceThreshold)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Speech.ReplyDelay)
	assert.Equal(t, "pl-PL", cfg.Speech.Locale)
	assert.True(t, cfg.ArchiveEnabled)
	assert.Equal(t, time.Minute, cfg.RateLimit.WindowDuration)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BACKEND_URL", "http://localhost:7000")
	t.Setenv("SILENCE_THRESHOLD", "3s")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("ARCHIVE_ENABLED", "off")
	t.Setenv("DB_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://localhost:7000", cfg.BackendURL)
	assert.Equal(t, 3*time.Second, cfg.Speech.SilenceThreshold)
	assert.Equal(t, 5, cfg.RateLimit.RequestsPerWindow)
	assert.False(t, cfg.ArchiveEnabled, "empty DB_PATH is fine without the archive")
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("SILENCE_THRESHOLD", "soon")
	t.Setenv("BACKEND_URL", remote.DefaultBaseURL)
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Speech.SilenceThreshold)
}

func validConfig() *Config {
	return &Config{
		Port:           "8080",
		DBPath:         "x.db",
		SessionTTL:     time.Hour,
		BackendURL:     remote.DefaultBaseURL,
		ArchiveEnabled: true,
		Speech:         SpeechConfig{Locale: "pl-PL", SilenceThreshold: time.Second},
		RateLimit:      RateLimitConfig{RequestsPerWindow: 1, WindowDuration: time.Minute},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty port", func(c *Config) { c.Port = "" }, "PORT"},
		{"empty db with archive", func(c *Config) { c.DBPath = "" }, "DB_PATH"},
		{"relative backend", func(c *Config) { c.BackendURL = "/chat" }, "BACKEND_URL"},
		{"ftp backend", func(c *Config) { c.BackendURL = "ftp://example.com" }, "BACKEND_URL"},
		{"zero silence", func(c *Config) { c.Speech.SilenceThreshold = 0 }, "SILENCE_THRESHOLD"},
		{"no locale", func(c *Config) { c.Speech.Locale = "" }, "SPEECH_LOCALE"},
		{"zero rate", func(c *Config) { c.RateLimit.RequestsPerWindow = 0 }, "RATE_LIMIT_REQUESTS"},
		{"log without dir", func(c *Config) { c.ConversationLog.Enabled = true }, "CONVERSATION_LOG_DIR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{FrontendURL: "https://app.example.com, https://staging.example.com"}
	origins := cfg.AllowedOrigins()
	assert.Contains(t, origins, "https://app.example.com")
	assert.Contains(t, origins, "https://staging.example.com")
	assert.True(t, (&Config{}).IsDevelopment())
	assert.False(t, cfg.IsDevelopment())
}
