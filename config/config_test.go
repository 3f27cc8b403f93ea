package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: true,
		},
		{
			name: "debug gin mode",
			config: &Config{
				Server: ServerConfig{GinMode: "debug"},
			},
			expected: true,
		},
		{
			name: "production environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "production"},
			},
			expected: false,
		},
		{
			name: "release mode",
			config: &Config{
				Server: ServerConfig{GinMode: "release", AppEnv: "production"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.IsDevelopment()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "production environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "production"},
			},
			expected: true,
		},
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: false,
		},
		{
			name: "staging environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "staging"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.IsProduction()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			BaseURL:         "https://nexadigital.id",
			AllowedOrigins:  []string{"https://nexadigital.id"},
			DefaultLanguage: "id",
			Timezone:        "Asia/Jakarta",
		},
		WhatsApp:  WhatsAppConfig{Phone: "6281234567890"},
		Directory: DirectoryConfig{PageSize: 1000, PageDelay: 100 * time.Millisecond},
		Drafts:    DraftsConfig{Backend: "memory"},
		Session:   SessionConfig{JWTSecret: strings.Repeat("s", 32)},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "missing whatsapp phone",
			mutate:      func(c *Config) { c.WhatsApp.Phone = "" },
			expectError: true,
			errorMsg:    "WHATSAPP_PHONE is required",
		},
		{
			name:        "whatsapp phone with letters",
			mutate:      func(c *Config) { c.WhatsApp.Phone = "62812abc" },
			expectError: true,
			errorMsg:    "international format",
		},
		{
			name:        "short jwt secret",
			mutate:      func(c *Config) { c.Session.JWTSecret = "short" },
			expectError: true,
			errorMsg:    "at least 32 characters",
		},
		{
			name:        "page size above provider maximum",
			mutate:      func(c *Config) { c.Directory.PageSize = 1001 },
			expectError: true,
			errorMsg:    "DIRECTORY_PAGE_SIZE",
		},
		{
			name:        "negative page delay",
			mutate:      func(c *Config) { c.Directory.PageDelay = -time.Second },
			expectError: true,
			errorMsg:    "DIRECTORY_PAGE_DELAY",
		},
		{
			name:        "unknown drafts backend",
			mutate:      func(c *Config) { c.Drafts.Backend = "postgres" },
			expectError: true,
			errorMsg:    "DRAFTS_BACKEND",
		},
		{
			name:        "redis backend without url",
			mutate:      func(c *Config) { c.Drafts.Backend = "redis" },
			expectError: true,
			errorMsg:    "REDIS_URL is required",
		},
		{
			name: "redis backend with url",
			mutate: func(c *Config) {
				c.Drafts.Backend = "redis"
				c.Drafts.RedisURL = "redis://localhost:6379/0"
			},
		},
		{
			name:        "unsupported language",
			mutate:      func(c *Config) { c.Server.DefaultLanguage = "fr" },
			expectError: true,
			errorMsg:    "DEFAULT_LANGUAGE",
		},
		{
			name:        "invalid timezone",
			mutate:      func(c *Config) { c.Server.Timezone = "Mars/Olympus" },
			expectError: true,
			errorMsg:    "APP_TIMEZONE",
		},
		{
			name:        "profiling enabled without endpoint",
			mutate:      func(c *Config) { c.Profiling.Enabled = true },
			expectError: true,
			errorMsg:    "O11Y_PROFILING_ENDPOINT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Helpers(t *testing.T) {
	cfg := validConfig()
	cfg.Directory.CountCacheTTLSeconds = 60

	assert.Equal(t, "Asia/Jakarta", cfg.Location().String())
	assert.Equal(t, time.Minute, cfg.CountCacheTTL())
	assert.Equal(t, 30*time.Minute, cfg.DraftTTL())
	assert.False(t, cfg.StorageEnabled())
	assert.False(t, cfg.FirebaseEnabled())

	cfg.Server.Timezone = "nowhere"
	assert.Equal(t, time.UTC, cfg.Location())
}

func chdirTemp(t *testing.T) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(originalDir) })
}

func TestLoad_WithDefaults(t *testing.T) {
	chdirTemp(t)
	os.Clearenv()

	t.Setenv("WHATSAPP_PHONE", "+6281234567890")
	t.Setenv("JWT_SECRET", strings.Repeat("x", 40))

	cfg, err := Load()

	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Equal(t, "id", cfg.Server.DefaultLanguage)
	assert.Equal(t, "Asia/Jakarta", cfg.Server.Timezone)
	assert.Equal(t, "6281234567890", cfg.WhatsApp.Phone)
	assert.Equal(t, "https://wa.me", cfg.WhatsApp.BaseURL)
	assert.Equal(t, 1000, cfg.Directory.PageSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Directory.PageDelay)
	assert.Equal(t, 60, cfg.Directory.CountCacheTTLSeconds)
	assert.Equal(t, "@every 5m", cfg.Directory.WarmSchedule)
	assert.Equal(t, "memory", cfg.Drafts.Backend)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "/app/logs", cfg.Logging.Dir)
	assert.Equal(t, []string{"https://nexadigital.id", "https://www.nexadigital.id"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Session.CookieSecure)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	chdirTemp(t)
	os.Clearenv()

	t.Setenv("PORT", "9000")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("APP_ENV", "development")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WHATSAPP_PHONE", "6280000000000")
	t.Setenv("JWT_SECRET", strings.Repeat("y", 32))
	t.Setenv("DEFAULT_LANGUAGE", "EN")
	t.Setenv("ALLOWED_CORS_ORIGINS", "http://localhost:3000, http://127.0.0.1:3000,")
	t.Setenv("DIRECTORY_PAGE_SIZE", "250")
	t.Setenv("DIRECTORY_PAGE_DELAY", "0s")
	t.Setenv("DRAFTS_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("LEAD_CREATED_TRIGGER_URL", "https://hooks.example.com/lead")
	t.Setenv("RECAPTCHA_V2_SECRET_KEY", "recaptcha-secret")
	t.Setenv("FIREBASE_WEB_API_KEY", "web-key")
	t.Setenv("IDENTITY_BASE_URL", "http://localhost:9099/v1/")

	cfg, err := Load()

	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "en", cfg.Server.DefaultLanguage)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 250, cfg.Directory.PageSize)
	assert.Equal(t, time.Duration(0), cfg.Directory.PageDelay)
	assert.Equal(t, "redis", cfg.Drafts.Backend)
	assert.Equal(t, "redis://cache:6379/1", cfg.Drafts.RedisURL)
	assert.Equal(t, "https://hooks.example.com/lead", cfg.EventTriggers.LeadCreatedTriggerURL)
	assert.Equal(t, "recaptcha-secret", cfg.ReCAPTCHA.SecretKey)
	assert.Equal(t, "web-key", cfg.Identity.APIKey)
	assert.Equal(t, "http://localhost:9099/v1", cfg.Identity.BaseURL)
}

func TestLoad_ValidationFailure(t *testing.T) {
	chdirTemp(t)
	os.Clearenv()

	cfg, err := Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}
