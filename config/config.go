package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Firebase      FirebaseConfig
	Identity      IdentityConfig
	WhatsApp      WhatsAppConfig
	Directory     DirectoryConfig
	Drafts        DraftsConfig
	Storage       StorageConfig
	ReCAPTCHA     ReCAPTCHAConfig
	EventTriggers EventTriggersConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
	Session       SessionConfig
}

type ServerConfig struct {
	Port            string
	GinMode         string
	AppEnv          string
	BaseURL         string
	AllowedOrigins  []string
	DefaultLanguage string
	Timezone        string
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsPath string
}

// IdentityConfig configures the Identity Toolkit REST endpoints used for
// password sign-in and password reset.
type IdentityConfig struct {
	APIKey  string
	BaseURL string
}

type WhatsAppConfig struct {
	Phone       string
	BaseURL     string
	CompanyName string
}

type DirectoryConfig struct {
	PageSize             int
	PageDelay            time.Duration
	CountCacheTTLSeconds int
	WarmSchedule         string
}

type DraftsConfig struct {
	Backend    string // "memory" or "redis"
	RedisURL   string
	TTLMinutes int
}

type StorageConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
	PublicBaseURL   string
}

type ReCAPTCHAConfig struct {
	SecretKey string
	SiteKey   string
}

type EventTriggersConfig struct {
	LeadCreatedTriggerURL string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
	TraceSampleRatio  float64
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

type SessionConfig struct {
	JWTSecret    string
	JWTIssuer    string
	TTLHours     int
	CookieDomain string
	CookieSecure bool
}

var phonePattern = regexp.MustCompile(`^[1-9][0-9]{7,14}$`)

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "https://nexadigital.id")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://nexadigital.id,https://www.nexadigital.id")
	v.SetDefault("DEFAULT_LANGUAGE", "id")
	v.SetDefault("APP_TIMEZONE", "Asia/Jakarta")
	v.SetDefault("IDENTITY_BASE_URL", "https://identitytoolkit.googleapis.com/v1")
	v.SetDefault("WHATSAPP_BASE_URL", "https://wa.me")
	v.SetDefault("WHATSAPP_COMPANY_NAME", "Nexa Digital")
	v.SetDefault("DIRECTORY_PAGE_SIZE", 1000)
	v.SetDefault("DIRECTORY_PAGE_DELAY", "100ms")
	v.SetDefault("COUNT_CACHE_TTL_SECONDS", 60)
	v.SetDefault("COUNT_WARM_SCHEDULE", "@every 5m")
	v.SetDefault("DRAFTS_BACKEND", "memory")
	v.SetDefault("DRAFTS_TTL_MINUTES", 30)
	v.SetDefault("STORAGE_REGION", "auto")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "nexa-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "nexa-digital")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_TRACE_SAMPLE_RATIO", 1.0)
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "nexa-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)
	v.SetDefault("JWT_ISSUER", "nexa-api")
	v.SetDefault("SESSION_TTL_HOURS", 24*7)
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("COOKIE_SECURE", true)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			GinMode:         v.GetString("GIN_MODE"),
			AppEnv:          v.GetString("APP_ENV"),
			BaseURL:         v.GetString("BASE_URL"),
			AllowedOrigins:  splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
			DefaultLanguage: strings.ToLower(v.GetString("DEFAULT_LANGUAGE")),
			Timezone:        v.GetString("APP_TIMEZONE"),
		},
		Firebase: FirebaseConfig{
			ProjectID:       v.GetString("FIREBASE_PROJECT_ID"),
			CredentialsPath: v.GetString("FIREBASE_CREDENTIALS_PATH"),
		},
		Identity: IdentityConfig{
			APIKey:  v.GetString("FIREBASE_WEB_API_KEY"),
			BaseURL: strings.TrimRight(v.GetString("IDENTITY_BASE_URL"), "/"),
		},
		WhatsApp: WhatsAppConfig{
			Phone:       strings.TrimPrefix(strings.TrimSpace(v.GetString("WHATSAPP_PHONE")), "+"),
			BaseURL:     strings.TrimRight(v.GetString("WHATSAPP_BASE_URL"), "/"),
			CompanyName: v.GetString("WHATSAPP_COMPANY_NAME"),
		},
		Directory: DirectoryConfig{
			PageSize:             v.GetInt("DIRECTORY_PAGE_SIZE"),
			PageDelay:            v.GetDuration("DIRECTORY_PAGE_DELAY"),
			CountCacheTTLSeconds: v.GetInt("COUNT_CACHE_TTL_SECONDS"),
			WarmSchedule:         strings.TrimSpace(v.GetString("COUNT_WARM_SCHEDULE")),
		},
		Drafts: DraftsConfig{
			Backend:    strings.ToLower(v.GetString("DRAFTS_BACKEND")),
			RedisURL:   v.GetString("REDIS_URL"),
			TTLMinutes: v.GetInt("DRAFTS_TTL_MINUTES"),
		},
		Storage: StorageConfig{
			AccessKeyID:     v.GetString("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("STORAGE_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("STORAGE_BUCKET_NAME"),
			Endpoint:        v.GetString("STORAGE_ENDPOINT"),
			Region:          v.GetString("STORAGE_REGION"),
			PublicBaseURL:   strings.TrimRight(v.GetString("STORAGE_PUBLIC_BASE_URL"), "/"),
		},
		ReCAPTCHA: ReCAPTCHAConfig{
			SecretKey: v.GetString("RECAPTCHA_V2_SECRET_KEY"),
			SiteKey:   v.GetString("NEXT_PUBLIC_RECAPTCHA_V2_SITE_KEY"),
		},
		EventTriggers: EventTriggersConfig{
			LeadCreatedTriggerURL: v.GetString("LEAD_CREATED_TRIGGER_URL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
			TraceSampleRatio:  v.GetFloat64("O11Y_TRACE_SAMPLE_RATIO"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
		Session: SessionConfig{
			JWTSecret:    v.GetString("JWT_SECRET"),
			JWTIssuer:    v.GetString("JWT_ISSUER"),
			TTLHours:     v.GetInt("SESSION_TTL_HOURS"),
			CookieDomain: v.GetString("COOKIE_DOMAIN"),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func splitList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}
	if c.Server.DefaultLanguage != "id" && c.Server.DefaultLanguage != "en" {
		return fmt.Errorf("DEFAULT_LANGUAGE must be one of: id, en")
	}
	if _, err := time.LoadLocation(c.Server.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE is invalid: %w", err)
	}

	if c.WhatsApp.Phone == "" {
		return fmt.Errorf("WHATSAPP_PHONE is required")
	}
	if !phonePattern.MatchString(c.WhatsApp.Phone) {
		return fmt.Errorf("WHATSAPP_PHONE must be digits in international format without '+'")
	}

	if c.Session.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Session.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	if c.Directory.PageSize < 1 || c.Directory.PageSize > 1000 {
		return fmt.Errorf("DIRECTORY_PAGE_SIZE must be between 1 and 1000")
	}
	if c.Directory.PageDelay < 0 {
		return fmt.Errorf("DIRECTORY_PAGE_DELAY must not be negative")
	}

	switch c.Drafts.Backend {
	case "memory":
	case "redis":
		if c.Drafts.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when DRAFTS_BACKEND=redis")
		}
	default:
		return fmt.Errorf("DRAFTS_BACKEND must be one of: memory, redis")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// FirebaseEnabled reports whether the admin SDK can be initialised
func (c *Config) FirebaseEnabled() bool {
	return c.Firebase.CredentialsPath != "" || c.Firebase.ProjectID != ""
}

// StorageEnabled reports whether profile picture uploads are configured
func (c *Config) StorageEnabled() bool {
	return c.Storage.AccessKeyID != "" && c.Storage.SecretAccessKey != "" && c.Storage.BucketName != ""
}

// Location returns the configured time zone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CountCacheTTL returns the count cache TTL (zero disables caching)
func (c *Config) CountCacheTTL() time.Duration {
	return time.Duration(c.Directory.CountCacheTTLSeconds) * time.Second
}

// DraftTTL returns how long an idle dashboard draft is kept
func (c *Config) DraftTTL() time.Duration {
	if c.Drafts.TTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Drafts.TTLMinutes) * time.Minute
}
