package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// DefaultPath is where Load looks for the JSON config when no path is given.
var DefaultPath = filepath.Join("config", "config.json")

// AppConfig holds the resolved configuration values.
// Secrets have no defaults in code and must come from the config file or the environment.
type AppConfig struct {
	AppPort            string
	AppEnv             string
	SessionSecret      string
	SessionTTLHours    int
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Redis view cache; disabled when RedisHost is empty
	RedisHost       string
	RedisPort       int
	RedisDB         int
	RedisPassword   string
	CacheTTLSeconds int
	// xAI (OpenAI compatible) generation API
	XAIAPIKey     string
	XAIBaseURL    string
	XAIModel      string
	XAITimeoutSec int
	XAIMaxRetries int
	// LinkedIn OAuth application
	LinkedInClientID     string
	LinkedInClientSecret string
	LinkedInRedirectURL  string
	// Scheduled post publisher
	PublisherEnabled     bool
	PublisherIntervalSec int
}

// XAIConfigured reports whether a usable API key is present.
func (c AppConfig) XAIConfigured() bool {
	return c.XAIAPIKey != "" && c.XAIAPIKey != "default_key"
}

// LinkedInConfigured reports whether the OAuth application is set up.
func (c AppConfig) LinkedInConfigured() bool {
	return c.LinkedInClientID != "" && c.LinkedInClientSecret != ""
}

var (
	cfg    AppConfig
	loaded bool
	mu     sync.Mutex
)

// Load resolves the configuration once during boot. An empty path means DefaultPath.
func Load(path string) (AppConfig, error) {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cfg, nil
	}
	if path == "" {
		path = DefaultPath
	}
	c, err := LoadFrom(path)
	if err != nil {
		return AppConfig{}, err
	}
	cfg, loaded = c, true
	return cfg, nil
}

// LoadFrom reads one config file without touching the cached value.
// Precedence: environment variables > JSON file > defaults. A missing file is not an error.
func LoadFrom(path string) (AppConfig, error) {
	v := viper.New()
	applyDefaults(v)
	if err := bindEnv(v); err != nil {
		return AppConfig{}, err
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	return AppConfig{
		AppPort:            v.GetString("app.port"),
		AppEnv:             v.GetString("app.env"),
		SessionSecret:      v.GetString("app.session_secret"),
		SessionTTLHours:    v.GetInt("app.session_ttl_hours"),
		RateLimitPerMinute: v.GetInt("app.rate_limit_per_minute"),
		AllowedOrigins:     readList(v, "app.allowed_origins"),

		GinMode: v.GetString("gin.mode"),
		GinPath: v.GetString("gin.log_path"),

		LogLevel:      v.GetString("log.level"),
		LogPath:       v.GetString("log.path"),
		LogMaxSizeMB:  v.GetInt("log.max_size_mb"),
		LogMaxBackups: v.GetInt("log.max_backups"),
		LogMaxAgeDays: v.GetInt("log.max_age_days"),
		LogCompress:   v.GetBool("log.compress"),

		RedisHost:       v.GetString("redis.host"),
		RedisPort:       v.GetInt("redis.port"),
		RedisDB:         v.GetInt("redis.db"),
		RedisPassword:   v.GetString("redis.password"),
		CacheTTLSeconds: v.GetInt("redis.cache_ttl_seconds"),

		XAIAPIKey:     v.GetString("xai.api_key"),
		XAIBaseURL:    v.GetString("xai.base_url"),
		XAIModel:      v.GetString("xai.model"),
		XAITimeoutSec: v.GetInt("xai.timeout_sec"),
		XAIMaxRetries: v.GetInt("xai.max_retries"),

		LinkedInClientID:     v.GetString("linkedin.client_id"),
		LinkedInClientSecret: v.GetString("linkedin.client_secret"),
		LinkedInRedirectURL:  v.GetString("linkedin.redirect_url"),

		PublisherEnabled:     v.GetBool("publisher.enabled"),
		PublisherIntervalSec: v.GetInt("publisher.interval_sec"),
	}, nil
}

// applyDefaults sets sane defaults for everything that is not a secret.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "5000")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.session_ttl_hours", 24*7)
	v.SetDefault("app.rate_limit_per_minute", 30)
	v.SetDefault("app.allowed_origins", []string{"*"})
	v.SetDefault("gin.mode", "release")
	v.SetDefault("gin.log_path", "logs/go_gin.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.cache_ttl_seconds", 60)
	v.SetDefault("xai.base_url", "https://api.x.ai/v1")
	v.SetDefault("xai.model", "grok-2-1212")
	v.SetDefault("xai.timeout_sec", 60)
	v.SetDefault("xai.max_retries", 2)
	v.SetDefault("linkedin.redirect_url", "http://localhost:5000/api/linkedin/callback")
	v.SetDefault("publisher.enabled", true)
	v.SetDefault("publisher.interval_sec", 60)
}

// envKeys maps environment variables onto config keys.
var envKeys = map[string]string{
	"app.session_secret":        "SESSION_SECRET",
	"app.session_ttl_hours":     "SESSION_TTL_HOURS",
	"app.rate_limit_per_minute": "RATE_LIMIT_PER_MINUTE",
	"app.allowed_origins":       "CORS_ALLOWED_ORIGINS",
	"gin.mode":                  "GIN_MODE",
	"gin.log_path":              "GIN_PATH",
	"log.level":                 "LOG_LEVEL",
	"log.path":                  "LOG_PATH",
	"log.max_size_mb":           "LOG_MAX_SIZE_MB",
	"log.max_backups":           "LOG_MAX_BACKUPS",
	"log.max_age_days":          "LOG_MAX_AGE_DAYS",
	"log.compress":              "LOG_COMPRESS",
	"redis.host":                "REDIS_HOST",
	"redis.port":                "REDIS_PORT",
	"redis.db":                  "REDIS_DB",
	"redis.password":            "REDIS_PASSWORD",
	"redis.cache_ttl_seconds":   "CACHE_TTL_SECONDS",
	"xai.api_key":               "XAI_API_KEY",
	"xai.base_url":              "XAI_BASE_URL",
	"xai.model":                 "XAI_MODEL",
	"xai.timeout_sec":           "XAI_TIMEOUT_SEC",
	"xai.max_retries":           "XAI_MAX_RETRIES",
	"linkedin.client_id":        "LINKEDIN_CLIENT_ID",
	"linkedin.client_secret":    "LINKEDIN_CLIENT_SECRET",
	"linkedin.redirect_url":     "LINKEDIN_REDIRECT_URL",
	"publisher.enabled":         "PUBLISHER_ENABLED",
	"publisher.interval_sec":    "PUBLISHER_INTERVAL_SEC",
}

func bindEnv(v *viper.Viper) error {
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", env, err)
		}
	}
	// PORT and NODE_ENV keep the old node deployment scripts working
	if err := v.BindEnv("app.env", "APP_ENV", "NODE_ENV"); err != nil {
		return err
	}
	return v.BindEnv("app.port", "APP_PORT", "PORT")
}

// readList accepts either a JSON array or a comma separated env value.
func readList(v *viper.Viper, key string) []string {
	if raw, ok := v.Get(key).(string); ok {
		return splitAndTrim(raw)
	}
	return v.GetStringSlice(key)
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
