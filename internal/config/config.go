package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Runtime settings for the score service. Every field can be set from the
// environment; CONFIG_PATH may point at an optional YAML/JSON/TOML file whose
// keys use the same names in lower case.
type Config struct {
	Port               string        `mapstructure:"port"`
	DatabaseURL        string        `mapstructure:"database_url"`
	RedisURL           string        `mapstructure:"redis_url"`
	SeedPath           string        `mapstructure:"seed_path"`
	GeminiAPIKey       string        `mapstructure:"gemini_api_key"`
	GeminiModel        string        `mapstructure:"gemini_model"`
	GeminiBaseURL      string        `mapstructure:"gemini_base_url"`
	GeminiTimeout      time.Duration `mapstructure:"gemini_timeout"`
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute"`
	KafkaBrokers       []string      `mapstructure:"kafka_brokers"`
	KafkaTopic         string        `mapstructure:"kafka_topic"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	LogLevel           string        `mapstructure:"log_level"`
	LogFormat          string        `mapstructure:"log_format"`
}

var defaults = map[string]any{
	"port":                  "8080",
	"database_url":          "",
	"redis_url":             "",
	"seed_path":             "data/seeds/challenge_areas.json",
	"gemini_api_key":        "",
	"gemini_model":          "gemini-2.0-flash-exp",
	"gemini_base_url":       "https://generativelanguage.googleapis.com",
	"gemini_timeout":        "60s",
	"session_ttl":           "2h",
	"rate_limit_per_minute": 30,
	"kafka_brokers":         "",
	"kafka_topic":           "ecomap.scores",
	"cors_allowed_origins":  "*",
	"log_level":             "info",
	"log_format":            "json",
}

// Load reads configuration from the environment and, when CONFIG_PATH is set,
// from that file. Environment values win over the file.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key := range defaults {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.KafkaBrokers = splitList(c.KafkaBrokers)
	c.CORSAllowedOrigins = splitList(c.CORSAllowedOrigins)

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("config: PORT must be non-empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("config: RATE_LIMIT_PER_MINUTE must not be negative, got %d", c.RateLimitPerMinute)
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// splitList flattens comma separated entries, which is how list values arrive
// from the environment.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
