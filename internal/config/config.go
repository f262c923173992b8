package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings holds everything configurable about the process. Values are
// resolved once at startup and treated as read-only afterwards. Precedence:
// built-in defaults, then an optional YAML file, then JARVIS_* environment
// variables.
type Settings struct {
	Env   string `yaml:"env"`
	Debug bool   `yaml:"debug"`

	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	OTLPAddr string `yaml:"otlp_addr"`

	LogLevel         string `yaml:"log_level"`
	LogDir           string `yaml:"log_dir"`
	LogRetentionDays int    `yaml:"log_retention_days"`

	LogBufferMax    int    `yaml:"log_buffer_max"`
	LogBufferPolicy string `yaml:"log_buffer_policy"`

	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
	RateLimitMaxKeys   int `yaml:"rate_limit_max_keys"`

	RedactionEnabled bool `yaml:"redaction_enabled"`
}

func Defaults() Settings {
	return Settings{
		Env:                "dev",
		Debug:              true,
		Host:               "127.0.0.1",
		Port:               8000,
		OTLPAddr:           ":4317",
		LogLevel:           "info",
		LogRetentionDays:   7,
		LogBufferMax:       1000,
		LogBufferPolicy:    "drop_oldest",
		RateLimitPerMinute: 120,
		RateLimitMaxKeys:   10000,
		RedactionEnabled:   true,
	}
}

// Load resolves settings from defaults, the YAML file at path (if path is
// non-empty), and the environment.
func Load(path string) (Settings, error) {
	settings := Defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &settings); err != nil {
			return Settings{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&settings)

	if settings.LogBufferMax <= 0 {
		return Settings{}, fmt.Errorf("log_buffer_max must be positive, got %d", settings.LogBufferMax)
	}
	if settings.RateLimitPerMinute <= 0 {
		return Settings{}, fmt.Errorf("rate_limit_per_minute must be positive, got %d", settings.RateLimitPerMinute)
	}
	switch settings.LogBufferPolicy {
	case "drop_oldest", "block", "drop_newest":
	default:
		return Settings{}, fmt.Errorf("unknown log_buffer_policy %q", settings.LogBufferPolicy)
	}

	return settings, nil
}

func (s Settings) IsProduction() bool {
	return strings.ToLower(s.Env) == "prod"
}

func (s Settings) ListenAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func applyEnv(s *Settings) {
	envString("JARVIS_ENV", &s.Env)
	envBool("JARVIS_DEBUG", &s.Debug)
	envString("JARVIS_HOST", &s.Host)
	envInt("JARVIS_PORT", &s.Port)
	envString("JARVIS_OTLP_ADDR", &s.OTLPAddr)
	envString("JARVIS_LOG_LEVEL", &s.LogLevel)
	envString("JARVIS_LOG_DIR", &s.LogDir)
	envInt("JARVIS_LOG_RETENTION_DAYS", &s.LogRetentionDays)
	envInt("JARVIS_LOG_BUFFER_MAX", &s.LogBufferMax)
	envString("JARVIS_LOG_BUFFER_POLICY", &s.LogBufferPolicy)
	envInt("JARVIS_RATE_LIMIT_PER_MINUTE", &s.RateLimitPerMinute)
	envInt("JARVIS_RATE_LIMIT_MAX_KEYS", &s.RateLimitMaxKeys)
	envBool("JARVIS_REDACTION_ENABLED", &s.RedactionEnabled)
}

func envString(key string, target *string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func envInt(key string, target *int) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func envBool(key string, target *bool) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}
