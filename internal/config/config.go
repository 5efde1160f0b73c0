package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the full runtime configuration tree.
type Config struct {
	App        AppConfig        `yaml:"app"`
	Capture    CaptureConfig    `yaml:"capture"`
	Operator   OperatorConfig   `yaml:"operator"`
	Cors       CORSConfig       `yaml:"cors"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// AppConfig captures application-level settings.
type AppConfig struct {
	Name    string `yaml:"name"`
	Env     string `yaml:"env"`
	Version string `yaml:"version"`
	Port    string `yaml:"port"`
}

// CaptureConfig governs the in-memory log history and its export.
type CaptureConfig struct {
	MaxCount         int    `yaml:"max_count"`
	ExportDir        string `yaml:"export_dir"`
	ExportOnShutdown bool   `yaml:"export_on_shutdown"`
	DisplayUTCOffset int    `yaml:"display_utc_offset"`
	CaptureStdLog    bool   `yaml:"capture_stdlog"`
}

// OperatorConfig protects the debug and console endpoints.
type OperatorConfig struct {
	TokenSecret       string `yaml:"token_secret"`
	TokenIssuer       string `yaml:"token_issuer"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	Burst             int    `yaml:"burst"`
}

// CORSConfig declares cross-origin policy.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
}

// MonitoringConfig adds observability tunables.
type MonitoringConfig struct {
	PrometheusEnabled bool    `yaml:"prometheus_enabled"`
	SentryDSN         string  `yaml:"sentry_dsn"`
	SentrySampleRate  float64 `yaml:"sentry_sample_rate"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:    "runtime-logviewer",
			Env:     "development",
			Version: "0.1.0",
			Port:    "8080",
		},
		Capture: CaptureConfig{
			MaxCount:         1000,
			ExportOnShutdown: true,
			DisplayUTCOffset: 7,
			CaptureStdLog:    true,
		},
		Operator: OperatorConfig{
			TokenSecret:       "change-me",
			TokenIssuer:       "runtime-logviewer",
			RequestsPerMinute: 30,
			Burst:             5,
		},
		Cors: CORSConfig{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept"},
			AllowCredentials: true,
		},
		Monitoring: MonitoringConfig{
			PrometheusEnabled: true,
			SentrySampleRate:  0.2,
		},
	}
}

// Load builds Config from defaults, an optional YAML file and the
// environment (optionally .env), in that order of precedence. An empty path
// falls back to LOGVIEWER_CONFIG.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path == "" {
		path = getenv("LOGVIEWER_CONFIG", "")
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.App.Name = getenv("APP_NAME", c.App.Name)
	c.App.Env = getenv("APP_ENV", c.App.Env)
	c.App.Version = getenv("APP_VERSION", c.App.Version)
	c.App.Port = getenv("PORT", c.App.Port)

	c.Capture.MaxCount = getInt("LOG_HISTORY_MAX", c.Capture.MaxCount)
	c.Capture.ExportDir = getenv("LOG_EXPORT_DIR", c.Capture.ExportDir)
	c.Capture.ExportOnShutdown = getBool("LOG_EXPORT_ON_SHUTDOWN", c.Capture.ExportOnShutdown)
	c.Capture.DisplayUTCOffset = getInt("LOG_DISPLAY_UTC_OFFSET", c.Capture.DisplayUTCOffset)
	c.Capture.CaptureStdLog = getBool("LOG_CAPTURE_STDLOG", c.Capture.CaptureStdLog)

	c.Operator.TokenSecret = getenv("OPERATOR_TOKEN_SECRET", c.Operator.TokenSecret)
	c.Operator.TokenIssuer = getenv("OPERATOR_TOKEN_ISSUER", c.Operator.TokenIssuer)
	c.Operator.RequestsPerMinute = getInt("OPERATOR_RATE_PER_MIN", c.Operator.RequestsPerMinute)
	c.Operator.Burst = getInt("OPERATOR_RATE_BURST", c.Operator.Burst)

	if origins := splitAndTrim(getenv("CORS_ORIGINS", "")); origins != nil {
		c.Cors.AllowedOrigins = origins
	}
	if methods := splitAndTrim(getenv("CORS_METHODS", "")); methods != nil {
		c.Cors.AllowedMethods = methods
	}
	if headers := splitAndTrim(getenv("CORS_HEADERS", "")); headers != nil {
		c.Cors.AllowedHeaders = headers
	}
	c.Cors.AllowCredentials = getBool("CORS_ALLOW_CREDENTIALS", c.Cors.AllowCredentials)

	c.Monitoring.PrometheusEnabled = getBool("PROMETHEUS_ENABLED", c.Monitoring.PrometheusEnabled)
	c.Monitoring.SentryDSN = getenv("SENTRY_DSN", c.Monitoring.SentryDSN)
	c.Monitoring.SentrySampleRate = getFloat("SENTRY_SAMPLE_RATE", c.Monitoring.SentrySampleRate)
}

func (c *Config) validate() error {
	if c.Capture.MaxCount <= 0 {
		return fmt.Errorf("log history max must be positive, got %d", c.Capture.MaxCount)
	}
	if c.Operator.TokenSecret == "" {
		return fmt.Errorf("operator token secret must be provided")
	}
	if c.Capture.DisplayUTCOffset < -12 || c.Capture.DisplayUTCOffset > 14 {
		return fmt.Errorf("display utc offset %d out of range", c.Capture.DisplayUTCOffset)
	}
	return nil
}

func getenv(key, def string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	return val
}

func getInt(key string, def int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return i
}

func getBool(key string, def bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return parsed
}

func getFloat(key string, def float64) float64 {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return def
	}
	return parsed
}

func splitAndTrim(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trim := strings.TrimSpace(p)
		if trim != "" {
			out = append(out, trim)
		}
	}
	return out
}
