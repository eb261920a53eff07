package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the process configuration resolved from flags, environment
// and an optional .env file, in that order of precedence.
type Config struct {
	Environment      string        `mapstructure:"ENVIRONMENT"`
	ServerPort       int           `mapstructure:"SERVER_PORT"`
	MetricsPort      int           `mapstructure:"METRICS_PORT"` // 0 serves /metrics on ServerPort
	BasePath         string        `mapstructure:"BASE_PATH"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	LogFormat        string        `mapstructure:"LOG_FORMAT"`
	CorsAllowOrigins string        `mapstructure:"CORS_ALLOW_ORIGINS"`
	DemoUserEmail    string        `mapstructure:"DEMO_USER_EMAIL"`
	DemoUserPassword string        `mapstructure:"DEMO_USER_PASSWORD"`
	DemoUserName     string        `mapstructure:"DEMO_USER_NAME"`
	ShutdownTimeout  time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	LoginRateLimit   int           `mapstructure:"LOGIN_RATE_LIMIT"` // per client per minute, 0 disables
}

var defaults = map[string]any{
	"ENVIRONMENT":        "development",
	"SERVER_PORT":        8080,
	"METRICS_PORT":       0,
	"BASE_PATH":          "/api",
	"LOG_LEVEL":          "info",
	"LOG_FORMAT":         "text",
	"CORS_ALLOW_ORIGINS": "http://localhost:3000,http://127.0.0.1:3000,file://",
	"DEMO_USER_EMAIL":    "demo@cartech.com",
	"DEMO_USER_PASSWORD": "demo123",
	"DEMO_USER_NAME":     "Demo User",
	"SHUTDOWN_TIMEOUT":   5 * time.Second,
	"LOGIN_RATE_LIMIT":   20,
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"port":         "SERVER_PORT",
	"metrics-port": "METRICS_PORT",
	"base-path":    "BASE_PATH",
	"log-level":    "LOG_LEVEL",
	"env-file":     "",
}

// AddFlags registers the server flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.Int("port", defaults["SERVER_PORT"].(int), "Port the HTTP server listens on.")
	fs.Int("metrics-port", defaults["METRICS_PORT"].(int), "Separate port for /metrics; 0 serves it on the API port.")
	fs.String("base-path", defaults["BASE_PATH"].(string), "Path prefix for the API routes.")
	fs.String("log-level", defaults["LOG_LEVEL"].(string), "Log level (trace, debug, info, warn, error).")
	fs.String("env-file", ".env", "Optional dotenv file loaded before reading the environment.")
}

// Load resolves the configuration. fs may be nil; only flags the user set
// explicitly override the environment.
func Load(fs *pflag.FlagSet) (Config, error) {
	envFile := ".env"
	if fs != nil {
		if f := fs.Lookup("env-file"); f != nil {
			envFile = f.Value.String()
		}
	}
	if err := godotenv.Load(envFile); err != nil {
		logrus.WithField("file", envFile).Debug("No .env file loaded")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if key == "" || f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not unmarshal config: %w", err)
	}
	cfg.BasePath = normalizeBasePath(cfg.BasePath)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.ServerPort))
	}
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid metrics port %d", c.MetricsPort))
	} else if c.MetricsPort != 0 && c.MetricsPort == c.ServerPort {
		errs = append(errs, fmt.Errorf("metrics port %d collides with the server port", c.MetricsPort))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log format %q, expected text or json", c.LogFormat))
	}
	if strings.TrimSpace(c.DemoUserEmail) == "" {
		errs = append(errs, errors.New("DEMO_USER_EMAIL is required"))
	}
	if c.DemoUserPassword == "" {
		errs = append(errs, errors.New("DEMO_USER_PASSWORD is required"))
	}
	if c.LoginRateLimit < 0 {
		errs = append(errs, fmt.Errorf("invalid login rate limit %d", c.LoginRateLimit))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid shutdown timeout %s", c.ShutdownTimeout))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

// MetricsAddr is the listen address of the separate metrics server, or ""
// when metrics share the API server.
func (c Config) MetricsAddr() string {
	if c.MetricsPort == 0 {
		return ""
	}
	return fmt.Sprintf(":%d", c.MetricsPort)
}

// AllowedOrigins splits CorsAllowOrigins into its non-empty entries.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CorsAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// NewLogger builds the process logger from the log settings.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.TrimRight(p, "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
