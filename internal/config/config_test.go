package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	args = append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "/api", cfg.BasePath)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 20, cfg.LoginRateLimit)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000", "file://"}, cfg.AllowedOrigins())
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Zero(t, cfg.MetricsPort)
	assert.Empty(t, cfg.MetricsAddr())
}

func TestLoad_MetricsPort(t *testing.T) {
	t.Setenv("METRICS_PORT", "9100")
	cfg, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.MetricsAddr())

	cfg, err = Load(newFlags(t, "--metrics-port", "9200"))
	require.NoError(t, err)
	assert.Equal(t, ":9200", cfg.MetricsAddr())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BASE_PATH", "v1/")
	t.Setenv("DEMO_USER_EMAIL", "driver@example.com")
	t.Setenv("DEMO_USER_PASSWORD", "s3cret")
	t.Setenv("DEMO_USER_NAME", "Driver")
	t.Setenv("SHUTDOWN_TIMEOUT", "10s")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "/v1", cfg.BasePath)
	assert.Equal(t, "driver@example.com", cfg.DemoUserEmail)
	assert.Equal(t, "s3cret", cfg.DemoUserPassword)
	assert.Equal(t, "Driver", cfg.DemoUserName)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_FlagsBeatEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load(newFlags(t, "--port", "7070", "--base-path", "/"))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "", cfg.BasePath)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DEMO_USER_NAME=From File\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DEMO_USER_NAME") })

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--env-file", path}))

	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, "From File", cfg.DemoUserName)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "0")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load(newFlags(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port 0")
	assert.Contains(t, err.Error(), `invalid log format "xml"`)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		ServerPort:       8080,
		LogLevel:         "info",
		LogFormat:        "text",
		DemoUserEmail:    "demo@cartech.com",
		DemoUserPassword: "demo123",
		ShutdownTimeout:  time.Second,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port too large", func(c *Config) { c.ServerPort = 70000 }, "invalid server port"},
		{"unknown level", func(c *Config) { c.LogLevel = "loud" }, "invalid log level"},
		{"missing email", func(c *Config) { c.DemoUserEmail = " " }, "DEMO_USER_EMAIL is required"},
		{"missing password", func(c *Config) { c.DemoUserPassword = "" }, "DEMO_USER_PASSWORD is required"},
		{"negative metrics port", func(c *Config) { c.MetricsPort = -1 }, "invalid metrics port"},
		{"metrics port reuses server port", func(c *Config) { c.MetricsPort = 8080 }, "collides with the server port"},
		{"negative rate limit", func(c *Config) { c.LoginRateLimit = -1 }, "invalid login rate limit"},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }, "invalid shutdown timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_AllowedOriginsSkipsBlanks(t *testing.T) {
	cfg := Config{CorsAllowOrigins: " http://a.test , ,http://b.test,"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
}

func TestConfig_NewLogger(t *testing.T) {
	logger := Config{LogLevel: "debug", LogFormat: "json"}.NewLogger()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}
