// Package config loads the application settings from flags, environment and config files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/naka-gawa/github-wrapped/internal/domain"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GITHUB_WRAPPED"

// Config holds all configuration settings.
type Config struct {
	Token             string       `mapstructure:"token"`
	User              string       `mapstructure:"user"`
	Timezone          string       `mapstructure:"timezone"`
	MaxRepos          int          `mapstructure:"max_repos"`
	CommitConcurrency int          `mapstructure:"commit_concurrency"`
	DetailConcurrency int          `mapstructure:"detail_concurrency"`
	RequestsPerSecond float64      `mapstructure:"requests_per_second"`
	LogFormat         string       `mapstructure:"log_format"`
	Server            ServerConfig `mapstructure:"server"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Timezone:          "Local",
		MaxRepos:          50,
		CommitConcurrency: 5,
		DetailConcurrency: 10,
		RequestsPerSecond: 10,
		LogFormat:         "text",
		Server:            ServerConfig{Addr: ":8080"},
	}
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"token":               "token",
	"user":                "user",
	"timezone":            "timezone",
	"max-repos":           "max_repos",
	"commit-concurrency":  "commit_concurrency",
	"detail-concurrency":  "detail_concurrency",
	"requests-per-second": "requests_per_second",
	"log-format":          "log_format",
	"addr":                "server.addr",
}

// Load reads the configuration. path is an explicit config file, empty to search
// the standard locations. Flags that were set on the command line take precedence
// over the environment, which takes precedence over the config file.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	loadEnvFiles()

	v := viper.New()

	cfg := Default()
	v.SetDefault("token", cfg.Token)
	v.SetDefault("user", cfg.User)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("max_repos", cfg.MaxRepos)
	v.SetDefault("commit_concurrency", cfg.CommitConcurrency)
	v.SetDefault("detail_concurrency", cfg.DetailConcurrency)
	v.SetDefault("requests_per_second", cfg.RequestsPerSecond)
	v.SetDefault("log_format", cfg.LogFormat)
	v.SetDefault("server.addr", cfg.Server.Addr)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("token", EnvPrefix+"_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind token env: %w", err)
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("github-wrapped")
		v.AddConfigPath(".")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", "github-wrapped"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.MaxRepos <= 0:
		return fmt.Errorf("%w: max_repos must be positive, got %d", domain.ErrInvalidArgument, c.MaxRepos)
	case c.CommitConcurrency <= 0:
		return fmt.Errorf("%w: commit_concurrency must be positive, got %d", domain.ErrInvalidArgument, c.CommitConcurrency)
	case c.DetailConcurrency <= 0:
		return fmt.Errorf("%w: detail_concurrency must be positive, got %d", domain.ErrInvalidArgument, c.DetailConcurrency)
	case c.RequestsPerSecond <= 0:
		return fmt.Errorf("%w: requests_per_second must be positive, got %g", domain.ErrInvalidArgument, c.RequestsPerSecond)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", domain.ErrInvalidArgument, c.LogFormat)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the time zone statistics are computed in.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", domain.ErrInvalidArgument, c.Timezone)
	}
	return loc, nil
}

// loadEnvFiles loads .env files in order of precedence. Variables already set are kept.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}
