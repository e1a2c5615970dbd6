package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default configuration file location.
const ConfigPath = "config.yaml"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// FileConfig represents configuration loaded from YAML, overridable per
// field through environment variables.
type FileConfig struct {
	Port          string `yaml:"port"`
	LogLevel      string `yaml:"logLevel"`
	Environment   string `yaml:"environment"`
	JWTSecret     string `yaml:"jwtSecret"`
	SessionTTL    string `yaml:"sessionTTL"`
	BcryptCost    int    `yaml:"bcryptCost"`
	CookieName    string `yaml:"cookieName"`
	AllowedOrigin string `yaml:"allowedOrigin"`
	CatalogPath   string `yaml:"catalogPath"`
	FeaturedCount int    `yaml:"featuredCount"`
	DatabaseURL   string `yaml:"databaseURL"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
}

// Load reads config from path (defaults to config.yaml), applies env
// overrides and validates. A missing default file is tolerated so the
// service can run from environment variables alone.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	explicit := path != ""
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err) && !explicit:
		// env-only startup
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = strings.TrimSpace(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Environment = strings.TrimSpace(v)
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		cfg.SessionTTL = strings.TrimSpace(v)
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.BcryptCost = n
		}
	}
	if v := os.Getenv("COOKIE_NAME"); v != "" {
		cfg.CookieName = strings.TrimSpace(v)
	}
	if v := os.Getenv("ALLOWED_ORIGIN"); v != "" {
		cfg.AllowedOrigin = strings.TrimSpace(v)
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.CatalogPath = strings.TrimSpace(v)
	}
	if v := os.Getenv("FEATURED_COUNT"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.FeaturedCount = n
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = strings.TrimSpace(v)
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}

	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyDefaults(cfg *FileConfig) {
	if cfg.Port == "" {
		cfg.Port = "5000"
	}
	if cfg.Environment == "" {
		cfg.Environment = EnvDevelopment
	}
	if cfg.SessionTTL == "" {
		cfg.SessionTTL = "24h"
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "token"
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "http://localhost:3000"
	}
	if cfg.FeaturedCount == 0 {
		cfg.FeaturedCount = 4
	}
}

func validateConfig(cfg FileConfig) error {
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return errors.New("config: jwtSecret is required (set in config.yaml or JWT_SECRET); refusing to start with an unsigned session secret")
	}
	if cfg.Environment != EnvDevelopment && cfg.Environment != EnvProduction {
		return fmt.Errorf("config: environment must be %q or %q", EnvDevelopment, EnvProduction)
	}
	if cfg.BcryptCost != 0 && (cfg.BcryptCost < 4 || cfg.BcryptCost > 31) {
		return errors.New("config: bcryptCost must be within [4, 31]")
	}
	if cfg.FeaturedCount < 0 {
		return errors.New("config: featuredCount must be >= 0")
	}
	if _, err := ParseSessionTTL(cfg.SessionTTL); err != nil {
		return err
	}
	return nil
}

// ParseSessionTTL parses the session lifetime duration string.
func ParseSessionTTL(ttl string) (time.Duration, error) {
	if ttl == "" {
		return 24 * time.Hour, nil
	}
	dur, err := time.ParseDuration(ttl)
	if err != nil {
		return 0, fmt.Errorf("invalid sessionTTL duration: %w", err)
	}
	if dur <= 0 {
		return 0, errors.New("config: sessionTTL must be positive")
	}
	return dur, nil
}

// CookieSecure reports whether session cookies must be restricted to
// encrypted transport. Only development deployments may use plain HTTP.
func (c FileConfig) CookieSecure() bool {
	return c.Environment != EnvDevelopment
}
