package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath       = "config.yaml"
	DefaultSecretPath = "config.secret.yaml"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port           string `yaml:"port"`
	UploadPath     string `yaml:"upload_path"`
	ProblemBaseURL string `yaml:"problem_base_url"`
	BodyLimitMB    int    `yaml:"body_limit_mb"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type RateLimitConfig struct {
	Max        int           `yaml:"max"`
	Expiration time.Duration `yaml:"expiration"`
	RedisAddr  string        `yaml:"redis_addr"`
}

// Paths points at the main and secret config files.
type Paths struct {
	Main   string
	Secret string
}

func DefaultPaths() Paths {
	return Paths{Main: DefaultPath, Secret: DefaultSecretPath}
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        ":8000",
			UploadPath:  "uploads",
			BodyLimitMB: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			DBName:          "fithub",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: 5 * time.Minute,
			QueryTimeout:    5 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		RateLimit: RateLimitConfig{
			Max:        120,
			Expiration: time.Minute,
		},
	}
}

// Load builds the configuration in layers: built-in defaults, config.yaml,
// config.secret.yaml (password and signing key), then .env and environment
// variables. Missing files are skipped; malformed files are an error.
func Load(p Paths) (*Config, error) {
	cfg := defaults()

	if err := mergeFile(p.Main, cfg); err != nil {
		return nil, err
	}

	var secret struct {
		Database struct {
			Password string `yaml:"password"`
		} `yaml:"database"`
		Auth struct {
			JWTSecret string `yaml:"jwt_secret"`
		} `yaml:"auth"`
	}
	if err := mergeFile(p.Secret, &secret); err != nil {
		return nil, err
	}
	if secret.Database.Password != "" {
		cfg.Database.Password = secret.Database.Password
	}
	if secret.Auth.JWTSecret != "" {
		cfg.Auth.JWTSecret = secret.Auth.JWTSecret
	}

	_ = godotenv.Load()
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeFile(path string, out any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Server.UploadPath, "UPLOAD_PATH")
	setString(&cfg.Database.Host, "DATABASE_HOST")
	setString(&cfg.Database.Port, "DATABASE_PORT")
	setString(&cfg.Database.User, "DATABASE_USER")
	setString(&cfg.Database.Password, "DATABASE_PASSWORD")
	setString(&cfg.Database.DBName, "DATABASE_NAME")
	setString(&cfg.Database.SSLMode, "DATABASE_SSLMODE")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.RateLimit.RedisAddr, "REDIS_ADDR")
	if v := os.Getenv("RATE_LIMIT_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.Max = n
		}
	}
	if cfg.Server.Port != "" && !strings.Contains(cfg.Server.Port, ":") {
		cfg.Server.Port = ":" + cfg.Server.Port
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.dbname is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required (config.secret.yaml or JWT_SECRET)")
	}
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("database.query_timeout must be positive")
	}
	return nil
}

// DSN returns the lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
