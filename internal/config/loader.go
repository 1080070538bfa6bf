package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "contactd.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// The YAML file is optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "CONTACTD_PORT")
	setString(&cfg.Server.CORSOrigin, "CONTACTD_CORS_ORIGIN")
	setString(&cfg.Server.BaseURL, "CONTACTD_BASE_URL")

	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "CONTACTD_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "CONTACTD_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "CONTACTD_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "CONTACTD_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "CONTACTD_PG_HEALTH_CHECK")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")

	setString(&cfg.Cache.Backend, "CONTACTD_CACHE_BACKEND")
	setDuration(&cfg.Cache.DefaultTTL, "CONTACTD_CACHE_DEFAULT_TTL")
	setInt64(&cfg.Cache.MemoryMaxSizeMB, "CONTACTD_CACHE_MEMORY_SIZE_MB")

	setString(&cfg.Auth.JWTSecret, "CONTACTD_JWT_SECRET")
	setDuration(&cfg.Auth.AccessTokenExpiry, "CONTACTD_ACCESS_TOKEN_EXPIRY")
	setDuration(&cfg.Auth.EmailTokenExpiry, "CONTACTD_EMAIL_TOKEN_EXPIRY")
	setInt(&cfg.Auth.BcryptCost, "CONTACTD_BCRYPT_COST")

	setString(&cfg.Mail.Host, "CONTACTD_MAIL_HOST")
	setInt(&cfg.Mail.Port, "CONTACTD_MAIL_PORT")
	setString(&cfg.Mail.Username, "CONTACTD_MAIL_USERNAME")
	setString(&cfg.Mail.Password, "CONTACTD_MAIL_PASSWORD")
	setString(&cfg.Mail.From, "CONTACTD_MAIL_FROM")
	setString(&cfg.Mail.FromName, "CONTACTD_MAIL_FROM_NAME")
	setBool(&cfg.Mail.SSL, "CONTACTD_MAIL_SSL")

	setString(&cfg.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	setString(&cfg.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	setString(&cfg.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")

	setFloat64(&cfg.Rate.RequestsPerMinute, "CONTACTD_RATE_RPM")
	setInt(&cfg.Rate.Burst, "CONTACTD_RATE_BURST")

	setString(&cfg.Logging.Level, "CONTACTD_LOG_LEVEL")
	setString(&cfg.Logging.Service, "CONTACTD_LOG_SERVICE")
}

func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres dsn is required")
	}
	if len(cfg.Auth.JWTSecret) < 16 {
		return errors.New("jwt secret must be at least 16 characters")
	}
	switch cfg.Cache.Backend {
	case "redis":
	case "memory":
		if cfg.Cache.MemoryMaxSizeMB <= 0 {
			return errors.New("memory cache backend requires a positive memory_max_size_mb")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
	if cfg.Cache.DefaultTTL <= 0 {
		return errors.New("cache default ttl must be positive")
	}
	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return errors.New("bcrypt cost must be between 4 and 31")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
