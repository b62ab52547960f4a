package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Models   ModelConfig
	Redis    RedisConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

// DatabaseConfig selects the score-store backend. Driver is either
// "postgres" or "sqlite"; the sqlite driver only needs SQLitePath.
type DatabaseConfig struct {
	Driver string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	SQLitePath string

	ConnectTimeout time.Duration
	PoolMaxConns   int32
	PoolMinConns   int32
}

type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string

	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration

	OperatorEmail        string
	OperatorPasswordHash string
}

// RedisConfig points at the optional cache. TTL is the default expiry for
// cached recommendations; REDIS_TTL is read as whole seconds.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

// ModelConfig locates the serving model bundle and the raw datasets.
type ModelConfig struct {
	Dir            string
	TrainingCSV    string
	ScoresCSV      string
	RetrainTimeout time.Duration
	CacheTTL       time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, fallback string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "fintrust"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		Driver:         strings.ToLower(opt("DB_DRIVER", "sqlite")),
		DBHost:         opt("DB_HOST", ""),
		DBPort:         opt("DB_PORT", "5432"),
		DBName:         opt("DB_NAME", ""),
		DBUser:         opt("DB_USER", ""),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBSSLMode:      opt("DB_SSL_MODE", "disable"),
		SQLitePath:     opt("SQLITE_PATH", "fintrust.db"),
		ConnectTimeout: optDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		PoolMaxConns:   int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:   int32(optInt("DB_POOL_MIN_CONNS", 0)),
	}

	cfg.Auth = AuthConfig{
		AccessSecret:         req("JWT_ACCESS_SECRET"),
		RefreshSecret:        req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:      optDuration("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn:     optDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
		OperatorEmail:        opt("OPERATOR_EMAIL", ""),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		TTL:      optSeconds("REDIS_TTL", 600*time.Second),
	}

	cfg.Models = ModelConfig{
		Dir:            opt("MODEL_DIR", "models"),
		TrainingCSV:    opt("TRAINING_CSV", "merged_training_dataset.csv"),
		ScoresCSV:      opt("SCORES_CSV", "cibil_database.csv"),
		RetrainTimeout: optDuration("RETRAIN_TIMEOUT", 5*time.Minute),
		CacheTTL:       optDuration("RECOMMENDATION_CACHE_TTL", 10*time.Minute),
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.DBHost == "" {
			missing = append(missing, "DB_HOST")
		}
		if cfg.Database.DBName == "" {
			missing = append(missing, "DB_NAME")
		}
		if cfg.Database.DBUser == "" {
			missing = append(missing, "DB_USER")
		}
	case "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q (want postgres or sqlite)", cfg.Database.Driver)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func optDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func optSeconds(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return time.Duration(v) * time.Second
}

func optInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
