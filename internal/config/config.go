package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"foodgram/internal/pkg/storage"
)

const (
	defaultHTTPAddr         = ":8080"
	defaultDatabaseURL      = "file:foodgram.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultJWTTTL           = "24h"
	defaultRateLimitRecipes = "30"
	defaultRateLimitWindow  = "1h"
	defaultMediaDir         = "media"
	defaultMediaURL         = "/media"
	defaultS3Region         = "us-east-1"
	defaultPageSize         = "6"
	defaultShoppingListFile = "shopping_list.txt"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string
	AutoMigrate bool

	JWTSecret string
	JWTTTL    time.Duration

	// RedisURL is optional; without it rate limiting and token revocation
	// are disabled.
	RedisURL         string
	RateLimitRecipes int
	RateLimitWindow  time.Duration

	MediaDir string
	MediaURL string
	S3       storage.S3Config

	CORSAllowedOrigins   []string
	PageSize             int
	ShoppingListFilename string
}

// UseS3 reports whether recipe images go to S3 instead of MEDIA_DIR.
func (c *Config) UseS3() bool { return c.S3.Bucket != "" }

func (c *Config) IsProd() bool { return isProdLike(c.AppEnv) }

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.MediaDir = strings.TrimSpace(getEnv("MEDIA_DIR", defaultMediaDir))
	cfg.MediaURL = strings.TrimRight(strings.TrimSpace(getEnv("MEDIA_URL", defaultMediaURL)), "/")
	cfg.ShoppingListFilename = strings.TrimSpace(getEnv("SHOPPING_LIST_FILENAME", defaultShoppingListFile))
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	cfg.S3 = storage.S3Config{
		Bucket:    strings.TrimSpace(os.Getenv("S3_BUCKET")),
		Region:    strings.TrimSpace(getEnv("S3_REGION", defaultS3Region)),
		Endpoint:  strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		AccessKey: strings.TrimSpace(os.Getenv("S3_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("S3_SECRET_KEY")),
		PublicURL: strings.TrimSpace(os.Getenv("S3_PUBLIC_URL")),
	}

	var err error
	if cfg.AutoMigrate, err = parseBoolEnv("DB_AUTO_MIGRATE", true); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = parseDurationEnv("RATE_LIMIT_WINDOW", defaultRateLimitWindow); err != nil {
		return nil, err
	}
	if cfg.RateLimitRecipes, err = parseIntEnv("RATE_LIMIT_RECIPES", defaultRateLimitRecipes); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = parseIntEnv("PAGE_SIZE", defaultPageSize); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s addr=%s redis=%t s3=%t page_size=%d",
		cfg.AppEnv, cfg.HTTPAddr, cfg.RedisURL != "", cfg.UseS3(), cfg.PageSize)

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be > 0")
	}
	if cfg.RateLimitRecipes < 0 {
		return fmt.Errorf("RATE_LIMIT_RECIPES must be >= 0")
	}
	if cfg.PageSize < 1 || cfg.PageSize > 100 {
		return fmt.Errorf("PAGE_SIZE must be between 1 and 100")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.ShoppingListFilename == "" || strings.ContainsAny(cfg.ShoppingListFilename, "/\\\"") {
		return fmt.Errorf("SHOPPING_LIST_FILENAME must be a plain file name")
	}
	if !cfg.UseS3() && cfg.MediaDir == "" {
		return fmt.Errorf("MEDIA_DIR must be set when S3_BUCKET is empty")
	}
	if (cfg.S3.AccessKey == "") != (cfg.S3.SecretKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !strings.HasPrefix(cfg.DatabaseURL, "postgres://") && !strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
			return fmt.Errorf("in prod/release DATABASE_URL must point to PostgreSQL")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return b, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
