package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Session store drivers.
const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Upstream  UpstreamConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Session   SessionConfig
	Reports   ReportsConfig
	Uploads   UploadsConfig
	Audit     AuditConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// UpstreamConfig points the gateway at the training backend.
type UpstreamConfig struct {
	BaseURL       string
	FileBaseURL   string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SessionConfig controls where portal sessions live and how they refresh.
type SessionConfig struct {
	Store          string
	TTL            time.Duration
	RehydrateDelay time.Duration
	Workers        int
}

// ReportsConfig configures generated PDF storage and signed downloads.
type ReportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CleanupInterval time.Duration
}

// UploadsConfig bounds multipart uploads relayed to the backend.
type UploadsConfig struct {
	MaxFileSizeBytes int64
	AllowedCVMIMEs   []string
}

// AuditConfig toggles audit persistence in PostgreSQL.
type AuditConfig struct {
	Enabled bool
}

// CacheConfig governs caching of student-facing post listings.
type CacheConfig struct {
	Enabled  bool
	PostsTTL time.Duration
}

// RateLimitConfig throttles credential endpoints per client IP.
type RateLimitConfig struct {
	AuthPerSecond float64
	AuthBurst     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	baseURL := strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/")
	fileURL := strings.TrimRight(v.GetString("UPSTREAM_FILES_URL"), "/")
	if fileURL == "" {
		fileURL = strings.TrimSuffix(baseURL, "/api")
	}
	cfg.Upstream = UpstreamConfig{
		BaseURL:       baseURL,
		FileBaseURL:   fileURL,
		Timeout:       parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 30*time.Second),
		RatePerSecond: v.GetFloat64("UPSTREAM_RATE_LIMIT"),
		Burst:         v.GetInt("UPSTREAM_BURST"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Session = SessionConfig{
		Store:          strings.ToLower(v.GetString("SESSION_STORE")),
		TTL:            parseDuration(v.GetString("SESSION_TTL"), 24*time.Hour),
		RehydrateDelay: parseDuration(v.GetString("SESSION_REHYDRATE_DELAY"), 300*time.Millisecond),
		Workers:        v.GetInt("SESSION_WORKERS"),
	}

	cfg.Reports = ReportsConfig{
		StorageDir:      v.GetString("REPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("REPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("REPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval: parseDuration(v.GetString("REPORTS_CLEANUP_INTERVAL"), time.Hour),
	}

	maxUpload := v.GetInt64("MAX_UPLOAD_SIZE")
	if maxUpload <= 0 {
		maxUpload = 10 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		MaxFileSizeBytes: maxUpload,
		AllowedCVMIMEs:   splitAndTrim(v.GetString("CV_ALLOWED_MIME_TYPES")),
	}

	cfg.Audit = AuditConfig{Enabled: v.GetBool("ENABLE_AUDIT")}

	cfg.Cache = CacheConfig{
		Enabled:  v.GetBool("ENABLE_POSTS_CACHE"),
		PostsTTL: parseDuration(v.GetString("POSTS_CACHE_TTL"), time.Minute),
	}

	cfg.RateLimit = RateLimitConfig{
		AuthPerSecond: v.GetFloat64("AUTH_RATE_LIMIT"),
		AuthBurst:     v.GetInt("AUTH_RATE_BURST"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("UPSTREAM_BASE_URL", "https://railway-system-production-1a43.up.railway.app/api")
	v.SetDefault("UPSTREAM_FILES_URL", "")
	v.SetDefault("UPSTREAM_TIMEOUT", "30s")
	v.SetDefault("UPSTREAM_RATE_LIMIT", 20)
	v.SetDefault("UPSTREAM_BURST", 40)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hu_tech_train")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "hu-tech-train")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SESSION_STORE", SessionStoreMemory)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_REHYDRATE_DELAY", "300ms")
	v.SetDefault("SESSION_WORKERS", 2)

	v.SetDefault("REPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("REPORTS_SIGNED_URL_SECRET", "dev_reports_secret")
	v.SetDefault("REPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("REPORTS_CLEANUP_INTERVAL", "1h")

	v.SetDefault("MAX_UPLOAD_SIZE", 10*1024*1024)
	v.SetDefault("CV_ALLOWED_MIME_TYPES", "application/pdf,application/msword,application/vnd.openxmlformats-officedocument.wordprocessingml.document")

	v.SetDefault("ENABLE_AUDIT", false)
	v.SetDefault("ENABLE_POSTS_CACHE", false)
	v.SetDefault("POSTS_CACHE_TTL", "1m")

	v.SetDefault("AUTH_RATE_LIMIT", 1)
	v.SetDefault("AUTH_RATE_BURST", 10)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
