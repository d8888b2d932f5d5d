package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the gateway.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Drive    DriveConfig
	Search   SearchConfig
	CORS     CORSConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	PublicBaseURL         string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig locates key material for the two trust domains and sets
// token lifetimes. Session keys sign end-user tokens; the service key
// (or a pre-issued token) identifies this gateway toward the drive.
type AuthConfig struct {
	SessionPrivateKeyPath string
	SessionPublicKeyPath  string
	SessionTokenTTLDays   int
	ServiceTokenTTLDays   int
	BcryptCost            int
}

// DriveConfig describes the upstream storage service.
type DriveConfig struct {
	BaseURL               string
	ServiceToken          string
	ServicePrivateKeyPath string
	RequestTimeoutSeconds int
}

// SearchConfig configures the third-party video search proxy.
type SearchConfig struct {
	YouTubeAPIBaseURL string
	YouTubeAPIKey     string
	CacheTTLMinutes   int
}

// CORSConfig controls browser access to the API, including the range
// headers the video element needs to see for seeking.
type CORSConfig struct {
	AllowOrigins string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "playback-gateway"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "7001"),
			Version:               getEnv("APP_VERSION", "dev"),
			PublicBaseURL:         getEnv("APP_PUBLIC_BASE_URL", "http://localhost:7001"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			SessionPrivateKeyPath: getEnv("SESSION_PRIVATE_KEY_PATH", "keys/session_private.pem"),
			SessionPublicKeyPath:  getEnv("SESSION_PUBLIC_KEY_PATH", "keys/session_public.pem"),
			SessionTokenTTLDays:   getEnvAsInt("SESSION_TOKEN_TTL_DAYS", 7),
			ServiceTokenTTLDays:   getEnvAsInt("SERVICE_TOKEN_TTL_DAYS", 365),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Drive: DriveConfig{
			BaseURL:               strings.TrimRight(getEnv("DRIVE_BASE_URL", "http://localhost:3001"), "/"),
			ServiceToken:          os.Getenv("DRIVE_SERVICE_TOKEN"),
			ServicePrivateKeyPath: getEnv("SERVICE_PRIVATE_KEY_PATH", ""),
			RequestTimeoutSeconds: getEnvAsInt("DRIVE_REQUEST_TIMEOUT_SECONDS", 15),
		},
		Search: SearchConfig{
			YouTubeAPIBaseURL: getEnv("YOUTUBE_API_BASE_URL", "https://www.googleapis.com/youtube/v3"),
			YouTubeAPIKey:     os.Getenv("YOUTUBE_API_KEY"),
			CacheTTLMinutes:   getEnvAsInt("SEARCH_CACHE_TTL_MINUTES", 15),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "http://localhost:8001,http://localhost:5173"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// RequestTimeout returns the upstream request timeout for non-streaming calls.
func (d DriveConfig) RequestTimeout() time.Duration {
	if d.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(d.RequestTimeoutSeconds) * time.Second
}

// CacheTTL returns the search cache entry lifetime.
func (s SearchConfig) CacheTTL() time.Duration {
	if s.CacheTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.CacheTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
