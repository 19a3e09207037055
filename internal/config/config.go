package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var defaultOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://localhost:8080",
	"http://127.0.0.1:8080",
}

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Media    MediaConfig
	Events   EventsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	BodyLimitBytes        int
	AllowedOrigins        []string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr                 string
	Password             string
	DB                   int
	DirectoryTTLSeconds  int
	DirectoryCachePrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret            string
	AccessTokenTTLHours  int
	BcryptCost           int
	AdminKey             string
	AdminEmail           string
	AdminPassword        string
	DefaultAdminEmail    string
	DefaultAdminPassword string
}

// MediaConfig points at the external media host used for uploads.
type MediaConfig struct {
	CloudName            string
	APIKey               string
	APISecret            string
	Folder               string
	UploadTimeoutSeconds int
	MaxUploadBytes       int
}

// EventsConfig controls where workflow events are forwarded.
type EventsConfig struct {
	AMQPURL    string
	Exchange   string
	WebhookURL string
	// QueueSize bounds the events waiting for delivery; further events are dropped.
	QueueSize  int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	origins := getEnvAsList("CLIENT_URLS", nil)
	if len(origins) == 0 {
		origins = getEnvAsList("CLIENT_URL", nil)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "farmstore-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("PORT", getEnv("APP_PORT", "5000")),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			BodyLimitBytes:        getEnvAsInt("HTTP_BODY_LIMIT_BYTES", 12*1024*1024),
			AllowedOrigins:        mergeOrigins(origins, defaultOrigins),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:                 getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:             os.Getenv("REDIS_PASSWORD"),
			DB:                   redisDB,
			DirectoryTTLSeconds:  getEnvAsInt("REDIS_STAFF_DIRECTORY_TTL_SECONDS", 60),
			DirectoryCachePrefix: getEnv("REDIS_KEY_PREFIX", "farmstore"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:            os.Getenv("JWT_SECRET"),
			AccessTokenTTLHours:  getEnvAsInt("AUTH_TOKEN_TTL_HOURS", 7*24),
			BcryptCost:           getEnvAsInt("AUTH_BCRYPT_COST", 10),
			AdminKey:             os.Getenv("ADMIN_KEY"),
			AdminEmail:           strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
			AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
			DefaultAdminEmail:    getEnv("DEFAULT_ADMIN_EMAIL", "admin@annadata.com"),
			DefaultAdminPassword: os.Getenv("DEFAULT_ADMIN_PASSWORD"),
		},
		Media: MediaConfig{
			CloudName:            os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:               os.Getenv("CLOUDINARY_API_KEY"),
			APISecret:            os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:               getEnv("CLOUDINARY_FOLDER", "site-media"),
			UploadTimeoutSeconds: getEnvAsInt("CLOUDINARY_TIMEOUT_SECONDS", 60),
			MaxUploadBytes:       getEnvAsInt("MEDIA_MAX_UPLOAD_BYTES", 10*1024*1024),
		},
		Events: EventsConfig{
			AMQPURL:    os.Getenv("EVENTS_AMQP_URL"),
			Exchange:   getEnv("EVENTS_EXCHANGE", "farmstore.events"),
			WebhookURL: os.Getenv("EVENTS_WEBHOOK_URL"),
			QueueSize:  getEnvAsInt("EVENTS_QUEUE_SIZE", 256),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
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

// TokenTTL returns how long issued access tokens stay valid.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.AccessTokenTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(a.AccessTokenTTLHours) * time.Hour
}

// DirectoryTTL returns how long the cached staff directory is served.
func (r RedisConfig) DirectoryTTL() time.Duration {
	if r.DirectoryTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(r.DirectoryTTLSeconds) * time.Second
}

// UploadTimeout bounds a single relay to the media host.
func (m MediaConfig) UploadTimeout() time.Duration {
	if m.UploadTimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(m.UploadTimeoutSeconds) * time.Second
}

func mergeOrigins(primary, fallback []string) []string {
	seen := make(map[string]struct{}, len(primary)+len(fallback))
	out := make([]string, 0, len(primary)+len(fallback))
	for _, list := range [][]string{primary, fallback} {
		for _, origin := range list {
			if _, ok := seen[origin]; ok {
				continue
			}
			seen[origin] = struct{}{}
			out = append(out, origin)
		}
	}
	return out
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

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
