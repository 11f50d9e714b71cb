package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/genevafi/healthcheck/backend/go-services/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	MongoDB    MongoDBConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Notify     NotifyConfig
	RateLimit  RateLimitConfig
	Submission SubmissionConfig
	Sweeper    SweeperConfig
	Admin      AdminConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig selects the persistence backend: memory, postgres or mongo.
type DatabaseConfig struct {
	Driver          string
	PostgresDSN     string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr is host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	PublicURL string
	URLExpiry time.Duration
}

// NotifyConfig selects how the loan officer is emailed: api, smtp or log.
type NotifyConfig struct {
	Mode      string
	APIURL    string
	APIKey    string
	Recipient string
	Timeout   time.Duration
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	SMTPFrom  string
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type SubmissionConfig struct {
	MaxDocumentBytes int64
	RecomputeTotal   bool
}

type SweeperConfig struct {
	Grace  time.Duration
	Cron   string
	Prefix string
	Lock   time.Duration
}

type AdminConfig struct {
	APIKey string
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5001")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("DATABASE_DRIVER", "memory")
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 20)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", 300)
	v.SetDefault("MONGODB_DATABASE", "healthcheck")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("MINIO_BUCKET", "healthcheck")
	v.SetDefault("STORAGE_URL_EXPIRY_HOURS", 168)
	v.SetDefault("NOTIFY_MODE", "log")
	v.SetDefault("NOTIFY_RECIPIENT", "clawson@genevafi.com")
	v.SetDefault("NOTIFY_TIMEOUT", 15)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 0.2)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("SUBMISSION_MAX_DOCUMENT_BYTES", 10*1024*1024)
	v.SetDefault("SUBMISSION_RECOMPUTE_TOTAL", true)
	v.SetDefault("SWEEPER_GRACE_MINUTES", 60)
	v.SetDefault("SWEEPER_CRON", "@hourly")
	v.SetDefault("SWEEPER_PREFIX", "submissions/")
	v.SetDefault("SWEEPER_LOCK_MINUTES", 30)

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("DATABASE_DRIVER")),
			PostgresDSN:     v.GetString("POSTGRES_DSN"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DATABASE_CONN_MAX_LIFETIME")) * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Storage: StorageConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			PublicURL: strings.TrimRight(v.GetString("STORAGE_PUBLIC_URL"), "/"),
			URLExpiry: time.Duration(v.GetInt("STORAGE_URL_EXPIRY_HOURS")) * time.Hour,
		},
		Notify: NotifyConfig{
			Mode:      strings.ToLower(v.GetString("NOTIFY_MODE")),
			APIURL:    strings.TrimRight(v.GetString("NOTIFY_API_URL"), "/"),
			APIKey:    v.GetString("NOTIFY_API_KEY"),
			Recipient: v.GetString("NOTIFY_RECIPIENT"),
			Timeout:   time.Duration(v.GetInt("NOTIFY_TIMEOUT")) * time.Second,
			SMTPHost:  v.GetString("SMTP_HOST"),
			SMTPPort:  v.GetInt("SMTP_PORT"),
			SMTPUser:  v.GetString("SMTP_USER"),
			SMTPPass:  v.GetString("SMTP_PASS"),
			SMTPFrom:  v.GetString("SMTP_FROM"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Submission: SubmissionConfig{
			MaxDocumentBytes: v.GetInt64("SUBMISSION_MAX_DOCUMENT_BYTES"),
			RecomputeTotal:   v.GetBool("SUBMISSION_RECOMPUTE_TOTAL"),
		},
		Sweeper: SweeperConfig{
			Grace:  time.Duration(v.GetInt("SWEEPER_GRACE_MINUTES")) * time.Minute,
			Cron:   v.GetString("SWEEPER_CRON"),
			Prefix: v.GetString("SWEEPER_PREFIX"),
			Lock:   time.Duration(v.GetInt("SWEEPER_LOCK_MINUTES")) * time.Minute,
		},
		Admin: AdminConfig{
			APIKey: v.GetString("ADMIN_API_KEY"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Admin.APIKey == "" {
		logger.Warn("ADMIN_API_KEY is not set; submission lookup endpoint disabled")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "memory":
	case "postgres":
		if c.Database.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when DATABASE_DRIVER=postgres")
		}
	case "mongo":
		if c.MongoDB.URI == "" {
			return fmt.Errorf("MONGODB_URI is required when DATABASE_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	switch c.Notify.Mode {
	case "log":
	case "api":
		if c.Notify.APIURL == "" {
			return fmt.Errorf("NOTIFY_API_URL is required when NOTIFY_MODE=api")
		}
	case "smtp":
		if c.Notify.SMTPHost == "" || c.Notify.SMTPFrom == "" {
			return fmt.Errorf("SMTP_HOST and SMTP_FROM are required when NOTIFY_MODE=smtp")
		}
	default:
		return fmt.Errorf("unsupported NOTIFY_MODE %q", c.Notify.Mode)
	}
	if c.Notify.Recipient == "" {
		return fmt.Errorf("NOTIFY_RECIPIENT must not be empty")
	}
	if c.Submission.MaxDocumentBytes <= 0 {
		return fmt.Errorf("SUBMISSION_MAX_DOCUMENT_BYTES must be positive")
	}
	// presigned URLs are capped at seven days by S3
	if c.Storage.URLExpiry <= 0 || c.Storage.URLExpiry > 7*24*time.Hour {
		c.Storage.URLExpiry = 7 * 24 * time.Hour
	}
	return nil
}

// RequireSharedDatabase fails for the in-memory driver. Processes that read
// what the API persisted, like the orphan sweeper, need the real store.
func (c *Config) RequireSharedDatabase() error {
	if c.Database.Driver == "memory" {
		return fmt.Errorf("DATABASE_DRIVER=memory is not shared with the API; set postgres or mongo")
	}
	return nil
}
