package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Log         LogConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Mongo       MongoConfig
	Session     SessionConfig
	CORS        CORSConfig
	Catalog     CatalogConfig
	Persistence PersistenceConfig
	Admin       AdminConfig
	S3          S3Config
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxIdleConns int
	MaxOpenConns int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type SessionConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// CatalogConfig selects where the read-only product/category/brand fixtures come from.
type CatalogConfig struct {
	Source         string // file, s3
	Dir            string
	S3Prefix       string
	ReloadSchedule string // cron spec, empty disables reloading
}

type PersistenceConfig struct {
	Backend       string // memory, postgres, redis, mongo
	WriteThrough  bool
	FlushSchedule string
	SessionIdle   time.Duration
	RedisTTL      time.Duration

	// rows older than this are purged by the postgres backend; 0 keeps them
	StateRetention time.Duration
}

type AdminConfig struct {
	APIKeyHash string // bcrypt hash of the admin API key
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: parseBool(getEnv("LOG_PRETTY", "false")),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "meshur"),
			Password:     getEnv("DB_PASSWORD", "meshur"),
			DBName:       getEnv("DB_NAME", "meshur"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxIdleConns: parseInt(getEnv("DB_MAX_IDLE_CONNS", "10"), 10),
			MaxOpenConns: parseInt(getEnv("DB_MAX_OPEN_CONNS", "100"), 100),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:   getEnv("MONGO_DB", "meshur"),
			Collection: getEnv("MONGO_COLLECTION", "stored_states"),
		},
		Session: SessionConfig{
			Secret:   getEnv("SESSION_SECRET", "change-me"),
			TokenTTL: parseDuration(getEnv("SESSION_TOKEN_TTL", "720h"), 30*24*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Catalog: CatalogConfig{
			Source:         getEnv("CATALOG_SOURCE", "file"),
			Dir:            getEnv("CATALOG_DIR", "./data"),
			S3Prefix:       getEnv("CATALOG_S3_PREFIX", "catalog/"),
			ReloadSchedule: getEnv("CATALOG_RELOAD_SCHEDULE", ""),
		},
		Persistence: PersistenceConfig{
			Backend:        getEnv("PERSIST_BACKEND", "memory"),
			WriteThrough:   parseBool(getEnv("PERSIST_WRITE_THROUGH", "false")),
			FlushSchedule:  getEnv("PERSIST_FLUSH_SCHEDULE", "@every 2s"),
			SessionIdle:    parseDuration(getEnv("PERSIST_SESSION_IDLE", "30m"), 30*time.Minute),
			RedisTTL:       parseDuration(getEnv("PERSIST_REDIS_TTL", "0s"), 0),
			StateRetention: parseDuration(getEnv("PERSIST_STATE_RETENTION", "720h"), 30*24*time.Hour),
		},
		Admin: AdminConfig{
			APIKeyHash: getEnv("ADMIN_API_KEY_HASH", ""),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "meshur-catalog"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.Persistence.Backend {
	case "memory", "postgres", "redis", "mongo":
	default:
		return fmt.Errorf("unknown PERSIST_BACKEND %q", c.Persistence.Backend)
	}
	switch c.Catalog.Source {
	case "file", "s3":
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.Catalog.Source)
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
