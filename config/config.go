package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type Config struct {
	// Server Settings
	AppEnv   string
	HOST     string
	AppPort  string
	LogLevel string

	DB DBConfig

	// JWT Settings
	JWTSecret     string
	JWTExpiration time.Duration

	// CORS Settings
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string

	Storage StorageConfig
}

type DBConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifeTime int // minutes
}

// StorageConfig selects where car images end up. Driver is "local" or "s3".
type StorageConfig struct {
	Driver        string
	UploadDir     string
	PublicBaseURL string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	S3Bucket           string
	CDNDomain          string
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	expiration, err := time.ParseDuration(getEnv("JWT_EXPIRES_IN", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", EnvDevelopment),
		HOST:     getEnv("HOST", "0.0.0.0"),
		AppPort:  getEnv("PORT", "5000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DB: DBConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "autix"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "autix"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifeTime: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 30),
		},

		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiration: expiration,

		CORSAllowOrigins: splitList(getEnv("CLIENT_URL", "http://localhost:3000")),
		CORSAllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},

		Storage: StorageConfig{
			Driver:             getEnv("STORAGE_DRIVER", "local"),
			UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
			PublicBaseURL:      getEnv("PUBLIC_BASE_URL", ""),
			AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
			AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			S3Bucket:           os.Getenv("AWS_S3_BUCKET"),
			CDNDomain:          os.Getenv("CDN_DOMAIN"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("invalid config: JWT_SECRET must be set")
	}
	if c.JWTExpiration <= 0 {
		return errors.New("invalid config: JWT_EXPIRES_IN must be positive")
	}
	if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
		return errors.New("invalid config: DB_HOST/DB_USER/DB_NAME must not be empty")
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return errors.New("invalid config: AWS_S3_BUCKET is required for the s3 storage driver")
		}
	default:
		return fmt.Errorf("invalid config: unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	return nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
