package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const insecureJWTSecret = "change-me-in-production"

// Media backends.
const (
	MediaLocal      = "local"
	MediaS3         = "s3"
	MediaCloudinary = "cloudinary"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Media      MediaConfig
	AWS        AWSConfig
	Cloudinary CloudinaryConfig
	Admin      AdminConfig

	// AllowInsecureDefaults lets the server start with the default JWT secret (local dev only).
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string `env:"PORT" envDefault:"5000"`
	ReadTimeout        int    `env:"READ_TIMEOUT_SEC" envDefault:"30"`
	WriteTimeout       int    `env:"WRITE_TIMEOUT_SEC" envDefault:"30"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
	APIPrefix          string `env:"API_PREFIX" envDefault:"/api"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string `env:"DATABASE_URL"` // used as-is when set
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName   string `env:"DB_NAME" envDefault:"casinohub"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// RedisConfig holds Redis connection settings. Redis only backs the media cleanup queue.
type RedisConfig struct {
	Addr         string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password     string `env:"REDIS_PASSWORD"`
	DB           int    `env:"REDIS_DB" envDefault:"0"`
	QueueEnabled bool   `env:"MEDIA_QUEUE_ENABLED" envDefault:"false"`
}

// JWTConfig holds JWT signing and validation settings.
type JWTConfig struct {
	Secret      string `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	ExpireHours int    `env:"JWT_EXPIRE_HOURS" envDefault:"720"`
}

// MediaConfig selects where uploaded logos and banner images live.
type MediaConfig struct {
	Backend      string `env:"MEDIA_BACKEND" envDefault:"local"`
	UploadDir    string `env:"UPLOAD_DIR" envDefault:"uploads"`
	PublicPrefix string `env:"UPLOAD_URL_PREFIX" envDefault:"/uploads"`
	MaxBytes     int64  `env:"MEDIA_MAX_BYTES" envDefault:"5242880"`
}

// AWSConfig holds AWS credentials and the media bucket.
type AWSConfig struct {
	Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	MediaBucket     string `env:"AWS_S3_MEDIA_BUCKET" envDefault:"casinohub-media"`
	// MediaPublicRead uploads objects with the public-read ACL for buckets that still use ACLs.
	MediaPublicRead bool `env:"AWS_S3_MEDIA_PUBLIC_READ" envDefault:"false"`
}

// CloudinaryConfig holds the CLOUDINARY_URL and target folder.
type CloudinaryConfig struct {
	URL    string `env:"CLOUDINARY_URL"`
	Folder string `env:"CLOUDINARY_FOLDER" envDefault:"casinohub"`
}

// AdminConfig is read by the seed command.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME" envDefault:"admin"`
	Password string `env:"ADMIN_PASSWORD"`
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (e.g. DATABASE_URL env), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Media.Backend = strings.ToLower(strings.TrimSpace(cfg.Media.Backend))
	return cfg, nil
}

// Validate rejects configuration that must not run in production.
func (c *Config) Validate() error {
	switch c.Media.Backend {
	case MediaLocal, MediaS3, MediaCloudinary:
	default:
		return fmt.Errorf("MEDIA_BACKEND %q is not one of local, s3, cloudinary", c.Media.Backend)
	}
	if c.Media.Backend == MediaCloudinary && c.Cloudinary.URL == "" {
		return fmt.Errorf("CLOUDINARY_URL is required when MEDIA_BACKEND=cloudinary")
	}
	if c.Media.MaxBytes <= 0 {
		return fmt.Errorf("MEDIA_MAX_BYTES must be positive")
	}
	if c.JWT.ExpireHours <= 0 {
		return fmt.Errorf("JWT_EXPIRE_HOURS must be positive")
	}
	if c.AllowInsecureDefaults {
		return nil
	}
	if c.JWT.Secret == insecureJWTSecret {
		return fmt.Errorf("JWT_SECRET is set to the insecure default; set a strong secret or ALLOW_INSECURE_DEFAULTS=true for local dev")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET is too short (%d chars); minimum 32 characters required", len(c.JWT.Secret))
	}
	return nil
}
