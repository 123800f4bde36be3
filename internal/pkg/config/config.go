package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string        `env:"PORT,            default=3001"`
	Env           string        `env:"ENV,             default=development"`
	LogLevel      string        `env:"LOG_LEVEL,       default=info"`
	JWTSecret     string        `env:"JWT_SECRET,      required"`
	TokenTTL      time.Duration `env:"TOKEN_TTL,       default=24h"`
	FrontendURL   string        `env:"FRONTEND_URL,    default=http://localhost:3000"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL, default=http://localhost:3001"`

	Database DatabaseConfig
	Admin    AdminConfig
	Upload   UploadConfig
	Mongo    MongoConfig
	Cache    CacheConfig
}

type DatabaseConfig struct {
	Driver       string `env:"DB_DRIVER,         default=sqlite"`
	URL          string `env:"DATABASE_URL"`
	SQLitePath   string `env:"SQLITE_PATH,       default=database.sqlite"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS, default=10"`
}

type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL,    default=admin@example.com"`
	Password string `env:"ADMIN_PASSWORD, default=admin123"`
}

type UploadConfig struct {
	Backend  string `env:"UPLOAD_BACKEND,   default=local"`
	Dir      string `env:"UPLOAD_DIR,       default=uploads"`
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES, default=20971520"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,      default=rental_system"`
	Bucket   string `env:"GRIDFS_BUCKET, default=uploads"`
}

type CacheConfig struct {
	Enabled bool          `env:"CACHE_ENABLED, default=false"`
	Addr    string        `env:"REDIS_ADDR"`
	DB      int           `env:"REDIS_DB,      default=0"`
	TTL     time.Duration `env:"CACHE_TTL,     default=5m"`
}

// Load reads a .env file when present, then the process environment.
// Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith processes configuration from an arbitrary lookuper and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the process cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.Database.Driver))
	}

	switch c.Upload.Backend {
	case "local":
		if c.Upload.Dir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR is required when UPLOAD_BACKEND=local"))
		}
	case "gridfs":
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			errs = append(errs, errors.New("MONGO_URI and MONGO_DB are required when UPLOAD_BACKEND=gridfs"))
		}
	default:
		errs = append(errs, fmt.Errorf("UPLOAD_BACKEND must be local or gridfs, got %q", c.Upload.Backend))
	}

	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
