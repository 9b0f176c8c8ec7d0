package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=3000"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// DeploymentLabel names the hosting target in /health and / responses.
	DeploymentLabel string        `env:"DEPLOYMENT_LABEL, default=local"`
	ExposeErrors    bool          `env:"EXPOSE_ERRORS,    default=true"`
	CORSOrigins     []string      `env:"CORS_ORIGINS,     default=*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	TokenTTL   time.Duration `env:"JWT_EXPIRES_IN, default=168h"`
	BcryptCost int           `env:"BCRYPT_COST,    default=10"`
}

type MongoConfig struct {
	URI        string        `env:"MONGODB_URI,       default=mongodb://localhost:27017"`
	Database   string        `env:"MONGO_DB,          default=onboarding_system"`
	RetryDelay time.Duration `env:"MONGO_RETRY_DELAY, default=5s"`
}

// RedisConfig is optional; leaving REDIS_ADDR empty disables the
// registration lock.
type RedisConfig struct {
	Addr    string        `env:"REDIS_ADDR"`
	DB      int           `env:"REDIS_DB,       default=0"`
	LockTTL time.Duration `env:"REDIS_LOCK_TTL, default=10s"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads a .env file when present, then environment variables using
// go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper(), ".env")
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom processes configuration from lookuper after loading the given
// dotenv files. Missing dotenv files are ignored; values already present in
// the environment win over the file.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper, dotenvFiles ...string) (*Config, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
