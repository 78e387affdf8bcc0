package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const devJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	AppEnv             string        `env:"APP_ENV" envDefault:"development"`
	Port               string        `env:"PORT" envDefault:"8080"`
	DatabaseURL        string        `env:"DATABASE_URL" envDefault:"selfcare.db"`
	JWTSecret          string        `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production"`
	JWTTTL             time.Duration `env:"JWT_TTL" envDefault:"168h"`
	DefaultTimezone    string        `env:"DEFAULT_TIMEZONE" envDefault:"UTC"`
	FCMServiceAccount  string        `env:"FCM_SERVICE_ACCOUNT"`
	UploadsDir         string        `env:"UPLOADS_DIR" envDefault:"uploads"`
	CORSOrigins        string        `env:"CORS_ORIGINS" envDefault:"*"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env files (if any) and then the process environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.IsProduction() && c.JWTSecret == devJWTSecret {
		return errors.New("JWT_SECRET must be changed in production")
	}
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("DEFAULT_TIMEZONE: %w", err)
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Location returns the configured default timezone. Validate has already
// checked it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
