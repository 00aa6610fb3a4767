package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Token          string        `env:"TOKEN"`
	DatabaseURL    string        `env:"DATABASE_URL"     envDefault:"sqlite://gdbot.db"`
	GuildID        string        `env:"GUILD_ID"`
	Locale         string        `env:"LOCALE"           envDefault:"ja"`
	Timezone       string        `env:"TIMEZONE"         envDefault:"Asia/Tokyo"`
	AuthorAutoJoin bool          `env:"AUTHOR_AUTO_JOIN" envDefault:"false"`
	LogLevel       string        `env:"LOG_LEVEL"        envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT"       envDefault:"json"`
	CallTimeout    time.Duration `env:"CALL_TIMEOUT"     envDefault:"10s"`
}

// Load reads an optional .env file, then the environment, and validates the
// result. The Discord token is only required by the run command, so it is
// checked separately by RequireToken.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment (Docker, CI).
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate applies the configuration rules.
func (c *Config) validate() error {
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	if c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL must not be empty")
	}
	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.DatabaseURL, err)
	}
	switch parsed.Scheme {
	case "postgres", "postgresql":
		if parsed.Host == "" {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): missing host", c.DatabaseURL)
		}
	case "sqlite":
	default:
		return fmt.Errorf("config: invalid DATABASE_URL (%q): scheme must be postgres or sqlite", c.DatabaseURL)
	}

	if c.GuildID != "" && !isSnowflake(c.GuildID) {
		return errors.New("config: GUILD_ID must be a Discord id (digits only)")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("config: CALL_TIMEOUT must be positive, got %s", c.CallTimeout)
	}
	return nil
}

// RequireToken fails when no bot token is configured.
func (c *Config) RequireToken() error {
	if strings.TrimSpace(c.Token) == "" {
		return errors.New("config: TOKEN is required and must not be empty")
	}
	return nil
}

func isSnowflake(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
