package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration, parsed from the environment.
type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"microblog.db"`

	// JWTSecret signs both session tokens and password-reset tokens.
	JWTSecret    string `env:"JWT_SECRET,required"`
	BcryptCost   int    `env:"BCRYPT_COST" envDefault:"12"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"true"`

	// BaseURL is the externally visible origin used to build links in
	// outbound email, e.g. the password-reset link.
	BaseURL       string        `env:"BASE_URL" envDefault:"http://localhost:8080"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL" envDefault:"10m"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailSender   string `env:"MAIL_SENDER" envDefault:"no-reply@microblog.local"`
	MailWorkers  int    `env:"MAIL_WORKERS" envDefault:"2"`
	MailQueue    int    `env:"MAIL_QUEUE" envDefault:"64"`
}

// Load parses and validates configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	}
	if c.ResetTokenTTL <= 0 {
		return fmt.Errorf("RESET_TOKEN_TTL must be positive, got %s", c.ResetTokenTTL)
	}
	if c.MailWorkers < 1 {
		return fmt.Errorf("MAIL_WORKERS must be at least 1, got %d", c.MailWorkers)
	}
	if c.MailQueue < 1 {
		return fmt.Errorf("MAIL_QUEUE must be at least 1, got %d", c.MailQueue)
	}
	return nil
}
