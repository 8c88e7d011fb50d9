package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	GinMode string `env:"GIN_MODE" envDefault:"debug"`
	App     struct {
		Name string `env:"NAME" envDefault:"TaskFlow"`
		URL  string `env:"URL" envDefault:"http://localhost:3000"`
	} `envPrefix:"APP_"`
	Server struct {
		Port string `env:"PORT" envDefault:"8080"`
	} `envPrefix:"SERVER_"`
	Database struct {
		Driver   string `env:"DRIVER" envDefault:"postgres"`
		Host     string `env:"HOST" envDefault:"localhost"`
		Port     string `env:"PORT" envDefault:"5432"`
		User     string `env:"USER" envDefault:"taskflow"`
		Password string `env:"PASSWORD" envDefault:"taskflow"`
		Name     string `env:"NAME" envDefault:"taskflow"`
	} `envPrefix:"DB_"`
	JWT struct {
		Secret            string `env:"SECRET" envDefault:"default-secret-key-change-me"`
		SessionExpiration int    `env:"SESSION_EXPIRATION" envDefault:"86400"` // seconds
		ResetExpiration   int    `env:"RESET_EXPIRATION" envDefault:"3600"`
	} `envPrefix:"JWT_"`
	SMTP struct {
		Enabled  bool   `env:"ENABLED" envDefault:"false"`
		Host     string `env:"HOST" envDefault:"localhost"`
		Port     int    `env:"PORT" envDefault:"587"`
		Username string `env:"USERNAME"`
		Password string `env:"PASSWORD"`
		From     string `env:"FROM" envDefault:"noreply@taskflow.local"`
	} `envPrefix:"SMTP_"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) {
			// Only the first error keeps the log readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	return cfg, nil
}
