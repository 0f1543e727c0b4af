package server

import (
	"github.com/caarlos0/env/v11"

	"github.com/pulsecoach/pulse/internal/config"
)

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

func (e Environment) IsDevelopment() bool { return e == Development }

type Config struct {
	Port      string        `env:"PORT" envDefault:"8080"`
	Env       Environment   `env:"ENV" envDefault:"development"`
	BaseURL   string        `env:"BASE_URL,required"`
	Strava    config.Strava `envPrefix:"STRAVA_"`
	RateLimit RateLimit     `envPrefix:"RATE_"`
	Database  Database      `envPrefix:"DATABASE_"`
	Redis     Redis         `envPrefix:"REDIS_"`
}

type RateLimit struct {
	Limit float64 `env:"LIMIT" envDefault:"10"`
	Burst int     `env:"BURST" envDefault:"20"`
}

type Database struct {
	URL string `env:"URL,required"`
}

type Redis struct {
	// URL is optional; without it the server falls back to the
	// in-memory backend.
	URL string `env:"URL"`
}

func (c Config) RedirectURL() string { return c.BaseURL + "/auth/callback" }

func ReadConfig() (Config, error) {
	return env.ParseAs[Config]()
}
