package config

import (
	"github.com/caarlos0/env/v11"
)

const (
	DefaultAPIBaseURL = "https://www.strava.com/api/v3"
	DefaultServerURL  = "https://pulsecoach.fly.dev"
)

// Config holds the settings the CLI reads from the environment. The
// Strava client credentials come from an application registered at
// https://www.strava.com/settings/api; without them the CLI falls back
// to the hosted auth flow on ServerURL.
type Config struct {
	APIBaseURL string `env:"API_BASE_URL" envDefault:"https://www.strava.com/api/v3"`
	ServerURL  string `env:"SERVER_URL" envDefault:"https://pulsecoach.fly.dev"`
	Strava     Strava `envPrefix:"STRAVA_"`
}

type Strava struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
}

func Read() (Config, error) {
	return env.ParseAs[Config]()
}
