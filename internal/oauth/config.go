package oauth

import (
	"golang.org/x/oauth2"

	"github.com/pulsecoach/pulse/internal/config"
)

const (
	authURL  = "https://www.strava.com/oauth/authorize"
	tokenURL = "https://www.strava.com/oauth/token" //nolint:gosec // not credentials, just endpoint URL
)

// Strava expects its scopes comma separated in a single parameter, not
// space separated as oauth2 would otherwise encode them.
var scopes = []string{"read,activity:read_all,profile:read_all"}

func NewConfig(strava config.Strava, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     strava.ClientID,
		ClientSecret: strava.ClientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}
}
