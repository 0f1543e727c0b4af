package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/pulsecoach/pulse/internal/client/strava"
	"github.com/pulsecoach/pulse/internal/oauth"
	"github.com/pulsecoach/pulse/internal/repository"
	"github.com/pulsecoach/pulse/internal/storage"
	"github.com/pulsecoach/pulse/internal/xslog"
)

const stateTTL = 5 * time.Minute

// Auth implements the hosted OAuth flow: the CLI opens /auth/start
// with its local callback port, Strava redirects to /auth/callback,
// and the server hands the token back to the waiting CLI.
type Auth struct {
	config *oauth2.Config
	states storage.StateStore
	repo   *repository.Repository
}

func NewAuth(config *oauth2.Config, states storage.StateStore, repo *repository.Repository) *Auth {
	return &Auth{
		config: config,
		states: states,
		repo:   repo,
	}
}

func (h *Auth) HandleAuthStart(w http.ResponseWriter, r *http.Request) {
	localPort := r.URL.Query().Get(oauth.ParamLocalPort)
	if !isValidPort(localPort) {
		http.Error(w, "invalid local_port parameter", http.StatusBadRequest)
		return
	}

	state, err := oauth.GenerateState()
	if err != nil {
		http.Error(w, "failed to generate state", http.StatusInternalServerError)
		return
	}

	entry := storage.StateEntry{
		LocalPort: localPort,
		CreatedAt: time.Now(),
	}

	if err := h.states.Set(r.Context(), state, entry, stateTTL); err != nil {
		http.Error(w, "failed to store state", http.StatusInternalServerError)
		return
	}

	authURL := h.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

func (h *Auth) HandleAuthCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get(oauth.ParamState)
	if state == "" {
		http.Error(w, "missing state parameter", http.StatusBadRequest)
		return
	}

	entry, err := h.states.GetAndDelete(r.Context(), state)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "invalid or expired state parameter", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "failed to retrieve state", http.StatusInternalServerError)
		return
	}

	if errParam := r.URL.Query().Get(oauth.ParamError); errParam != "" {
		errDesc := r.URL.Query().Get(oauth.ParamErrorDescription)
		redirectWithError(w, r, entry.LocalPort, oauth.ErrorCode(errParam), errDesc)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, err := h.config.Exchange(ctx, code)
	if err != nil {
		http.Error(w, "failed to exchange authorization code", http.StatusInternalServerError)
		return
	}

	h.registerAthlete(ctx, token)

	redirectWithToken(w, r, entry.LocalPort, token)
}

// registerAthlete records who just authorized. Failure is logged, not
// surfaced; the CLI still gets its token.
func (h *Auth) registerAthlete(ctx context.Context, token *oauth2.Token) {
	logger := xslog.FromContext(ctx)

	client := strava.New(oauth2.StaticTokenSource(token))
	profile, err := client.Athlete.GetAuthenticated(ctx)
	if err != nil {
		logger.WarnContext(ctx, "failed to fetch athlete after auth", xslog.Error(err))
		return
	}

	athlete := &repository.Athlete{
		ID:        profile.ID,
		Username:  profile.Username,
		Firstname: profile.Firstname,
		Lastname:  profile.Lastname,
		FTP:       profile.FTP,
	}
	if err := h.repo.Athletes.Upsert(ctx, athlete); err != nil {
		logger.WarnContext(ctx, "failed to upsert athlete after auth",
			xslog.AthleteID(profile.ID),
			xslog.Error(err))
	}
}

func redirectWithToken(w http.ResponseWriter, r *http.Request, localPort string, token *oauth2.Token) {
	u, _ := url.Parse(fmt.Sprintf("http://localhost:%s/callback", localPort))
	q := u.Query()
	q.Set("access_token", token.AccessToken)
	q.Set("token_type", token.TokenType)
	q.Set("expires_in", strconv.Itoa(int(time.Until(token.Expiry).Seconds())))
	if token.RefreshToken != "" {
		q.Set("refresh_token", token.RefreshToken)
	}
	u.RawQuery = q.Encode()

	http.Redirect(w, r, u.String(), http.StatusTemporaryRedirect)
}

func redirectWithError(w http.ResponseWriter, r *http.Request, localPort string, errCode oauth.ErrorCode, errDesc string) {
	u, _ := url.Parse(fmt.Sprintf("http://localhost:%s/callback", localPort))
	q := u.Query()
	q.Set(oauth.ParamError, string(errCode))
	q.Set(oauth.ParamErrorDescription, errDesc)
	u.RawQuery = q.Encode()

	http.Redirect(w, r, u.String(), http.StatusTemporaryRedirect)
}

func isValidPort(s string) bool {
	if s == "" {
		return false
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return port >= 1 && port <= 65535
}
