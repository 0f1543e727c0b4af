package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/pulsecoach/pulse/internal/store"
	"github.com/pulsecoach/pulse/internal/xhttp"
)

const (
	callbackPath = "/callback"
	shutdownTime = 5 * time.Second
)

type Flow interface {
	Run(ctx context.Context) (*oauth2.Token, error)
}

type tokenResult struct {
	token *oauth2.Token
	err   error
}

type callbackHandler func(w http.ResponseWriter, r *http.Request) (*oauth2.Token, error)

// DirectFlow exchanges the authorization code locally using the
// athlete's own Strava application credentials.
type DirectFlow struct {
	config *oauth2.Config
	tokens *store.Tokens
	state  string
}

var _ Flow = (*DirectFlow)(nil)

func NewDirectFlow(config *oauth2.Config, tokens *store.Tokens) (*DirectFlow, error) {
	state, err := GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}
	return &DirectFlow{
		config: config,
		tokens: tokens,
		state:  state,
	}, nil
}

func (f *DirectFlow) Run(ctx context.Context) (*oauth2.Token, error) {
	return runFlow(ctx, f.tokens, f.authURL, f.callbackHandler())
}

func (f *DirectFlow) authURL(port string) string {
	cfg := *f.config
	cfg.RedirectURL = "http://127.0.0.1:" + port + callbackPath
	return cfg.AuthCodeURL(f.state, oauth2.AccessTypeOffline)
}

func (f *DirectFlow) callbackHandler() callbackHandler {
	return func(w http.ResponseWriter, r *http.Request) (*oauth2.Token, error) {
		if !ValidateState(f.state, r.URL.Query().Get(ParamState)) {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return nil, errors.New("invalid state parameter")
		}

		if errParam := r.URL.Query().Get(ParamError); errParam != "" {
			errDesc := r.URL.Query().Get(ParamErrorDescription)
			http.Error(w, fmt.Sprintf("OAuth error: %s", errDesc), http.StatusBadRequest)
			return nil, fmt.Errorf("oauth error: %s - %s", errParam, errDesc)
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "Missing authorization code", http.StatusBadRequest)
			return nil, errors.New("missing authorization code")
		}

		token, err := f.config.Exchange(r.Context(), code)
		if err != nil {
			http.Error(w, "Failed to exchange authorization code", http.StatusInternalServerError)
			return nil, fmt.Errorf("failed to exchange code: %w", err)
		}

		return token, nil
	}
}

// HostedFlow delegates the exchange to a deployed pulsecoach server so
// athletes do not need their own Strava application.
type HostedFlow struct {
	serverURL string
	tokens    *store.Tokens
}

var _ Flow = (*HostedFlow)(nil)

func NewHostedFlow(serverURL string, tokens *store.Tokens) *HostedFlow {
	return &HostedFlow{
		serverURL: serverURL,
		tokens:    tokens,
	}
}

func (f *HostedFlow) Run(ctx context.Context) (*oauth2.Token, error) {
	return runFlow(ctx, f.tokens, f.authURL, hostedCallbackHandler)
}

func (f *HostedFlow) authURL(port string) string {
	return fmt.Sprintf("%s/auth/start?%s=%s", f.serverURL, ParamLocalPort, port)
}

func hostedCallbackHandler(w http.ResponseWriter, r *http.Request) (*oauth2.Token, error) {
	if errParam := r.URL.Query().Get(ParamError); errParam != "" {
		errDesc := r.URL.Query().Get(ParamErrorDescription)
		http.Error(w, fmt.Sprintf("OAuth error: %s", errDesc), http.StatusBadRequest)
		return nil, fmt.Errorf("oauth error: %s - %s", errParam, errDesc)
	}

	accessToken := r.URL.Query().Get("access_token")
	if accessToken == "" {
		http.Error(w, "Missing access token", http.StatusBadRequest)
		return nil, errors.New("missing access_token")
	}

	tokenType := r.URL.Query().Get("token_type")
	if tokenType == "" {
		tokenType = "Bearer"
	}

	var expiry time.Time
	if expiresInStr := r.URL.Query().Get("expires_in"); expiresInStr != "" {
		if expiresIn, err := strconv.Atoi(expiresInStr); err == nil {
			expiry = time.Now().Add(time.Duration(expiresIn) * time.Second)
		}
	}

	return &oauth2.Token{
		AccessToken:  accessToken,
		TokenType:    tokenType,
		RefreshToken: r.URL.Query().Get("refresh_token"),
		Expiry:       expiry,
	}, nil
}

func runFlow(
	ctx context.Context,
	tokens *store.Tokens,
	authURL func(port string) string,
	handler callbackHandler,
) (*oauth2.Token, error) {
	resultCh := make(chan tokenResult, 1)

	server, port, err := startCallbackServer(handler, resultCh)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}

	url := authURL(port)

	fmt.Printf("Opening browser for Strava authorization...\n")
	fmt.Printf("If the browser doesn't open, visit:\n%s\n\n", url)

	if err := openBrowser(url); err != nil {
		fmt.Printf("Failed to open browser: %v\n", err)
	}

	select {
	case result := <-resultCh:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTime)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Warning: failed to shutdown server: %v\n", err)
		}

		if result.err != nil {
			return nil, result.err
		}

		if err := tokens.Save(ctx, result.token); err != nil {
			return nil, fmt.Errorf("failed to save token: %w", err)
		}

		return result.token, nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTime)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)

		return nil, ctx.Err()
	}
}

func startCallbackServer(handler callbackHandler, resultCh chan<- tokenResult) (*http.Server, string, error) {
	mux := http.NewServeMux()

	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		token, err := handler(w, r)
		if err != nil {
			resultCh <- tokenResult{err: err}
			return
		}
		writeSuccessHTML(w)
		resultCh <- tokenResult{token: token}
	})

	listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", "0"))
	if err != nil {
		return nil, "", fmt.Errorf("failed to start listener: %w", err)
	}

	_, port, _ := net.SplitHostPort(listener.Addr().String())

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			resultCh <- tokenResult{err: fmt.Errorf("server error: %w", err)}
		}
	}()

	return server, port, nil
}

func writeSuccessHTML(w http.ResponseWriter) {
	xhttp.SetHeaderContentTypeTextHTML(w)
	_, _ = fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Connected to Strava</title></head>
<body>
<h1>Connected to Strava</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>`)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
