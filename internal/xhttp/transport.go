package xhttp

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pulsecoach/pulse/internal/version"
)

type pulseTransport struct {
	base http.RoundTripper
}

var _ http.RoundTripper = (*pulseTransport)(nil)

func (t *pulseTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "github.com/pulsecoach/pulse/"+version.Get())
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform round trip: %w", err)
	}
	return resp, nil
}

// NewTransport returns an http.RoundTripper with standard client headers.
func NewTransport() http.RoundTripper {
	return &pulseTransport{base: http.DefaultTransport}
}

type ClientOption func(*http.Client)

func WithTimeout(d time.Duration) ClientOption {
	return func(c *http.Client) { c.Timeout = d }
}

func NewHTTPClient(opts ...ClientOption) *http.Client {
	c := &http.Client{Transport: NewTransport()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
