package xhttp

import (
	"net"
	"net/http"
)

// GetRequestIP extracts the caller IP, preferring X-Forwarded-For when a
// proxy sits in front of the server.
func GetRequestIP(r *http.Request) string {
	if xff := r.Header.Get(XForwardedFor); xff != "" {
		if ip, _, err := net.SplitHostPort(xff); err == nil {
			return ip
		}
		return xff
	}
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}
