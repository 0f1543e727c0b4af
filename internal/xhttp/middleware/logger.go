package middleware

import (
	"log/slog"
	"net/http"

	"github.com/pulsecoach/pulse/internal/xslog"
)

// Logger stores the given logger on the request context so handlers
// can retrieve it with xslog.FromContext.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(xslog.WithLogger(r.Context(), logger)))
		})
	}
}
