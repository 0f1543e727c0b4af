package middleware

import (
	"net/http"
	"time"

	"github.com/pulsecoach/pulse/internal/storage"
	"github.com/pulsecoach/pulse/internal/xerrors"
	"github.com/pulsecoach/pulse/internal/xhttp"
	"github.com/pulsecoach/pulse/internal/xslog"
)

// RateLimitWithBackend applies IP-based rate limiting.
func RateLimitWithBackend(limiter storage.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := xslog.FromContext(ctx)
			ip := xhttp.GetRequestIP(r)

			allowed, err := limiter.Allow(ctx, ip)
			if err != nil {
				logger.ErrorContext(ctx, "rate limit check failed",
					xslog.Error(err),
					xslog.IP(ip),
				)
				xerrors.WriteError(ctx, w, xerrors.ServiceUnavailable(xerrors.WithMessage("rate limit check failed")))
				return
			}

			if !allowed {
				xhttp.SetHeaderRetryAfter(w, time.Second)
				xerrors.WriteError(ctx, w, xerrors.TooManyRequests(xerrors.WithMessage("rate limit exceeded")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
