package strava

import (
	"net/http"
	"strconv"
	"strings"
)

// RateLimitUsage holds the parsed Strava rate limit headers. Strava
// reports two comma separated windows: a 15 minute window and a daily
// window. See https://developers.strava.com/docs/rate-limits/
type RateLimitUsage struct {
	ShortLimit int // Requests allowed per 15 minute window
	ShortUsage int // Requests used in the current 15 minute window
	DailyLimit int // Requests allowed per day
	DailyUsage int // Requests used today
}

const (
	// Header keys use canonical form (http.CanonicalHeaderKey)
	limitHeaderKey = "X-Ratelimit-Limit"
	usageHeaderKey = "X-Ratelimit-Usage"
)

// nearLimitFraction is the usage ratio past which callers should back off.
const nearLimitFraction = 0.9

func (u *RateLimitUsage) NearLimit() bool {
	if u.ShortLimit > 0 && float64(u.ShortUsage) >= nearLimitFraction*float64(u.ShortLimit) {
		return true
	}
	return u.DailyLimit > 0 && float64(u.DailyUsage) >= nearLimitFraction*float64(u.DailyLimit)
}

func ParseRateLimitHeaders(headers http.Header) (*RateLimitUsage, error) {
	var (
		limitStr = headers.Get(limitHeaderKey)
		usageStr = headers.Get(usageHeaderKey)
	)

	if limitStr == "" || usageStr == "" {
		return nil, nil
	}

	shortLimit, dailyLimit, err := parseWindowPair(limitStr)
	if err != nil {
		return nil, err
	}

	shortUsage, dailyUsage, err := parseWindowPair(usageStr)
	if err != nil {
		return nil, err
	}

	return &RateLimitUsage{
		ShortLimit: shortLimit,
		ShortUsage: shortUsage,
		DailyLimit: dailyLimit,
		DailyUsage: dailyUsage,
	}, nil
}

// parseWindowPair splits a "short,daily" header value. A missing daily
// component falls back to zero rather than erroring.
func parseWindowPair(s string) (short int, daily int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) == 0 {
		return 0, 0, strconv.ErrSyntax
	}

	short, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}

	if len(parts) > 1 {
		daily, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, err
		}
	}

	return short, daily, nil
}
