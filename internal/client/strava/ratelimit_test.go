package strava

import (
	"net/http"
	"testing"
)

func TestParseWindowPair(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		input     string
		wantShort int
		wantDaily int
		wantErr   bool
	}{
		{
			name:      "standard pair",
			input:     "100,1000",
			wantShort: 100,
			wantDaily: 1000,
		},
		{
			name:      "with whitespace",
			input:     " 100 , 1000 ",
			wantShort: 100,
			wantDaily: 1000,
		},
		{
			name:      "short only",
			input:     "100",
			wantShort: 100,
			wantDaily: 0,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "non-numeric",
			input:   "abc,1000",
			wantErr: true,
		},
		{
			name:    "non-numeric daily",
			input:   "100,xyz",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			short, daily, err := parseWindowPair(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseWindowPair(%q) expected error, got %d,%d", tt.input, short, daily)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseWindowPair(%q) unexpected error: %v", tt.input, err)
			}
			if short != tt.wantShort || daily != tt.wantDaily {
				t.Errorf("parseWindowPair(%q) = %d,%d, want %d,%d", tt.input, short, daily, tt.wantShort, tt.wantDaily)
			}
		})
	}
}

func TestParseRateLimitHeaders(t *testing.T) {
	t.Parallel()

	t.Run("missing headers", func(t *testing.T) {
		t.Parallel()
		usage, err := ParseRateLimitHeaders(http.Header{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if usage != nil {
			t.Errorf("expected nil usage for missing headers, got %+v", usage)
		}
	})

	t.Run("full pair", func(t *testing.T) {
		t.Parallel()
		h := http.Header{}
		h.Set("X-RateLimit-Limit", "200,2000")
		h.Set("X-RateLimit-Usage", "190,500")

		usage, err := ParseRateLimitHeaders(h)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if usage == nil {
			t.Fatal("expected usage, got nil")
		}
		if usage.ShortLimit != 200 || usage.ShortUsage != 190 {
			t.Errorf("short window = %d/%d, want 190/200", usage.ShortUsage, usage.ShortLimit)
		}
		if usage.DailyLimit != 2000 || usage.DailyUsage != 500 {
			t.Errorf("daily window = %d/%d, want 500/2000", usage.DailyUsage, usage.DailyLimit)
		}
		if !usage.NearLimit() {
			t.Error("190/200 should report NearLimit")
		}
	})

	t.Run("well under limit", func(t *testing.T) {
		t.Parallel()
		h := http.Header{}
		h.Set("X-RateLimit-Limit", "200,2000")
		h.Set("X-RateLimit-Usage", "10,50")

		usage, err := ParseRateLimitHeaders(h)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if usage.NearLimit() {
			t.Error("10/200 should not report NearLimit")
		}
	})
}
