package version

import (
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
)

const versionDevel = "devel"

// version is set via ldflags at build time, falling back to
// debug.ReadBuildInfo for go install builds.
var version = versionDevel

var once sync.Once

func Get() string {
	once.Do(func() {
		if version != versionDevel {
			return
		}
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if v := info.Main.Version; v != "" && v != "("+versionDevel+")" {
			version = v
		}
	})
	return version
}

// IsDevelopment returns true for versions that should skip update checks.
func IsDevelopment(v string) bool {
	return v == versionDevel || v == "unknown" || v == "" ||
		strings.Contains(v, "dirty") ||
		strings.Contains(v, "-0.")
}

// IsNewer reports whether latest is a strictly newer semver than current.
// Development builds are never considered outdated.
func IsNewer(current, latest string) bool {
	if IsDevelopment(current) {
		return false
	}

	cur := parseSemver(current)
	lat := parseSemver(latest)

	for i := range 3 {
		if lat[i] != cur[i] {
			return lat[i] > cur[i]
		}
	}
	return false
}

// parseSemver extracts major.minor.patch, tolerating a v prefix and
// pre-release suffixes. Unparseable segments read as zero.
func parseSemver(v string) [3]int {
	v = strings.TrimPrefix(v, "v")
	if idx := strings.IndexAny(v, "-+"); idx >= 0 {
		v = v[:idx]
	}

	var out [3]int
	for i, part := range strings.SplitN(v, ".", 3) {
		n, err := strconv.Atoi(part)
		if err != nil {
			break
		}
		out[i] = n
	}
	return out
}

// IsHomebrew reports whether the running binary was installed via Homebrew.
func IsHomebrew() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	return strings.Contains(exe, "/Cellar/") || strings.Contains(exe, "/homebrew/")
}
