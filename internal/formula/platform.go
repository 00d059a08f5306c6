package formula

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	OSDarwin = "darwin"
	OSLinux  = "linux"
)

// Platform identifies the host the formula is built for.
type Platform struct {
	OS   string
	Arch string
}

// DetectPlatform returns the platform the binary is running on.
func DetectPlatform() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// ParsePlatform accepts "os" or "os/arch". A missing arch defaults to the host's.
func ParsePlatform(s string) (Platform, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Platform{}, fmt.Errorf("%w: empty platform", ErrInvalidConfig)
	}
	osName, arch, found := strings.Cut(s, "/")
	if osName == "" || (found && arch == "") {
		return Platform{}, fmt.Errorf("%w: malformed platform %q", ErrInvalidConfig, s)
	}
	if osName == "macos" || osName == "osx" {
		osName = OSDarwin
	}
	if !found {
		arch = runtime.GOARCH
	}
	return Platform{OS: osName, Arch: arch}, nil
}

func (p Platform) IsMacOS() bool {
	return p.OS == OSDarwin
}

func (p Platform) String() string {
	return p.OS + "/" + p.Arch
}

// macOSLibraryArgs link against the zlib, bzip2 and curl shipped with the OS.
var macOSLibraryArgs = []string{"system-zlib", "system-bzip2", "system-curl"}

// ResolvePlatformArgs returns the platform-specific bootstrap switches, without
// the leading dashes. Every platform other than macOS gets none.
func ResolvePlatformArgs(p Platform) []string {
	if !p.IsMacOS() {
		return []string{}
	}
	out := make([]string, len(macOSLibraryArgs))
	copy(out, macOSLibraryArgs)
	return out
}
