package release

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform names a release asset's operating system and CPU architecture.
type Platform struct {
	OS   string
	Arch string
}

var (
	osNames = map[string]string{
		"linux":  "linux",
		"darwin": "darwin",
	}
	archNames = map[string]string{
		"amd64":   "amd64",
		"x86_64":  "amd64",
		"arm64":   "arm64",
		"aarch64": "arm64",
	}
)

// DetectPlatform maps an OS and architecture name, in either Go or uname
// spelling, to the names used by sealed-secrets release assets.
func DetectPlatform(goos, goarch string) (Platform, error) {
	osName, okOS := osNames[strings.ToLower(goos)]
	arch, okArch := archNames[strings.ToLower(goarch)]
	if !okOS || !okArch {
		return Platform{}, fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
	}
	return Platform{OS: osName, Arch: arch}, nil
}

// CurrentPlatform detects the platform this binary runs on.
func CurrentPlatform() (Platform, error) {
	return DetectPlatform(runtime.GOOS, runtime.GOARCH)
}
