package release

import (
	"fmt"
	"regexp"
	"strings"
)

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(?:-[\w.]+)?(?:\+[\w.]+)?$`)

// NormalizeVersion strips a single leading "v" and checks the remainder is
// a semantic version.
func NormalizeVersion(v string) (string, error) {
	n := strings.TrimPrefix(strings.TrimSpace(v), "v")
	if n == "" {
		return "", fmt.Errorf("%w: empty version", ErrInvalidVersion)
	}
	if !semverPattern.MatchString(n) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	return n, nil
}
