package release

import "errors"

var (
	// ErrBinaryNotFound means no usable kubeseal binary could be obtained.
	ErrBinaryNotFound = errors.New("kubeseal binary not found")

	// ErrUnsupportedPlatform is returned for OS/arch pairs without a
	// published release asset.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrInvalidVersion is returned for versions that are not semver.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrPathTraversal is returned when an archive entry would be written
	// outside the binary directory.
	ErrPathTraversal = errors.New("archive entry escapes target directory")
)
