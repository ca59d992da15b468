// Package release resolves a kubeseal binary matching the sealed-secrets
// controller version, downloading and caching release assets on demand.
package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Kind tags the outcome of Resolve.
type Kind int

const (
	Unresolvable Kind = iota
	Resolved
	Fallback
)

func (k Kind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case Fallback:
		return "fallback"
	default:
		return "unresolvable"
	}
}

// Resolution is the result of Resolve. Path is set for Resolved and
// Fallback. Err carries the cause for Fallback and Unresolvable.
type Resolution struct {
	Kind Kind
	Path string
	Err  error
}

// Resolver finds or installs versioned kubeseal binaries under BinDir.
type Resolver struct {
	BinDir   string
	Client   *Client
	Platform func() (Platform, error)
	LookPath func(file string) (string, error)
}

// NewResolver creates a resolver caching binaries in binDir.
func NewResolver(binDir string, client *Client) *Resolver {
	return &Resolver{
		BinDir:   binDir,
		Client:   client,
		Platform: CurrentPlatform,
		LookPath: exec.LookPath,
	}
}

// BinaryPath returns where the binary for version lives once installed.
func (r *Resolver) BinaryPath(version string) (string, error) {
	v, err := NormalizeVersion(version)
	if err != nil {
		return "", err
	}
	return filepath.Join(r.BinDir, "kubeseal-"+v), nil
}

// Ensure returns the cached binary for version, downloading it first when
// it is not installed yet.
func (r *Resolver) Ensure(ctx context.Context, version string) (string, error) {
	v, err := NormalizeVersion(version)
	if err != nil {
		return "", err
	}
	path := filepath.Join(r.BinDir, "kubeseal-"+v)

	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		log.Debug().Str("path", path).Msg("using cached kubeseal binary")
		return path, nil
	}

	platform, err := r.Platform()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.BinDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", r.BinDir, err)
	}

	archive, err := os.CreateTemp(r.BinDir, "kubeseal-*.tar.gz")
	if err != nil {
		return "", fmt.Errorf("creating temp archive: %w", err)
	}
	defer func() {
		archive.Close()
		os.Remove(archive.Name())
	}()

	url := r.Client.AssetURL(v, platform)
	log.Info().Str("version", v).Str("url", url).Msg("downloading kubeseal")

	if err := r.Client.Download(ctx, url, archive); err != nil {
		return "", err
	}
	if _, err := archive.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewinding archive: %w", err)
	}

	installed, err := extractBinary(archive, r.BinDir, "kubeseal-"+v)
	if err != nil {
		return "", err
	}
	log.Debug().Str("path", installed).Msg("installed kubeseal binary")
	return installed, nil
}

// Resolve picks the binary to run for a controller version. When the
// versioned binary cannot be obtained it falls back to kubeseal on PATH.
// An unsupported platform is never recovered from.
func (r *Resolver) Resolve(ctx context.Context, version string) Resolution {
	var cause error
	if version == "" {
		cause = fmt.Errorf("%w: controller version unknown", ErrInvalidVersion)
	} else {
		path, err := r.Ensure(ctx, version)
		if err == nil {
			return Resolution{Kind: Resolved, Path: path}
		}
		if errors.Is(err, ErrUnsupportedPlatform) {
			return Resolution{Kind: Unresolvable, Err: err}
		}
		cause = err
	}

	path, err := r.LookPath("kubeseal")
	if err != nil {
		return Resolution{
			Kind: Unresolvable,
			Err:  fmt.Errorf("%w: %v; no kubeseal on PATH either", ErrBinaryNotFound, cause),
		}
	}
	log.Warn().Err(cause).Str("path", path).Msg("falling back to kubeseal from PATH")
	return Resolution{Kind: Fallback, Path: path, Err: cause}
}
