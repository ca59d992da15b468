package release

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const binaryEntry = "kubeseal"

// extractBinary copies the regular file named "kubeseal" from a gzipped
// tarball into dir/name with executable permissions.
func extractBinary(archive io.Reader, dir, name string) (string, error) {
	gz, err := gzip.NewReader(archive)
	if err != nil {
		return "", fmt.Errorf("opening gzip stream: %w", err)
	}
	defer gz.Close()

	target, err := safeJoin(dir, name)
	if err != nil {
		return "", err
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: archive has no %q entry", ErrBinaryNotFound, binaryEntry)
		}
		if err != nil {
			return "", fmt.Errorf("reading archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg || hdr.Name != binaryEntry {
			continue
		}
		if err := writeExecutable(tr, target); err != nil {
			return "", err
		}
		return target, nil
	}
}

func safeJoin(dir, name string) (string, error) {
	base, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	target := filepath.Join(base, name)
	if target != base && !strings.HasPrefix(target, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrPathTraversal, name)
	}
	return target, nil
}

func writeExecutable(r io.Reader, target string) error {
	tmp := target + ".part"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("installing %s: %w", target, err)
	}
	return nil
}
