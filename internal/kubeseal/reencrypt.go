package kubeseal

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/stuttgart-things/kubeseal-auto/internal/argocd"
	"github.com/stuttgart-things/kubeseal-auto/internal/secretfile"
)

const (
	backupSuffix = "_backup"
	newSuffix    = "_new"
)

// Summary reports the outcome of a re-encryption batch.
type Summary struct {
	// Files lists the re-encrypted SealedSecrets in processing order.
	Files []string
	// Skipped counts YAML files that failed to parse or were not
	// SealedSecrets.
	Skipped int
}

// ProgressFunc is called after each re-encrypted file.
type ProgressFunc func(done, total int, path string)

// Discover walks dir and returns every *.yaml file holding a SealedSecret
// along with the number of YAML files it ignored.
func Discover(dir string) ([]string, int, error) {
	var found []string
	skipped := 0

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			log.Debug().Err(err).Str("path", path).Msg("skipping unreadable path")
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
			return nil
		}

		doc, perr := secretfile.Parse(path)
		if perr != nil || doc == nil || !doc.IsSealedSecret() {
			skipped++
			return nil
		}
		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return found, skipped, nil
}

// Reencrypt re-encrypts every SealedSecret under dir with the controller's
// current key. Each file is replaced only after kubeseal succeeded; on
// failure the original is restored and the batch stops.
func (s *Sealer) Reencrypt(ctx context.Context, dir string, progress ProgressFunc) (Summary, error) {
	if s.cmd.IsDetached() {
		return Summary{}, ErrDetached
	}

	files, skipped, err := Discover(dir)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Skipped: skipped}

	for i, path := range files {
		if err := s.reencryptFile(ctx, path); err != nil {
			return summary, err
		}
		if err := argocd.ApplyFile(path); err != nil {
			return summary, err
		}
		summary.Files = append(summary.Files, path)
		if progress != nil {
			progress(i+1, len(files), path)
		}
	}
	return summary, nil
}

func (s *Sealer) reencryptFile(ctx context.Context, path string) error {
	backup := path + backupSuffix
	next := path + newSuffix

	if err := copyFile(path, backup); err != nil {
		return fmt.Errorf("backing up %s: %w", path, err)
	}

	restore := func(cause error) error {
		_ = os.Remove(next)
		if err := os.Rename(backup, path); err != nil {
			return fmt.Errorf("re-encrypting %s: %w (restore failed: %v)", path, cause, err)
		}
		return fmt.Errorf("re-encrypting %s: %w", path, cause)
	}

	in, err := os.Open(path)
	if err != nil {
		return restore(err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return restore(err)
	}
	out, err := os.OpenFile(next, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return restore(err)
	}

	c := s.command("--re-encrypt")
	c.Stdin = in
	c.Stdout = out
	runErr := s.runner.Run(ctx, c)
	closeErr := out.Close()

	if runErr != nil {
		return restore(runErr)
	}
	if closeErr != nil {
		return restore(closeErr)
	}

	if err := os.Rename(next, path); err != nil {
		return restore(err)
	}
	if err := os.Remove(backup); err != nil {
		log.Warn().Err(err).Str("file", backup).Msg("could not remove backup")
	}
	log.Debug().Str("file", path).Msg("re-encrypted")
	return nil
}

// copyFile copies src to dst keeping permissions and modification time.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
