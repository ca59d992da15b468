// Package kubeseal drives the kubeseal binary to seal, merge, fetch
// certificates for and re-encrypt SealedSecrets.
package kubeseal

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/stuttgart-things/kubeseal-auto/internal/argocd"
	"github.com/stuttgart-things/kubeseal-auto/internal/runner"
)

// ErrDetached is returned for operations that need a live controller.
var ErrDetached = errors.New("operation requires a cluster connection (not available with --cert)")

// Sealer runs kubeseal verbs for a fixed Command.
type Sealer struct {
	cmd    Command
	runner runner.Runner
}

// NewSealer creates a Sealer.
func NewSealer(cmd Command, r runner.Runner) *Sealer {
	return &Sealer{cmd: cmd, runner: r}
}

// Command returns the base command the sealer was built with.
func (s *Sealer) Command() Command {
	return s.cmd
}

func (s *Sealer) command(extra ...string) runner.Cmd {
	return runner.Cmd{Name: s.cmd.Binary, Args: s.cmd.Args(extra...)}
}

// Seal encrypts the Secret manifest at staging into out and adds the
// Argo CD sync option. A failed run leaves no output file behind.
func (s *Sealer) Seal(ctx context.Context, staging, out string) error {
	in, err := os.Open(staging)
	if err != nil {
		return fmt.Errorf("opening staged secret: %w", err)
	}
	defer in.Close()

	c := s.command()
	c.Stdin = in
	if err := runner.RunToFile(ctx, s.runner, c, out, runner.PublicFile); err != nil {
		return fmt.Errorf("sealing secret: %w", err)
	}
	log.Debug().Str("file", out).Msg("sealed secret written")

	return argocd.ApplyFile(out)
}

// Merge seals the Secret manifest at staging into the existing
// SealedSecret target.
func (s *Sealer) Merge(ctx context.Context, staging, target string) error {
	in, err := os.Open(staging)
	if err != nil {
		return fmt.Errorf("opening staged secret: %w", err)
	}
	defer in.Close()

	c := s.command("--merge-into", target)
	c.Stdin = in
	if err := s.runner.Run(ctx, c); err != nil {
		return fmt.Errorf("merging into %s: %w", target, err)
	}
	log.Debug().Str("file", target).Msg("merged into sealed secret")

	return argocd.ApplyFile(target)
}

// FetchCert writes the controller's public certificate to out.
func (s *Sealer) FetchCert(ctx context.Context, out string) error {
	if s.cmd.IsDetached() {
		return ErrDetached
	}
	if err := runner.RunToFile(ctx, s.runner, s.command("--fetch-cert"), out, runner.PublicFile); err != nil {
		return fmt.Errorf("fetching certificate: %w", err)
	}
	return nil
}

// CertFileName is where FetchCert output goes for a context.
func CertFileName(contextName string) string {
	return contextName + "-kubeseal-cert.crt"
}
