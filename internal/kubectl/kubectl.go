// Package kubectl renders Secret manifests and exports cluster secrets by
// shelling out to kubectl.
package kubectl

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/stuttgart-things/kubeseal-auto/internal/params"
	"github.com/stuttgart-things/kubeseal-auto/internal/runner"
)

// Client runs kubectl through a Runner.
type Client struct {
	Bin    string
	Runner runner.Runner
}

// New creates a client for the kubectl binary at bin.
func New(bin string, r runner.Runner) *Client {
	if bin == "" {
		bin = "kubectl"
	}
	return &Client{Bin: bin, Runner: r}
}

// CheckInstalled reports whether the kubectl binary is on PATH.
func (c *Client) CheckInstalled() error {
	if _, err := exec.LookPath(c.Bin); err != nil {
		return fmt.Errorf("kubectl CLI not found (%s): install from https://kubernetes.io/docs/tasks/tools/", c.Bin)
	}
	return nil
}

func createArgs(p params.SecretParams) []string {
	return []string{
		"create", "secret", string(p.Type), p.Name,
		"--namespace", p.Namespace,
		"--dry-run=client", "-o", "yaml",
	}
}

// CreateGeneric renders a generic Secret from --from-literal/--from-file
// entries into out.
func (c *Client) CreateGeneric(ctx context.Context, p params.SecretParams, entries []string, out string) error {
	if len(entries) == 0 {
		return fmt.Errorf("generic secret %s needs at least one entry", p.Name)
	}
	p.Type = params.Generic

	cmd := runner.Cmd{
		Name: c.Bin,
		Args: append(createArgs(p), entries...),
		// literal values are secret material
		Quiet: true,
	}
	if err := runner.RunToFile(ctx, c.Runner, cmd, out, runner.PrivateFile); err != nil {
		return fmt.Errorf("creating generic secret: %w", err)
	}
	return nil
}

// TLSPair is the key pair of a tls secret.
type TLSPair struct {
	Key  string
	Cert string
}

// DefaultTLSPair is tls.key and tls.crt in dir.
func DefaultTLSPair(dir string) TLSPair {
	return TLSPair{Key: filepath.Join(dir, "tls.key"), Cert: filepath.Join(dir, "tls.crt")}
}

// Check returns an error naming every missing file of the pair.
func (t TLSPair) Check() error {
	var missing []string
	for _, f := range []string{t.Key, t.Cert} {
		if _, err := os.Stat(f); err != nil {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing TLS files: %s", strings.Join(missing, ", "))
	}
	return nil
}

// CreateTLS renders a kubernetes.io/tls Secret into out.
func (c *Client) CreateTLS(ctx context.Context, p params.SecretParams, pair TLSPair, out string) error {
	if err := pair.Check(); err != nil {
		return err
	}
	p.Type = params.TLS

	cmd := runner.Cmd{
		Name: c.Bin,
		Args: append(createArgs(p), "--key", pair.Key, "--cert", pair.Cert),
	}
	if err := runner.RunToFile(ctx, c.Runner, cmd, out, runner.PrivateFile); err != nil {
		return fmt.Errorf("creating tls secret: %w", err)
	}
	return nil
}

// CreateDockerRegistry renders a docker-registry Secret into out. The
// password is written to kubectl's stdin and never appears in the argument
// list.
func (c *Client) CreateDockerRegistry(ctx context.Context, p params.SecretParams, creds params.DockerCredentials, out string) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	p.Type = params.DockerRegistry

	cmd := runner.Cmd{
		Name: c.Bin,
		Args: append(createArgs(p),
			"--docker-server="+creds.Server,
			"--docker-username="+creds.Username,
			"--docker-password-stdin",
		),
		Stdin: strings.NewReader(creds.Password),
		Quiet: true,
	}
	if err := runner.RunToFile(ctx, c.Runner, cmd, out, runner.PrivateFile); err != nil {
		return fmt.Errorf("creating docker-registry secret: %w", err)
	}
	return nil
}

// Create dispatches on p.Type. Generic secrets use entries, tls secrets
// use pair and docker-registry secrets use creds.
func (c *Client) Create(ctx context.Context, p params.SecretParams, in Input, out string) error {
	switch p.Type {
	case params.Generic:
		return c.CreateGeneric(ctx, p, in.Entries, out)
	case params.TLS:
		return c.CreateTLS(ctx, p, in.TLS, out)
	case params.DockerRegistry:
		return c.CreateDockerRegistry(ctx, p, in.Docker, out)
	default:
		return fmt.Errorf("unsupported secret type %q", p.Type)
	}
}

// Input carries the type-specific inputs for Create.
type Input struct {
	Entries []string
	TLS     TLSPair
	Docker  params.DockerCredentials
}

// GetSecret exports a secret as YAML into out, removing out on failure.
func (c *Client) GetSecret(ctx context.Context, contextName, namespace, name, out string) error {
	args := []string{"get", "secret", "-n", namespace, name, "-o", "yaml"}
	if contextName != "" {
		args = append(args, "--context="+contextName)
	}

	cmd := runner.Cmd{Name: c.Bin, Args: args}
	if err := runner.RunToFile(ctx, c.Runner, cmd, out, runner.PrivateFile); err != nil {
		return fmt.Errorf("exporting secret %s/%s: %w", namespace, name, err)
	}
	return nil
}
