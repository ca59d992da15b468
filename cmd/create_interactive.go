package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/stuttgart-things/kubeseal-auto/internal/kubectl"
	"github.com/stuttgart-things/kubeseal-auto/internal/params"
)

func (s *session) runCreateInteractive(ctx context.Context) (params.SecretParams, kubectl.Input, error) {
	in := s.run.Input
	p := params.SecretParams{Name: in.Name}
	if t, err := params.ParseSecretType(in.Type); err == nil {
		p.Type = t
	}

	var err error
	p.Namespace, err = s.promptNamespace(ctx, in.Namespace)
	if err != nil {
		return p, kubectl.Input{}, err
	}
	if err := promptSecret(ctx, &p); err != nil {
		return p, kubectl.Input{}, err
	}

	var input kubectl.Input
	switch p.Type {
	case params.TLS:
		input.TLS, err = promptTLS(ctx, tlsPair(in, "."))
	case params.DockerRegistry:
		input.Docker = params.DockerCredentials{
			Server:   in.DockerSrv,
			Username: in.DockerUser,
			Password: in.DockerPass,
		}
		err = promptDocker(ctx, &input.Docker)
	default:
		input.Entries, err = promptEntries(ctx, nil)
	}
	return p, input, err
}

// promptTLS asks for the key pair, prefilled with pair.
func promptTLS(ctx context.Context, pair kubectl.TLSPair) (kubectl.TLSPair, error) {
	exists := func(s string) error {
		_, err := params.FileEntry(s)
		return err
	}
	if pair.Check() == nil {
		fmt.Println(progressStyle.Render(fmt.Sprintf("Using %s and %s", pair.Key, pair.Cert)))
		return pair, nil
	}

	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("TLS private key").Value(&pair.Key).Validate(exists),
		huh.NewInput().Title("TLS certificate").Value(&pair.Cert).Validate(exists),
	)).RunWithContext(ctx)
	return pair, err
}
