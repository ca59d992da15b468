package cmd

import (
	"context"
	"fmt"

	"github.com/stuttgart-things/kubeseal-auto/internal/kubectl"
	"github.com/stuttgart-things/kubeseal-auto/internal/kustomize"
	"github.com/stuttgart-things/kubeseal-auto/internal/params"
)

// create renders a plain secret into the staging file and seals it to
// <name>.yaml in the working directory.
func (s *session) create(ctx context.Context) ([]string, error) {
	var (
		p   params.SecretParams
		in  kubectl.Input
		err error
	)
	if s.run.Interactive {
		p, in, err = s.runCreateInteractive(ctx)
	} else {
		p, in, err = resolveRequest(s.run.Input, ".")
	}
	if err != nil {
		return nil, err
	}

	if err := s.kubectl.CheckInstalled(); err != nil {
		return nil, err
	}
	staging, err := s.stagingFile()
	if err != nil {
		return nil, err
	}
	if err := s.kubectl.Create(ctx, p, in, staging); err != nil {
		return nil, err
	}

	out := p.Name + ".yaml"
	if err := s.sealer.Seal(ctx, staging, out); err != nil {
		return nil, err
	}

	fmt.Println(successStyle.Render("✓ Sealed secret written to " + out))
	files := []string{out}

	if k := s.run.Kustomize; k != "" {
		changed, err := kustomize.Register(k, out)
		if err != nil {
			return nil, err
		}
		if changed {
			fmt.Println(successStyle.Render("✓ Added " + out + " to " + k))
			files = append(files, k)
		}
	}

	fmt.Println(renderSummary("Sealed secret", s.secretRows(p, out, len(in.Entries))))
	return files, nil
}

func (s *session) secretRows(p params.SecretParams, out string, entries int) []summaryRow {
	rows := []summaryRow{
		{"Name", p.Name},
		{"Namespace", p.Namespace},
		{"Type", string(p.Type)},
	}
	if p.Type == params.Generic {
		rows = append(rows, summaryRow{"Entries", fmt.Sprintf("%d", entries)})
	}
	rows = append(rows, summaryRow{"File", out})
	return append(rows, s.targetRow())
}

func (s *session) targetRow() summaryRow {
	if s.run.Detached() {
		return summaryRow{"Certificate", s.run.Cert}
	}
	return summaryRow{"Controller", fmt.Sprintf("%s/%s (%s)", s.controller.Namespace, s.controller.Name, s.contextName())}
}
