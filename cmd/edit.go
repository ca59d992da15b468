package cmd

import (
	"context"
	"fmt"

	"github.com/stuttgart-things/kubeseal-auto/internal/params"
	"github.com/stuttgart-things/kubeseal-auto/internal/secretfile"
)

// edit adds entries to an existing SealedSecret by sealing a generic
// secret with the same name and namespace and merging it in.
func (s *session) edit(ctx context.Context) ([]string, error) {
	path := s.run.EditFile
	p, err := editTarget(path)
	if err != nil {
		return nil, err
	}

	var entries []string
	if s.run.Interactive {
		fmt.Println(progressStyle.Render(fmt.Sprintf("Editing %s/%s", p.Namespace, p.Name)))
		entries, err = promptEntries(ctx, nil)
	} else {
		entries, err = editEntries(s.run.Input)
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
	if err := s.kubectl.CreateGeneric(ctx, p, entries, staging); err != nil {
		return nil, err
	}
	if err := s.sealer.Merge(ctx, staging, path); err != nil {
		return nil, err
	}

	fmt.Println(successStyle.Render("✓ Updated " + path))
	fmt.Println(renderSummary("Edited sealed secret", s.secretRows(p, path, len(entries))))
	return []string{path}, nil
}

// editTarget reads the name and namespace of the SealedSecret in path.
func editTarget(path string) (params.SecretParams, error) {
	doc, err := secretfile.Parse(path)
	if err != nil {
		return params.SecretParams{}, err
	}
	if doc == nil {
		return params.SecretParams{}, fmt.Errorf("secret file '%s' is empty", path)
	}
	if !doc.IsSealedSecret() {
		return params.SecretParams{}, fmt.Errorf("%s is a %q, not a SealedSecret", path, doc.Kind())
	}

	p := params.SecretParams{Name: doc.Name(), Namespace: doc.Namespace(), Type: params.Generic}
	if p.Name == "" || p.Namespace == "" {
		return p, fmt.Errorf("%s has no metadata.name or metadata.namespace", path)
	}
	return p, nil
}

func editEntries(in InputConfig) ([]string, error) {
	req := &params.Request{}
	if in.ParamsFile != "" {
		var err error
		req, err = params.ParseFile(in.ParamsFile)
		if err != nil {
			return nil, err
		}
	}
	req.Files = append(req.Files, in.Files...)
	return requestEntries(req, in.Literals)
}
