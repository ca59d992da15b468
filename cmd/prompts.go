package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/stuttgart-things/kubeseal-auto/internal/params"
)

const (
	entryLiteral = "literal"
	entryBulk    = "bulk"
	entryFile    = "file"
	entryDone    = "done"
)

// promptNamespace offers the cluster's namespaces, or free text when
// there is no cluster to ask.
func (s *session) promptNamespace(ctx context.Context, preset string) (string, error) {
	namespace := preset
	if s.cluster == nil {
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Namespace").
				Value(&namespace).
				Validate(params.ValidateName),
		)).RunWithContext(ctx)
		return namespace, err
	}

	namespaces, err := s.cluster.Namespaces(ctx)
	if err != nil {
		return "", err
	}
	options := make([]huh.Option[string], 0, len(namespaces))
	for _, ns := range namespaces {
		options = append(options, huh.NewOption(ns, ns))
	}

	err = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Select namespace").
			Options(options...).
			Filtering(true).
			Value(&namespace),
	)).RunWithContext(ctx)
	return namespace, err
}

func promptSecret(ctx context.Context, p *params.SecretParams) error {
	options := make([]huh.Option[params.SecretType], 0, len(params.SecretTypes))
	for _, t := range params.SecretTypes {
		options = append(options, huh.NewOption(string(t), t))
	}
	if p.Type == "" {
		p.Type = params.Generic
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[params.SecretType]().
			Title("Secret type").
			Options(options...).
			Value(&p.Type),
		huh.NewInput().
			Title("Secret name").
			Value(&p.Name).
			Validate(params.ValidateName),
	)).RunWithContext(ctx)
}

// promptEntries loops until the user is done adding --from-literal and
// --from-file entries. Done is only offered once there is an entry.
func promptEntries(ctx context.Context, entries []string) ([]string, error) {
	for {
		choice, err := promptEntryKind(ctx, len(entries) > 0)
		if err != nil {
			return nil, err
		}

		switch choice {
		case entryDone:
			return entries, nil
		case entryLiteral:
			var raw string
			err = huh.NewForm(huh.NewGroup(
				huh.NewInput().
					Title("Literal (key=value)").
					Value(&raw).
					Validate(func(s string) error {
						_, err := params.LiteralEntry(s)
						return err
					}),
			)).RunWithContext(ctx)
			if err != nil {
				return nil, err
			}
			e, _ := params.LiteralEntry(raw)
			entries = append(entries, e)
		case entryBulk:
			var raw string
			err = huh.NewForm(huh.NewGroup(
				huh.NewText().
					Title("Literals, one key=value per line").
					Value(&raw),
			)).RunWithContext(ctx)
			if err != nil {
				return nil, err
			}
			bulk, skipped := params.BulkLiteralEntries(raw)
			if skipped > 0 {
				fmt.Println(warnStyle.Render(fmt.Sprintf("Skipped %d line(s) without key=value", skipped)))
			}
			entries = append(entries, bulk...)
		case entryFile:
			var path string
			err = huh.NewForm(huh.NewGroup(
				huh.NewInput().
					Title("File path").
					Value(&path).
					Validate(func(s string) error {
						_, err := params.FileEntry(s)
						return err
					}),
			)).RunWithContext(ctx)
			if err != nil {
				return nil, err
			}
			e, _ := params.FileEntry(path)
			entries = append(entries, e)
		}
	}
}

func promptEntryKind(ctx context.Context, canFinish bool) (string, error) {
	options := []huh.Option[string]{
		huh.NewOption("Add literal (key=value)", entryLiteral),
		huh.NewOption("Add several literals", entryBulk),
		huh.NewOption("Add file", entryFile),
	}
	title := "Add an entry"
	if canFinish {
		options = append(options, huh.NewOption("Done", entryDone))
		title = "Add another entry or finish"
	}

	var choice string
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(title).
			Options(options...).
			Value(&choice),
	)).RunWithContext(ctx)
	return choice, err
}

func promptDocker(ctx context.Context, creds *params.DockerCredentials) error {
	required := func(field string) func(string) error {
		return func(s string) error {
			if s == "" {
				return fmt.Errorf("%s is required", field)
			}
			return nil
		}
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Docker server").
			Value(&creds.Server).
			Validate(required("server")),
		huh.NewInput().
			Title("Docker username").
			Value(&creds.Username).
			Validate(required("username")),
	}
	if creds.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Docker password").
			EchoMode(huh.EchoModePassword).
			Value(&creds.Password).
			Validate(required("password")))
	}

	return huh.NewForm(huh.NewGroup(fields...)).RunWithContext(ctx)
}
