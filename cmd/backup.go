package cmd

import (
	"context"
	"fmt"
)

// backupFileName is where the controller's key secret is exported.
func backupFileName(contextName string) string {
	return contextName + "-secret-backup.yaml"
}

// backup exports the newest sealing key of the controller. The result
// holds a private key and is never handed to git.
func (s *session) backup(ctx context.Context) error {
	ns := s.controller.Namespace
	key, err := s.cluster.LatestKeySecret(ctx, ns)
	if err != nil {
		return err
	}

	if err := s.kubectl.CheckInstalled(); err != nil {
		return err
	}
	out := backupFileName(s.contextName())
	if err := s.kubectl.GetSecret(ctx, s.contextName(), ns, key, out); err != nil {
		return err
	}

	fmt.Println(successStyle.Render("✓ Saved controller key to " + out))
	if s.run.Git.Enabled() {
		fmt.Println(warnStyle.Render("Key backups are never committed, skipping git"))
	}
	return nil
}
