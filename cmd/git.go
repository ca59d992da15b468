package cmd

import (
	"fmt"

	"github.com/stuttgart-things/kubeseal-auto/internal/gitops"
)

func gitOptions() gitops.Options {
	return gitops.Options{
		Commit:       flagGitCommit,
		Push:         flagGitPush,
		Branch:       flagGitBranch,
		CreateBranch: flagGitCreateBranch,
		Message:      flagGitMessage,
		Remote:       flagGitRemote,
		User:         flagGitUser,
		Token:        flagGitToken,
	}
}

// publish commits and pushes files when git flags ask for it.
func publish(opts gitops.Options, files []string) error {
	if !opts.Enabled() || len(files) == 0 {
		return nil
	}

	result, err := gitops.Publish(opts, files)
	if err != nil {
		return fmt.Errorf("git: %w", err)
	}

	msg := fmt.Sprintf("✓ Committed %d file(s) on %s", result.Files, result.Branch)
	if result.Pushed {
		msg += fmt.Sprintf(", pushed to %s", remoteName(opts.Remote))
	}
	fmt.Println(successStyle.Render(msg))
	return nil
}

func remoteName(r string) string {
	if r == "" {
		return "origin"
	}
	return r
}
