package gitops

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Options controls what Publish does with produced files.
type Options struct {
	Commit       bool
	Push         bool
	Branch       string
	CreateBranch bool
	Message      string
	Remote       string
	User         string
	Token        string
}

// Enabled reports whether any git action was requested.
func (o Options) Enabled() bool {
	return o.Commit || o.Push
}

// Result describes what Publish did.
type Result struct {
	RepoPath string
	Branch   string
	Files    int
	Pushed   bool
}

// Publish commits files to the repository that contains them and pushes
// when requested. Push implies commit.
func Publish(opts Options, files []string) (*Result, error) {
	if !opts.Enabled() {
		return nil, nil
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to commit")
	}

	user, token := opts.User, opts.Token
	if opts.Push {
		var err error
		user, token, err = ResolveCredentials(user, token)
		if err != nil {
			return nil, err
		}
	} else {
		user, token = ResolveCredentialsOptional(user, token)
	}

	repoPath, err := FindRepoRoot(files[0])
	if err != nil {
		return nil, err
	}
	g, err := New(repoPath, user, token)
	if err != nil {
		return nil, err
	}

	switch {
	case opts.Branch != "" && opts.CreateBranch:
		log.Debug().Str("branch", opts.Branch).Msg("creating branch")
		err = g.CreateBranch(opts.Branch)
	case opts.Branch != "":
		log.Debug().Str("branch", opts.Branch).Msg("checking out branch")
		err = g.CheckoutBranch(opts.Branch)
	}
	if err != nil {
		return nil, err
	}

	if err := g.AddFiles(files); err != nil {
		return nil, err
	}

	message := opts.Message
	if message == "" {
		message = fmt.Sprintf("Update %d sealed secret file(s)", len(files))
	}
	if err := g.Commit(message, user, ""); err != nil {
		return nil, err
	}

	branch, err := g.CurrentBranch()
	if err != nil {
		return nil, err
	}
	result := &Result{RepoPath: repoPath, Branch: branch, Files: len(files)}

	if opts.Push {
		remote := opts.Remote
		if remote == "" {
			remote = "origin"
		}
		if err := g.Push(remote); err != nil {
			return result, err
		}
		result.Pushed = true
	}

	return result, nil
}
