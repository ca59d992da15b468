package gitops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

const (
	defaultAuthorName  = "kubeseal-auto"
	defaultAuthorEmail = "kubeseal-auto@automated"
)

// GitOps commits generated manifests to the repository they live in
type GitOps struct {
	RepoPath string
	repo     *git.Repository
	auth     *http.BasicAuth
}

// New creates a GitOps instance for an existing repo
func New(repoPath string, user, token string) (*GitOps, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	g := &GitOps{
		RepoPath: repoPath,
		repo:     repo,
	}

	if user != "" && token != "" {
		g.auth = &http.BasicAuth{
			Username: user,
			Password: token,
		}
	}

	return g, nil
}

// FindRepoRoot walks up from startPath to the directory holding .git
func FindRepoRoot(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
		absPath = filepath.Dir(absPath)
	}

	for {
		if _, err := os.Stat(filepath.Join(absPath, ".git")); err == nil {
			return absPath, nil
		}

		parent := filepath.Dir(absPath)
		if parent == absPath {
			return "", fmt.Errorf("%s is not inside a git repository", startPath)
		}
		absPath = parent
	}
}

// AddFiles stages files for commit
func (g *GitOps) AddFiles(files []string) error {
	worktree, err := g.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	root, err := filepath.Abs(g.RepoPath)
	if err != nil {
		return err
	}

	for _, f := range files {
		absFile, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(root, absFile)
		if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
			return fmt.Errorf("file %s is outside repository %s", f, g.RepoPath)
		}

		if _, err := os.Stat(absFile); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", absFile)
		}

		// go-git expects slash-separated paths relative to the worktree
		if _, err := worktree.Add(filepath.ToSlash(relPath)); err != nil {
			return fmt.Errorf("staging %s: %w", relPath, err)
		}
	}

	return nil
}

// Commit creates a commit with the staged changes
func (g *GitOps) Commit(message, authorName, authorEmail string) error {
	worktree, err := g.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	if authorName == "" {
		authorName = defaultAuthorName
	}
	if authorEmail == "" {
		authorEmail = defaultAuthorEmail
	}

	_, err = worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	return nil
}

// Push pushes to remote
func (g *GitOps) Push(remote string) error {
	if g.auth == nil {
		return fmt.Errorf("git credentials required for push")
	}

	err := g.repo.Push(&git.PushOptions{
		RemoteName: remote,
		Auth:       g.auth,
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("pushing: %w", err)
	}

	return nil
}
