package gitops

import (
	"fmt"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CreateBranch creates and checks out a new branch
func (g *GitOps) CreateBranch(name string) error {
	headRef, err := g.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	branchRef := plumbing.NewBranchReferenceName(name)
	if err := g.repo.Storer.SetReference(plumbing.NewHashReference(branchRef, headRef.Hash())); err != nil {
		return fmt.Errorf("creating branch: %w", err)
	}

	return g.checkout(branchRef)
}

// CheckoutBranch checks out an existing branch
func (g *GitOps) CheckoutBranch(name string) error {
	return g.checkout(plumbing.NewBranchReferenceName(name))
}

func (g *GitOps) checkout(ref plumbing.ReferenceName) error {
	worktree, err := g.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	// Keep leaves freshly sealed manifests in place
	if err := worktree.Checkout(&git.CheckoutOptions{Branch: ref, Keep: true}); err != nil {
		return fmt.Errorf("checking out branch: %w", err)
	}
	return nil
}

// CurrentBranch returns the name of the current branch
func (g *GitOps) CurrentBranch() (string, error) {
	head, err := g.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	return head.Name().Short(), nil
}
