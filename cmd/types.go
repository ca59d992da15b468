package cmd

import "github.com/stuttgart-things/kubeseal-auto/internal/gitops"

// Action is the single operation a run performs.
type Action int

const (
	ActionCreate Action = iota
	ActionEdit
	ActionReencrypt
	ActionFetch
	ActionBackup
)

func (a Action) String() string {
	switch a {
	case ActionEdit:
		return "edit"
	case ActionReencrypt:
		return "re-encrypt"
	case ActionFetch:
		return "fetch"
	case ActionBackup:
		return "backup"
	default:
		return "create"
	}
}

// needsBinary reports whether the action runs kubeseal.
func (a Action) needsBinary() bool {
	return a != ActionBackup
}

// InputConfig holds the secret inputs given on the command line.
type InputConfig struct {
	Name       string
	Namespace  string
	Type       string
	Literals   []string
	Files      []string
	TLSKey     string
	TLSCert    string
	DockerSrv  string
	DockerUser string
	DockerPass string
	ParamsFile string
}

// RunConfig holds configuration for a single invocation.
type RunConfig struct {
	Action      Action
	Cert        string
	SelectCtx   bool
	EditFile    string
	ReencryptTo string
	Kustomize   string
	Interactive bool
	Input       InputConfig
	Git         gitops.Options
}

// Detached reports whether sealing uses a local certificate instead of a
// cluster.
func (c *RunConfig) Detached() bool {
	return c.Cert != ""
}
