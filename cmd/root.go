package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/stuttgart-things/kubeseal-auto/internal/cluster"
	"github.com/stuttgart-things/kubeseal-auto/internal/config"
	"github.com/stuttgart-things/kubeseal-auto/internal/logging"
)

var (
	flagDebug     bool
	flagSelect    bool
	flagFetch     bool
	flagCert      string
	flagEdit      string
	flagReencrypt string
	flagBackup    bool

	// Non-interactive secret input
	flagName        string
	flagNamespace   string
	flagType        string
	flagLiterals    []string
	flagFiles       []string
	flagTLSKey      string
	flagTLSCert     string
	flagDockerSrv   string
	flagDockerUser  string
	flagParamsFile  string
	flagKustomize   string
	flagInteractive bool
	flagNonInteract bool

	// Git flags
	flagGitCommit       bool
	flagGitPush         bool
	flagGitBranch       string
	flagGitCreateBranch bool
	flagGitMessage      string
	flagGitRemote       string
	flagGitUser         string
	flagGitToken        string
)

var rootCmd = &cobra.Command{
	Use:   "kubeseal-auto",
	Short: "Automate the process of sealing secrets for Kubernetes",
	Long: `kubeseal-auto creates, edits, re-encrypts and backs up SealedSecrets.
It finds the sealed-secrets controller in the current kubeconfig context,
downloads a matching kubeseal binary and drives kubectl and kubeseal for you.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runRoot,
}

func init() {
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "print debug information")
	rootCmd.Flags().BoolVar(&flagSelect, "select", false, "prompt for context select")
	rootCmd.Flags().BoolVar(&flagFetch, "fetch", false, "download kubeseal encryption cert")
	rootCmd.Flags().StringVarP(&flagCert, "cert", "c", "", "certificate to seal secret with")
	rootCmd.Flags().StringVarP(&flagEdit, "edit", "e", "", "SealedSecrets file to edit")
	rootCmd.Flags().StringVar(&flagReencrypt, "re-encrypt", "", "path to directory with sealed secrets")
	rootCmd.Flags().BoolVar(&flagBackup, "backup", false, "backups controllers encryption secret")

	rootCmd.Flags().StringVar(&flagName, "name", "", "secret name (non-interactive)")
	rootCmd.Flags().StringVarP(&flagNamespace, "namespace", "n", "", "secret namespace (non-interactive)")
	rootCmd.Flags().StringVarP(&flagType, "type", "t", "", "secret type: generic, tls or docker-registry (non-interactive)")
	rootCmd.Flags().StringSliceVar(&flagLiterals, "from-literal", nil, "key=value entry (repeatable)")
	rootCmd.Flags().StringSliceVar(&flagFiles, "from-file", nil, "file entry (repeatable)")
	rootCmd.Flags().StringVar(&flagTLSKey, "tls-key", "", "TLS private key file (default tls.key in the working directory)")
	rootCmd.Flags().StringVar(&flagTLSCert, "tls-cert", "", "TLS certificate file (default tls.crt in the working directory)")
	rootCmd.Flags().StringVar(&flagDockerSrv, "docker-server", "", "docker registry server")
	rootCmd.Flags().StringVar(&flagDockerUser, "docker-username", "", "docker registry username (password from $KUBESEAL_AUTO_DOCKER_PASSWORD)")
	rootCmd.Flags().StringVarP(&flagParamsFile, "params-file", "f", "", "YAML/JSON file describing the secret")
	rootCmd.Flags().StringVar(&flagKustomize, "kustomization", "", "kustomization.yaml to register new sealed secrets in")
	rootCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "force interactive mode")
	rootCmd.Flags().BoolVar(&flagNonInteract, "non-interactive", false, "force non-interactive mode")

	rootCmd.Flags().BoolVar(&flagGitCommit, "git-commit", false, "commit produced files to their git repository")
	rootCmd.Flags().BoolVar(&flagGitPush, "git-push", false, "commit and push produced files")
	rootCmd.Flags().StringVar(&flagGitBranch, "git-branch", "", "branch to use/create")
	rootCmd.Flags().BoolVar(&flagGitCreateBranch, "git-create-branch", false, "create the branch if it doesn't exist")
	rootCmd.Flags().StringVar(&flagGitMessage, "git-message", "", "commit message (default: auto-generated)")
	rootCmd.Flags().StringVar(&flagGitRemote, "git-remote", "origin", "git remote name")
	rootCmd.Flags().StringVar(&flagGitUser, "git-user", "", "git username (or GIT_USER/GITHUB_USER env)")
	rootCmd.Flags().StringVar(&flagGitToken, "git-token", "", "git token (or GIT_TOKEN/GITHUB_TOKEN env)")

	rootCmd.MarkFlagsMutuallyExclusive("cert", "fetch")
	rootCmd.MarkFlagsMutuallyExclusive("cert", "backup")
	rootCmd.MarkFlagsMutuallyExclusive("cert", "re-encrypt")
	rootCmd.MarkFlagsMutuallyExclusive("interactive", "non-interactive")
}

// Execute runs the root command. Interrupts cancel the run context so
// deferred cleanup still happens before the process exits.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(formatError(err)))
		os.Exit(1)
	}
}

func formatError(err error) string {
	switch {
	case errors.Is(err, huh.ErrUserAborted), errors.Is(err, context.Canceled):
		return "Aborted."
	case errors.Is(err, cluster.ErrClusterConnection):
		return "Cluster connection failed: " + strings.TrimPrefix(err.Error(), cluster.ErrClusterConnection.Error()+": ")
	default:
		return err.Error()
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(os.Stderr, cfg.LogLevel, flagDebug)

	run := &RunConfig{
		Action:      selectAction(),
		Cert:        flagCert,
		SelectCtx:   flagSelect,
		EditFile:    flagEdit,
		ReencryptTo: flagReencrypt,
		Kustomize:   flagKustomize,
		Interactive: resolveInteractive(flagInteractive, flagNonInteract, isTerminal()),
		Input: InputConfig{
			Name:       flagName,
			Namespace:  flagNamespace,
			Type:       flagType,
			Literals:   flagLiterals,
			Files:      flagFiles,
			TLSKey:     flagTLSKey,
			TLSCert:    flagTLSCert,
			DockerSrv:  flagDockerSrv,
			DockerUser: flagDockerUser,
			DockerPass: cfg.DockerPassword,
			ParamsFile: flagParamsFile,
		},
		Git: gitOptions(),
	}

	if run.Interactive {
		fmt.Println(logo)
	}

	s, err := newSession(cmd.Context(), cfg, run)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.dispatch(cmd.Context())
}

func selectAction() Action {
	switch {
	case flagFetch:
		return ActionFetch
	case flagBackup:
		return ActionBackup
	case flagReencrypt != "":
		return ActionReencrypt
	case flagEdit != "":
		return ActionEdit
	default:
		return ActionCreate
	}
}

func resolveInteractive(force, forceOff, tty bool) bool {
	switch {
	case forceOff:
		return false
	case force:
		return true
	default:
		return tty
	}
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}
