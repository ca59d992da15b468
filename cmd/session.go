package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/stuttgart-things/kubeseal-auto/internal/cluster"
	"github.com/stuttgart-things/kubeseal-auto/internal/config"
	"github.com/stuttgart-things/kubeseal-auto/internal/kubectl"
	"github.com/stuttgart-things/kubeseal-auto/internal/kubeseal"
	"github.com/stuttgart-things/kubeseal-auto/internal/release"
	"github.com/stuttgart-things/kubeseal-auto/internal/runner"
)

// session is the state shared by every action of one invocation.
type session struct {
	cfg     *config.Config
	run     *RunConfig
	runner  runner.Runner
	kubectl *kubectl.Client

	// Connected mode only.
	cluster    *cluster.Client
	controller cluster.ControllerInfo

	sealer  *kubeseal.Sealer
	staging string
}

func newSession(ctx context.Context, cfg *config.Config, run *RunConfig) (*session, error) {
	r := &runner.ExecRunner{}
	s := &session{
		cfg:     cfg,
		run:     run,
		runner:  r,
		kubectl: kubectl.New(cfg.KubectlBin, r),
	}

	if run.Detached() {
		if err := s.detach(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) detach() error {
	info, err := os.Stat(s.run.Cert)
	if err != nil {
		return fmt.Errorf("certificate %s: %w", s.run.Cert, err)
	}
	if info.IsDir() {
		return fmt.Errorf("certificate %s is a directory", s.run.Cert)
	}

	bin, err := exec.LookPath("kubeseal")
	if err != nil {
		return fmt.Errorf("%w: detached mode needs kubeseal on PATH", release.ErrBinaryNotFound)
	}
	log.Debug().Str("cert", s.run.Cert).Str("binary", bin).Msg("detached mode")

	s.sealer = kubeseal.NewSealer(kubeseal.Detached(bin, s.run.Cert), s.runner)
	return nil
}

func (s *session) connect(ctx context.Context) error {
	contextName := ""
	if s.run.SelectCtx {
		kc, err := cluster.LoadKubeconfig(s.cfg.Kubeconfig)
		if err != nil {
			return err
		}
		if !s.run.Interactive {
			return fmt.Errorf("--select needs interactive mode")
		}
		contextName, err = selectContext(ctx, kc)
		if err != nil {
			return err
		}
	}

	client, err := cluster.Connect(s.cfg.Kubeconfig, contextName)
	if err != nil {
		return err
	}
	s.cluster = client

	if !s.run.Action.needsBinary() {
		s.controller, err = client.Locate(ctx)
		return err
	}

	binDir, err := s.cfg.BinaryDir()
	if err != nil {
		return err
	}
	resolver := release.NewResolver(binDir, release.NewClient(s.cfg.ReleaseURL, s.cfg.DownloadTimeout))

	p := newProgress(s.run.Interactive, "Locating sealed-secrets controller")
	conn, err := kubeseal.Connect(ctx, client, resolver, client.Context, s.runner)
	if err != nil {
		p.Stop("")
		return err
	}
	p.Stop(fmt.Sprintf("Controller %s/%s (version %s) in context %s",
		conn.Controller.Namespace, conn.Controller.Name, versionOrUnknown(conn.Controller.Version), client.Context))

	s.controller = conn.Controller
	s.sealer = conn.Sealer
	return nil
}

func versionOrUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

// contextName is the kubeconfig context in use, empty when detached.
func (s *session) contextName() string {
	if s.cluster == nil {
		return ""
	}
	return s.cluster.Context
}

// stagingFile returns the per-invocation scratch file for plain secrets,
// creating it on first use.
func (s *session) stagingFile() (string, error) {
	if s.staging != "" {
		return s.staging, nil
	}
	f, err := os.CreateTemp("", "kubeseal-auto-*.yaml")
	if err != nil {
		return "", fmt.Errorf("creating staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	s.staging = f.Name()
	return s.staging, nil
}

// Close removes the staging file.
func (s *session) Close() {
	if s.staging == "" {
		return
	}
	if err := os.Remove(s.staging); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("file", s.staging).Msg("could not remove staging file")
	}
	s.staging = ""
}

func (s *session) dispatch(ctx context.Context) error {
	log.Debug().Str("action", s.run.Action.String()).Bool("interactive", s.run.Interactive).Msg("dispatching")

	var (
		files []string
		err   error
	)
	switch s.run.Action {
	case ActionFetch:
		files, err = s.fetchCert(ctx)
	case ActionBackup:
		return s.backup(ctx)
	case ActionReencrypt:
		files, err = s.reencrypt(ctx)
	case ActionEdit:
		files, err = s.edit(ctx)
	default:
		files, err = s.create(ctx)
	}
	if err != nil {
		return err
	}
	return publish(s.run.Git, files)
}

func selectContext(ctx context.Context, kc *cluster.Kubeconfig) (string, error) {
	selected := kc.Current
	options := make([]huh.Option[string], 0, len(kc.Contexts))
	for _, c := range kc.Contexts {
		options = append(options, huh.NewOption(c, c))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select context").
				Options(options...).
				Filtering(true).
				Value(&selected),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		return "", err
	}
	return selected, nil
}
