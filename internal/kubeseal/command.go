package kubeseal

import (
	"github.com/stuttgart-things/kubeseal-auto/internal/cluster"
)

// Command holds the fixed part of every kubeseal invocation. It is either
// detached (sealing against a local certificate) or connected (talking to
// the controller through a kubeconfig context).
type Command struct {
	Binary string

	Cert string

	Context             string
	ControllerNamespace string
	ControllerName      string
}

// Detached seals against the public certificate at cert.
func Detached(binary, cert string) Command {
	return Command{Binary: binary, Cert: cert}
}

// Connected seals through the controller found in contextName.
func Connected(binary, contextName string, controller cluster.ControllerInfo) Command {
	return Command{
		Binary:              binary,
		Context:             contextName,
		ControllerNamespace: controller.Namespace,
		ControllerName:      controller.Name,
	}
}

// IsDetached reports whether the command works from a certificate only.
func (c Command) IsDetached() bool {
	return c.Cert != ""
}

// Args returns the base arguments followed by extra.
func (c Command) Args(extra ...string) []string {
	args := []string{"--format=yaml"}
	if c.IsDetached() {
		args = append(args, "--cert="+c.Cert)
	} else {
		args = append(args,
			"--context="+c.Context,
			"--controller-namespace="+c.ControllerNamespace,
			"--controller-name="+c.ControllerName,
		)
	}
	return append(args, extra...)
}
