package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/stuttgart-things/kubeseal-auto/internal/kubectl"
	"github.com/stuttgart-things/kubeseal-auto/internal/params"
)

// loadRequest reads the params file, if any, and lays the command line
// values over it.
func loadRequest(in InputConfig) (*params.Request, error) {
	req := &params.Request{}
	if in.ParamsFile != "" {
		var err error
		req, err = params.ParseFile(in.ParamsFile)
		if err != nil {
			return nil, err
		}
	}

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&req.Name, in.Name)
	override(&req.Namespace, in.Namespace)
	override(&req.Type, in.Type)
	override(&req.TLS.Key, in.TLSKey)
	override(&req.TLS.Cert, in.TLSCert)
	override(&req.Docker.Server, in.DockerSrv)
	override(&req.Docker.Username, in.DockerUser)
	req.Files = append(req.Files, in.Files...)

	if req.Type == "" {
		req.Type = string(params.Generic)
	}
	return req, nil
}

// resolveRequest builds everything Create needs without prompting. TLS
// files default to tls.key and tls.crt in dir.
func resolveRequest(in InputConfig, dir string) (params.SecretParams, kubectl.Input, error) {
	req, err := loadRequest(in)
	if err != nil {
		return params.SecretParams{}, kubectl.Input{}, err
	}

	t, err := params.ParseSecretType(req.Type)
	if err != nil {
		return params.SecretParams{}, kubectl.Input{}, err
	}
	p := params.SecretParams{Name: req.Name, Namespace: req.Namespace, Type: t}
	if err := p.Validate(); err != nil {
		return p, kubectl.Input{}, err
	}

	var input kubectl.Input
	switch t {
	case params.TLS:
		input.TLS = kubectl.DefaultTLSPair(dir)
		if req.TLS.Key != "" {
			input.TLS.Key = req.TLS.Key
		}
		if req.TLS.Cert != "" {
			input.TLS.Cert = req.TLS.Cert
		}
		err = input.TLS.Check()
	case params.DockerRegistry:
		input.Docker = params.DockerCredentials{
			Server:   req.Docker.Server,
			Username: req.Docker.Username,
			Password: in.DockerPass,
		}
		err = input.Docker.Validate()
	default:
		input.Entries, err = requestEntries(req, in.Literals)
	}
	return p, input, err
}

// requestEntries merges file and inline literals with the file entries.
func requestEntries(req *params.Request, inline []string) ([]string, error) {
	literals, err := params.MergeLiterals(req.Literals, inline)
	if err != nil {
		return nil, err
	}
	entries, err := params.Entries(literals, req.Files)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entries given (use --from-literal, --from-file or --params-file)")
	}
	return entries, nil
}

func tlsPair(in InputConfig, dir string) kubectl.TLSPair {
	pair := kubectl.DefaultTLSPair(dir)
	if in.TLSKey != "" {
		pair.Key = filepath.Clean(in.TLSKey)
	}
	if in.TLSCert != "" {
		pair.Cert = filepath.Clean(in.TLSCert)
	}
	return pair
}
