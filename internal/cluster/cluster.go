// Package cluster talks to the Kubernetes API to discover the
// sealed-secrets controller and the objects around it.
package cluster

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

const (
	// NameLabel selects sealed-secrets controller services.
	NameLabel    = "app.kubernetes.io/name"
	ControllerID = "sealed-secrets"

	// InstanceLabel marks deployments of older chart releases.
	InstanceLabel = "app.kubernetes.io/instance"

	// VersionLabel carries the controller version.
	VersionLabel = "app.kubernetes.io/version"
)

// ControllerInfo identifies the running sealed-secrets controller.
type ControllerInfo struct {
	Name      string
	Namespace string
	Version   string
}

// Client wraps a Kubernetes clientset bound to one kubeconfig context.
type Client struct {
	kube    kubernetes.Interface
	Context string
}

// NewClient wraps an existing clientset.
func NewClient(kube kubernetes.Interface, contextName string) *Client {
	return &Client{kube: kube, Context: contextName}
}

type candidate struct {
	name, namespace string
	labels          map[string]string
}

// Locate discovers the sealed-secrets controller. Services labelled
// app.kubernetes.io/name=sealed-secrets are preferred; deployments with an
// app.kubernetes.io/instance label and "sealed-secrets" in their name are
// the fallback. Metrics services are ignored. With several matches the
// first one wins.
func (c *Client) Locate(ctx context.Context) (ControllerInfo, error) {
	candidates, err := c.serviceCandidates(ctx)
	if err != nil {
		return ControllerInfo{}, err
	}
	if len(candidates) == 0 {
		log.Debug().Msg("no labelled controller service, looking for deployments")
		candidates, err = c.deploymentCandidates(ctx)
		if err != nil {
			return ControllerInfo{}, err
		}
	}
	if len(candidates) == 0 {
		return ControllerInfo{}, ErrControllerNotFound
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].namespace != candidates[j].namespace {
			return candidates[i].namespace < candidates[j].namespace
		}
		return candidates[i].name < candidates[j].name
	})

	chosen := candidates[0]
	if len(candidates) > 1 {
		var others []string
		for _, o := range candidates[1:] {
			others = append(others, o.namespace+"/"+o.name)
		}
		log.Warn().
			Str("chosen", chosen.namespace+"/"+chosen.name).
			Strs("ignored", others).
			Msg("found multiple sealed-secrets controllers")
	}

	info := ControllerInfo{
		Name:      chosen.name,
		Namespace: chosen.namespace,
		Version:   chosen.labels[VersionLabel],
	}
	log.Debug().Str("name", info.Name).Str("namespace", info.Namespace).Str("version", info.Version).Msg("located controller")
	return info, nil
}

func (c *Client) serviceCandidates(ctx context.Context) ([]candidate, error) {
	list, err := c.kube.CoreV1().Services(metav1.NamespaceAll).List(ctx, metav1.ListOptions{
		LabelSelector: NameLabel + "=" + ControllerID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing services: %v", ErrClusterConnection, err)
	}

	var out []candidate
	for _, svc := range list.Items {
		if strings.Contains(svc.Name, "metrics") {
			continue
		}
		out = append(out, candidate{name: svc.Name, namespace: svc.Namespace, labels: svc.Labels})
	}
	return out, nil
}

func (c *Client) deploymentCandidates(ctx context.Context) ([]candidate, error) {
	list, err := c.kube.AppsV1().Deployments(metav1.NamespaceAll).List(ctx, metav1.ListOptions{
		LabelSelector: InstanceLabel,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing deployments: %v", ErrClusterConnection, err)
	}

	var out []candidate
	for _, d := range list.Items {
		if !strings.Contains(d.Name, ControllerID) || strings.Contains(d.Name, "metrics") {
			continue
		}
		out = append(out, candidate{name: d.Name, namespace: d.Namespace, labels: d.Labels})
	}
	return out, nil
}

// Namespaces returns the names of all namespaces.
func (c *Client) Namespaces(ctx context.Context) ([]string, error) {
	list, err := c.kube.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: listing namespaces: %v", ErrClusterConnection, err)
	}

	names := make([]string, 0, len(list.Items))
	for _, ns := range list.Items {
		names = append(names, ns.Name)
	}
	sort.Strings(names)
	return names, nil
}

// LatestKeySecret returns the newest TLS secret holding a sealing key in
// namespace.
func (c *Client) LatestKeySecret(ctx context.Context, namespace string) (string, error) {
	list, err := c.kube.CoreV1().Secrets(namespace).List(ctx, metav1.ListOptions{
		FieldSelector: "type=" + string(corev1.SecretTypeTLS),
	})
	if err != nil {
		return "", fmt.Errorf("%w: listing secrets: %v", ErrClusterConnection, err)
	}

	var keys []corev1.Secret
	for _, s := range list.Items {
		if s.Type == corev1.SecretTypeTLS && strings.Contains(s.Name, ControllerID) {
			keys = append(keys, s)
		}
	}
	if len(keys) == 0 {
		return "", fmt.Errorf("%w in namespace %s", ErrKeyNotFound, namespace)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].CreationTimestamp.Before(&keys[j].CreationTimestamp)
	})
	return keys[len(keys)-1].Name, nil
}
