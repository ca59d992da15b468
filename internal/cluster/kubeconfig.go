package cluster

import (
	"fmt"
	"sort"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// Kubeconfig lists the contexts available to the user.
type Kubeconfig struct {
	Contexts []string
	Current  string
}

func loadingRules(path string) *clientcmd.ClientConfigLoadingRules {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if path != "" {
		rules.ExplicitPath = path
	}
	return rules
}

// LoadKubeconfig reads the merged kubeconfig. An empty path uses the
// KUBECONFIG environment variable or ~/.kube/config.
func LoadKubeconfig(path string) (*Kubeconfig, error) {
	raw, err := loadingRules(path).Load()
	if err != nil {
		return nil, fmt.Errorf("%w: loading kubeconfig: %v", ErrClusterConnection, err)
	}

	kc := &Kubeconfig{Current: raw.CurrentContext}
	for name := range raw.Contexts {
		kc.Contexts = append(kc.Contexts, name)
	}
	sort.Strings(kc.Contexts)

	if len(kc.Contexts) == 0 {
		return nil, fmt.Errorf("%w: kubeconfig has no contexts", ErrClusterConnection)
	}
	return kc, nil
}

// Connect builds a client for contextName, or for the current context when
// contextName is empty.
func Connect(kubeconfig, contextName string) (*Client, error) {
	cc := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules(kubeconfig),
		&clientcmd.ConfigOverrides{CurrentContext: contextName},
	)

	raw, err := cc.RawConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: loading kubeconfig: %v", ErrClusterConnection, err)
	}
	if contextName == "" {
		contextName = raw.CurrentContext
	}
	if contextName == "" {
		return nil, fmt.Errorf("%w: no current context set", ErrClusterConnection)
	}
	if _, ok := raw.Contexts[contextName]; !ok {
		return nil, fmt.Errorf("%w: context %q not found in kubeconfig", ErrClusterConnection, contextName)
	}

	restConfig, err := cc.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClusterConnection, err)
	}
	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClusterConnection, err)
	}

	return NewClient(clientset, contextName), nil
}
