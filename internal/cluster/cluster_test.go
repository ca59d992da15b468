package cluster

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func service(namespace, name string, labels map[string]string) *corev1.Service {
	return &corev1.Service{ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace, Labels: labels}}
}

func controllerLabels(version string) map[string]string {
	l := map[string]string{NameLabel: ControllerID}
	if version != "" {
		l[VersionLabel] = version
	}
	return l
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name    string
		objects []runtime.Object
		want    ControllerInfo
		wantErr error
	}{
		{
			name: "single service",
			objects: []runtime.Object{
				service("kube-system", "sealed-secrets-controller", controllerLabels("v0.24.5")),
			},
			want: ControllerInfo{Name: "sealed-secrets-controller", Namespace: "kube-system", Version: "v0.24.5"},
		},
		{
			name: "metrics service is ignored",
			objects: []runtime.Object{
				service("kube-system", "sealed-secrets-controller-metrics", controllerLabels("0.24.5")),
				service("kube-system", "sealed-secrets-controller", controllerLabels("0.24.5")),
			},
			want: ControllerInfo{Name: "sealed-secrets-controller", Namespace: "kube-system", Version: "0.24.5"},
		},
		{
			name: "missing version label",
			objects: []runtime.Object{
				service("sealed", "sealed-secrets", controllerLabels("")),
			},
			want: ControllerInfo{Name: "sealed-secrets", Namespace: "sealed"},
		},
		{
			name: "multiple controllers pick the first",
			objects: []runtime.Object{
				service("ops", "sealed-secrets", controllerLabels("0.25.0")),
				service("kube-system", "sealed-secrets-controller", controllerLabels("0.24.5")),
			},
			want: ControllerInfo{Name: "sealed-secrets-controller", Namespace: "kube-system", Version: "0.24.5"},
		},
		{
			name: "legacy deployment",
			objects: []runtime.Object{
				&appsv1.Deployment{ObjectMeta: metav1.ObjectMeta{
					Name: "sealed-secrets-controller", Namespace: "infra",
					Labels: map[string]string{InstanceLabel: "sealed-secrets", VersionLabel: "0.17.1"},
				}},
				&appsv1.Deployment{ObjectMeta: metav1.ObjectMeta{
					Name: "nginx", Namespace: "infra",
					Labels: map[string]string{InstanceLabel: "nginx"},
				}},
			},
			want: ControllerInfo{Name: "sealed-secrets-controller", Namespace: "infra", Version: "0.17.1"},
		},
		{
			name: "only metrics service",
			objects: []runtime.Object{
				service("kube-system", "sealed-secrets-metrics", controllerLabels("0.24.5")),
			},
			wantErr: ErrControllerNotFound,
		},
		{
			name: "unlabelled service",
			objects: []runtime.Object{
				service("kube-system", "sealed-secrets-controller", nil),
			},
			wantErr: ErrControllerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(fake.NewSimpleClientset(tt.objects...), "kind-dev")

			got, err := c.Locate(context.Background())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocate_APIFailure(t *testing.T) {
	cs := fake.NewSimpleClientset()
	cs.PrependReactor("list", "services", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("connection refused")
	})

	_, err := NewClient(cs, "kind-dev").Locate(context.Background())

	require.ErrorIs(t, err, ErrClusterConnection)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNamespaces(t *testing.T) {
	cs := fake.NewSimpleClientset(
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "kube-system"}},
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "apps"}},
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "default"}},
	)

	got, err := NewClient(cs, "kind-dev").Namespaces(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"apps", "default", "kube-system"}, got)
}

func keySecret(name string, created time.Time, typ corev1.SecretType) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:              name,
			Namespace:         "kube-system",
			CreationTimestamp: metav1.NewTime(created),
		},
		Type: typ,
	}
}

func TestLatestKeySecret(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("newest key wins", func(t *testing.T) {
		cs := fake.NewSimpleClientset(
			keySecret("sealed-secrets-keyold", base, corev1.SecretTypeTLS),
			keySecret("sealed-secrets-keynew", base.Add(48*time.Hour), corev1.SecretTypeTLS),
			keySecret("sealed-secrets-keymid", base.Add(24*time.Hour), corev1.SecretTypeTLS),
			keySecret("ingress-cert", base.Add(72*time.Hour), corev1.SecretTypeTLS),
			keySecret("sealed-secrets-opaque", base.Add(96*time.Hour), corev1.SecretTypeOpaque),
		)

		got, err := NewClient(cs, "kind-dev").LatestKeySecret(context.Background(), "kube-system")

		require.NoError(t, err)
		assert.Equal(t, "sealed-secrets-keynew", got)
	})

	t.Run("no key", func(t *testing.T) {
		cs := fake.NewSimpleClientset(keySecret("ingress-cert", base, corev1.SecretTypeTLS))

		_, err := NewClient(cs, "kind-dev").LatestKeySecret(context.Background(), "kube-system")

		require.ErrorIs(t, err, ErrKeyNotFound)
	})
}

const testKubeconfig = `apiVersion: v1
kind: Config
clusters:
- name: dev
  cluster:
    server: https://127.0.0.1:6443
- name: prod
  cluster:
    server: https://10.0.0.1:6443
contexts:
- name: prod
  context:
    cluster: prod
    user: admin
- name: dev
  context:
    cluster: dev
    user: admin
current-context: dev
users:
- name: admin
  user:
    token: abc
`

func writeKubeconfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadKubeconfig(t *testing.T) {
	kc, err := LoadKubeconfig(writeKubeconfig(t, testKubeconfig))

	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "prod"}, kc.Contexts)
	assert.Equal(t, "dev", kc.Current)
}

func TestConnect(t *testing.T) {
	path := writeKubeconfig(t, testKubeconfig)

	c, err := Connect(path, "")
	require.NoError(t, err)
	assert.Equal(t, "dev", c.Context)

	c, err = Connect(path, "prod")
	require.NoError(t, err)
	assert.Equal(t, "prod", c.Context)

	_, err = Connect(path, "staging")
	require.ErrorIs(t, err, ErrClusterConnection)
}
