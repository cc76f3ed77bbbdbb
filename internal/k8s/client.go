package k8s

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// Package-level so tests can swap them
var (
	inClusterConfig      = rest.InClusterConfig
	buildConfigFromFlags = clientcmd.BuildConfigFromFlags
	newForConfig         = kubernetes.NewForConfig
)

// SecretClient is the subset of Client used by the credential store and the account store
type SecretClient interface {
	CreateSecret(ctx context.Context, namespace, name string, data map[string]string) error
	GetSecret(ctx context.Context, namespace, name string) (map[string]string, error)
	UpdateSecret(ctx context.Context, namespace, name string, data map[string]string) error
	DeleteSecret(ctx context.Context, namespace, name string) error
}

type Client struct {
	ClientSet kubernetes.Interface
}

// NewClient tries the in-cluster config first, then $KUBECONFIG, then ~/.kube/config
func NewClient() (*Client, error) {
	config, err := inClusterConfig()
	if err != nil {
		config, err = buildConfigFromFlags("", kubeconfigPath())
		if err != nil {
			return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
		}
	}

	clientset, err := newForConfig(config)
	if err != nil {
		return nil, err
	}

	return &Client{ClientSet: clientset}, nil
}

// NewClientWithConfig uses an explicit rest config (envtest, e2e)
func NewClientWithConfig(config *rest.Config) (*Client, error) {
	clientset, err := newForConfig(config)
	if err != nil {
		return nil, err
	}
	return &Client{ClientSet: clientset}, nil
}

func kubeconfigPath() string {
	if v := os.Getenv("KUBECONFIG"); v != "" {
		return v
	}
	return filepath.Join(os.Getenv("HOME"), ".kube", "config")
}

// EnsureNamespace creates the namespace if needed and waits for it to become Active
func (c *Client) EnsureNamespace(ctx context.Context, name string) error {
	ns := &v1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
		},
	}

	_, err := c.ClientSet.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if err != nil {
		if apierrors.IsAlreadyExists(err) {
			return nil
		}
		return fmt.Errorf("failed to create namespace %q: %w", name, err)
	}

	timeout := 10 * time.Second
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		got, err := c.ClientSet.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
		// fake clientsets never set a phase
		if err == nil && (got.Status.Phase == v1.NamespaceActive || got.Status.Phase == "") {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}

	return fmt.Errorf("namespace %q did not become Active within %s", name, timeout)
}
