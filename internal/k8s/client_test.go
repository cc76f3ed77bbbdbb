package k8s

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/rest"
)

// Testing the NewClient function with various scenarios
func TestNewClient(t *testing.T) {
	origInCluster := inClusterConfig
	origBuild := buildConfigFromFlags
	origNewForConfig := newForConfig
	defer func() {
		inClusterConfig = origInCluster
		buildConfigFromFlags = origBuild
		newForConfig = origNewForConfig
	}()

	mockConfig := &rest.Config{}

	tests := []struct {
		name          string
		inClusterErr  error
		buildErr      error
		newForErr     error
		expectError   bool
		expectMessage string
	}{
		{
			name:         "in-cluster config works",
			inClusterErr: nil,
			expectError:  false,
		},
		{
			name:          "in-cluster fails, fallback also fails",
			inClusterErr:  errors.New("no cluster"),
			buildErr:      errors.New("missing kubeconfig"),
			expectError:   true,
			expectMessage: "failed to load kubeconfig",
		},
		{
			name:         "in-cluster fails, fallback succeeds",
			inClusterErr: errors.New("no cluster"),
			expectError:  false,
		},
		{
			name:          "clientset creation fails",
			inClusterErr:  nil,
			newForErr:     errors.New("bad config"),
			expectError:   true,
			expectMessage: "bad config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inClusterConfig = func() (*rest.Config, error) {
				return mockConfig, tt.inClusterErr
			}
			buildConfigFromFlags = func(_, _ string) (*rest.Config, error) {
				if tt.buildErr != nil {
					return nil, tt.buildErr
				}
				return mockConfig, nil
			}
			newForConfig = func(_ *rest.Config) (*kubernetes.Clientset, error) {
				if tt.newForErr != nil {
					return nil, tt.newForErr
				}
				return nil, nil
			}

			client, err := NewClient()

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectMessage)
				assert.Nil(t, client)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, client)
			}
		})
	}
}

func TestKubeconfigPath(t *testing.T) {
	t.Setenv("KUBECONFIG", "/tmp/custom-kubeconfig")
	assert.Equal(t, "/tmp/custom-kubeconfig", kubeconfigPath())

	t.Setenv("KUBECONFIG", "")
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/.kube/config", kubeconfigPath())
}

func TestEnsureNamespace(t *testing.T) {
	ctx := context.Background()
	client := &Client{ClientSet: fake.NewSimpleClientset()}

	require.NoError(t, client.EnsureNamespace(ctx, "authform-users"))
	// second call hits AlreadyExists and is still a success
	require.NoError(t, client.EnsureNamespace(ctx, "authform-users"))

	ns, err := client.ClientSet.CoreV1().Namespaces().Get(ctx, "authform-users", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "authform-users", ns.Name)
}
