package mocks

import (
	"context"
	"fmt"
	"sync"

	"authform/internal/k8s"
)

// MockK8sClient implements the handlers.K8sClient interface in memory
type MockK8sClient struct {
	mu sync.Mutex

	// call flags for assertions
	CreateSecretCalled bool
	GetSecretCalled    bool
	UpdateSecretCalled bool
	DeleteSecretCalled bool

	// forceable errors (set in tests)
	CreateErr error
	GetErr    error
	UpdateErr error
	DeleteErr error

	// Key - namespace/name
	Secrets map[string]ExampleSecret
}

type ExampleSecret struct {
	Namespace string
	Name      string
	Data      map[string]string
}

// "<namespace>/<name>"
func makeKey(namespace, name string) string {
	return fmt.Sprintf("%s/%s", namespace, name)
}

func NewMockK8sClient() *MockK8sClient {
	return &MockK8sClient{
		Secrets: make(map[string]ExampleSecret),
	}
}

func cloneMap(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// CreateSecret fails with k8s.ErrSecretExists when the key is taken, like the API server
func (m *MockK8sClient) CreateSecret(_ context.Context, namespace, name string, data map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateSecretCalled = true
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if m.Secrets == nil {
		m.Secrets = make(map[string]ExampleSecret)
	}

	key := makeKey(namespace, name)
	if _, ok := m.Secrets[key]; ok {
		return fmt.Errorf("%w: %s", k8s.ErrSecretExists, key)
	}
	m.Secrets[key] = ExampleSecret{
		Namespace: namespace,
		Name:      name,
		Data:      cloneMap(data),
	}
	return nil
}

// GetSecret returns a copy of the secret's data
func (m *MockK8sClient) GetSecret(_ context.Context, namespace, name string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetSecretCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}

	key := makeKey(namespace, name)
	sec, ok := m.Secrets[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", k8s.ErrSecretNotFound, key)
	}
	return cloneMap(sec.Data), nil
}

// UpdateSecret replaces the data of an existing secret
func (m *MockK8sClient) UpdateSecret(_ context.Context, namespace, name string, data map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateSecretCalled = true
	if m.UpdateErr != nil {
		return m.UpdateErr
	}

	key := makeKey(namespace, name)
	if _, ok := m.Secrets[key]; !ok {
		return fmt.Errorf("%w: %s", k8s.ErrSecretNotFound, key)
	}
	m.Secrets[key] = ExampleSecret{
		Namespace: namespace,
		Name:      name,
		Data:      cloneMap(data),
	}
	return nil
}

func (m *MockK8sClient) DeleteSecret(_ context.Context, namespace, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteSecretCalled = true
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	key := makeKey(namespace, name)
	if _, ok := m.Secrets[key]; !ok {
		return fmt.Errorf("%w: %s", k8s.ErrSecretNotFound, key)
	}
	delete(m.Secrets, key)
	return nil
}

// Count returns how many secrets are stored
func (m *MockK8sClient) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Secrets)
}
