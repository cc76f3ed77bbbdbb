package handlers

import "context"

// K8sClient defines the secret operations the account store needs so it can be mocked in tests
// *k8s.Client implements it
type K8sClient interface {
	CreateSecret(ctx context.Context, namespace, name string, data map[string]string) error
	GetSecret(ctx context.Context, namespace, name string) (map[string]string, error)
	UpdateSecret(ctx context.Context, namespace, name string, data map[string]string) error
	DeleteSecret(ctx context.Context, namespace, name string) error
}
