package storage

import (
	"context"
	"errors"
	"fmt"

	"authform/internal/k8s"
)

// KubeSecretStore keeps every key as one data entry of a single Kubernetes Secret
type KubeSecretStore struct {
	client    k8s.SecretClient
	namespace string
	name      string
}

func NewKubeSecretStore(client k8s.SecretClient, namespace, name string) *KubeSecretStore {
	if name == "" {
		name = "authform-credentials"
	}
	return &KubeSecretStore{client: client, namespace: namespace, name: name}
}

func (s *KubeSecretStore) Get(ctx context.Context, key string) (string, error) {
	data, err := s.client.GetSecret(ctx, s.namespace, s.name)
	if errors.Is(err, k8s.ErrSecretNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	v, ok := data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *KubeSecretStore) Set(ctx context.Context, key, value string) error {
	data, err := s.client.GetSecret(ctx, s.namespace, s.name)
	if errors.Is(err, k8s.ErrSecretNotFound) {
		return s.client.CreateSecret(ctx, s.namespace, s.name, map[string]string{key: value})
	}
	if err != nil {
		return err
	}
	data[key] = value
	return s.client.UpdateSecret(ctx, s.namespace, s.name, data)
}

func (s *KubeSecretStore) Delete(ctx context.Context, key string) error {
	data, err := s.client.GetSecret(ctx, s.namespace, s.name)
	if errors.Is(err, k8s.ErrSecretNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	if len(data) == 0 {
		if err := s.client.DeleteSecret(ctx, s.namespace, s.name); err != nil && !errors.Is(err, k8s.ErrSecretNotFound) {
			return fmt.Errorf("delete credentials secret: %w", err)
		}
		return nil
	}
	return s.client.UpdateSecret(ctx, s.namespace, s.name, data)
}
