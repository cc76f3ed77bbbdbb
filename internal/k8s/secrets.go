package k8s

import (
	"context"
	"errors"
	"fmt"

	v1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

var (
	ErrSecretNotFound = errors.New("secret not found")
	ErrSecretExists   = errors.New("secret already exists")
)

// CreateSecret creates an Opaque secret holding data
func (c *Client) CreateSecret(ctx context.Context, namespace, name string, data map[string]string) error {
	secret := &v1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
			Labels: map[string]string{
				"app.kubernetes.io/managed-by": "authform",
			},
		},
		Data: toBytes(data),
		Type: v1.SecretTypeOpaque,
	}

	_, err := c.ClientSet.CoreV1().Secrets(namespace).Create(ctx, secret, metav1.CreateOptions{})
	if err != nil {
		if apierrors.IsAlreadyExists(err) {
			return fmt.Errorf("%w: %s/%s", ErrSecretExists, namespace, name)
		}
		return fmt.Errorf("failed to create secret: %w", err)
	}
	return nil
}

// GetSecret retrieves a secret's data as strings
func (c *Client) GetSecret(ctx context.Context, namespace, name string) (map[string]string, error) {
	secret, err := c.ClientSet.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrSecretNotFound, namespace, name)
		}
		return nil, fmt.Errorf("failed to get secret: %w", err)
	}

	result := make(map[string]string, len(secret.Data)+len(secret.StringData))
	for k, v := range secret.Data {
		result[k] = string(v)
	}
	// StringData only survives on fake clientsets; a real API server folds it into Data
	for k, v := range secret.StringData {
		result[k] = v
	}
	return result, nil
}

// UpdateSecret replaces the data of an existing secret
func (c *Client) UpdateSecret(ctx context.Context, namespace, name string, values map[string]string) error {
	secret, err := c.ClientSet.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return fmt.Errorf("%w: %s/%s", ErrSecretNotFound, namespace, name)
		}
		return fmt.Errorf("failed to get secret: %w", err)
	}

	secret.Data = toBytes(values)
	secret.StringData = nil

	_, err = c.ClientSet.CoreV1().Secrets(namespace).Update(ctx, secret, metav1.UpdateOptions{})
	if err != nil {
		return fmt.Errorf("failed to update secret: %w", err)
	}
	return nil
}

// DeleteSecret deletes a secret
func (c *Client) DeleteSecret(ctx context.Context, namespace, name string) error {
	err := c.ClientSet.CoreV1().Secrets(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return fmt.Errorf("%w: %s/%s", ErrSecretNotFound, namespace, name)
		}
		return fmt.Errorf("failed to delete secret: %w", err)
	}
	return nil
}

func toBytes(data map[string]string) map[string][]byte {
	out := make(map[string][]byte, len(data))
	for k, v := range data {
		out[k] = []byte(v)
	}
	return out
}
