package integration

import (
	"context"
	"testing"

	k8sclient "authform/internal/k8s"
	"authform/internal/models"
	"authform/internal/storage"

	"github.com/stretchr/testify/require"
	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Secret lifecycle through the k8s client against a real API server
func TestNamespaceAndSecretLifecycle(t *testing.T) {
	ctx := context.Background()

	c, err := k8sclient.NewClientWithConfig(cfg)
	require.NoError(t, err)

	ns := "authform-integ"
	secretName := "credentials"

	require.NoError(t, c.EnsureNamespace(ctx, ns), "EnsureNamespace should succeed")
	require.NoError(t, c.EnsureNamespace(ctx, ns), "EnsureNamespace must be idempotent")

	gotNs, err := clientset.CoreV1().Namespaces().Get(ctx, ns, metav1.GetOptions{})
	require.NoError(t, err)
	require.Equal(t, v1.NamespaceActive, gotNs.Status.Phase)

	creds := map[string]string{
		"username": "alice",
		"password": "supersecret",
	}
	require.NoError(t, c.CreateSecret(ctx, ns, secretName, creds))
	require.ErrorIs(t, c.CreateSecret(ctx, ns, secretName, creds), k8sclient.ErrSecretExists)

	got, err := c.GetSecret(ctx, ns, secretName)
	require.NoError(t, err)
	require.Equal(t, "alice", got["username"])
	require.Equal(t, "supersecret", got["password"])

	updated := map[string]string{
		"username": "alice",
		"password": "newpass",
		"extra":    "value",
	}
	require.NoError(t, c.UpdateSecret(ctx, ns, secretName, updated))

	got2, err := c.GetSecret(ctx, ns, secretName)
	require.NoError(t, err)
	require.Equal(t, "newpass", got2["password"])
	require.Equal(t, "value", got2["extra"])

	raw, err := clientset.CoreV1().Secrets(ns).Get(ctx, secretName, metav1.GetOptions{})
	require.NoError(t, err)
	require.Equal(t, "authform", raw.Labels["app.kubernetes.io/managed-by"])

	require.NoError(t, c.DeleteSecret(ctx, ns, secretName))

	_, err = c.GetSecret(ctx, ns, secretName)
	require.ErrorIs(t, err, k8sclient.ErrSecretNotFound)
}

// The client credential store keeps the signed-in user in one secret
func TestKubeSecretStore(t *testing.T) {
	ctx := context.Background()

	c, err := k8sclient.NewClientWithConfig(cfg)
	require.NoError(t, err)
	ns := "authform-store-integ"
	require.NoError(t, c.EnsureNamespace(ctx, ns))

	store := storage.NewKubeSecretStore(c, ns, "")

	_, err = storage.LoadCredentials(ctx, store)
	require.ErrorIs(t, err, storage.ErrNotFound)

	want := models.Credentials{Username: "alice", Email: "alice@example.com", Token: "t-1"}
	require.NoError(t, storage.SaveCredentials(ctx, store, want))

	// overwrite, not merge
	want.Token = "t-2"
	require.NoError(t, storage.SaveCredentials(ctx, store, want))

	got, err := storage.LoadCredentials(ctx, store)
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.NoError(t, store.Delete(ctx, storage.CredentialsKey))
	_, err = storage.LoadCredentials(ctx, store)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
