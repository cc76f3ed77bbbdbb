package storage

import (
	"context"
	"fmt"
	"io"

	"authform/internal/k8s"
)

// Backend names accepted by Open
const (
	BackendBolt   = "bolt"
	BackendKube   = "kube"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures a backend
type Options struct {
	Backend       string
	BoltPath      string
	KubeNamespace string
	KubeSecret    string
	Redis         RedisConfig
}

// Open builds the configured Storage. The returned closer releases it
func Open(ctx context.Context, opts Options) (Storage, io.Closer, error) {
	switch opts.Backend {
	case "", BackendBolt:
		s, err := OpenBolt(opts.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case BackendRedis:
		s, err := OpenRedis(ctx, opts.Redis)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case BackendKube:
		client, err := k8s.NewClient()
		if err != nil {
			return nil, nil, err
		}
		if err := client.EnsureNamespace(ctx, opts.KubeNamespace); err != nil {
			return nil, nil, err
		}
		return NewKubeSecretStore(client, opts.KubeNamespace, opts.KubeSecret), nopCloser{}, nil
	case BackendMemory:
		return NewMemoryStore(), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
