// Package config loads settings for both binaries from .env files, the environment and flags
// Flags win over the environment, which wins over built-in defaults
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"authform/internal/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	DefaultAPIBase      = "http://localhost:8080"
	DefaultTimeout      = 15 * time.Second
	DefaultServerAddr   = ":8080"
	DefaultTokenTTL     = 24 * time.Hour
	DefaultNamespace    = "authform-users"
	DefaultKubeNS       = "authform"
	DefaultKubeSecret   = "authform-credentials"
	DefaultLogLevel     = "info"
	DefaultEnvironment  = "development"
	redactedPlaceholder = "***REDACTED***"
)

var ErrMissingSecretKey = errors.New("SECRET_KEY environment variable is required")

// LoadDotEnv loads the given files (".env" when none) into the environment
// Missing files are skipped; variables already set are kept
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// GetEnvOrDefault returns the variable, or defaultValue when it is unset or empty
func GetEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetDurationOrDefault parses the variable as a time.Duration
func GetDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}

// GetIntOrDefault parses the variable as an int
func GetIntOrDefault(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

// SanitizeForLog copies fields, masking anything that looks like a credential
// and the userinfo of URL values
func SanitizeForLog(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if isSensitiveKey(k) {
			out[k] = redactedPlaceholder
			continue
		}
		if s, ok := v.(string); ok {
			v = redactURLs(s)
		}
		out[k] = v
	}
	return out
}

// redactURLs masks user:pass@ in a URL or a comma separated list of them (NATS server lists)
func redactURLs(s string) string {
	if !strings.Contains(s, "@") {
		return s
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		u, err := url.Parse(strings.TrimSpace(p))
		if err != nil || u.User == nil {
			continue
		}
		u.User = url.User("REDACTED")
		parts[i] = u.String()
	}
	return strings.Join(parts, ",")
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, kw := range []string{"password", "secret", "token", "key", "auth", "credential", "private"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Client configures cmd/authform
type Client struct {
	APIBase       string
	Timeout       time.Duration
	Store         string
	BoltPath      string
	KubeNamespace string
	KubeSecret    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	NATSURL       string
	NoColor       bool
	LogLevel      string
	Environment   string
}

// BindClient registers the client flags on fs, defaulted from the environment
func BindClient(fs *pflag.FlagSet) *Client {
	c := &Client{}
	fs.StringVar(&c.APIBase, "api", GetEnvOrDefault("AUTHFORM_API_BASE", DefaultAPIBase), "authentication API base URL")
	fs.DurationVar(&c.Timeout, "timeout", GetDurationOrDefault("AUTHFORM_TIMEOUT", DefaultTimeout), "request timeout")
	fs.StringVar(&c.Store, "store", GetEnvOrDefault("AUTHFORM_STORE", storage.BackendBolt), "credential store: bolt, kube, redis or memory")
	fs.StringVar(&c.BoltPath, "bolt-path", GetEnvOrDefault("AUTHFORM_BOLT_PATH", defaultBoltPath()), "bolt store file")
	fs.StringVar(&c.KubeNamespace, "kube-namespace", GetEnvOrDefault("AUTHFORM_KUBE_NAMESPACE", DefaultKubeNS), "namespace of the credential secret")
	fs.StringVar(&c.KubeSecret, "kube-secret", GetEnvOrDefault("AUTHFORM_KUBE_SECRET", DefaultKubeSecret), "name of the credential secret")
	fs.StringVar(&c.RedisAddr, "redis-addr", GetEnvOrDefault("AUTHFORM_REDIS_ADDR", "localhost:6379"), "redis address")
	fs.IntVar(&c.RedisDB, "redis-db", GetIntOrDefault("AUTHFORM_REDIS_DB", 0), "redis database")
	fs.StringVar(&c.NATSURL, "nats-url", os.Getenv("AUTHFORM_NATS_URL"), "publish notifications to this NATS server")
	fs.BoolVar(&c.NoColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored output")
	fs.StringVar(&c.LogLevel, "log-level", GetEnvOrDefault("LOG_LEVEL", DefaultLogLevel), "log level")
	c.RedisPassword = os.Getenv("AUTHFORM_REDIS_PASSWORD")
	c.Environment = GetEnvOrDefault("APP_ENV", DefaultEnvironment)
	return c
}

// StorageOptions maps the client settings onto storage.Open
func (c *Client) StorageOptions() storage.Options {
	return storage.Options{
		Backend:       c.Store,
		BoltPath:      c.BoltPath,
		KubeNamespace: c.KubeNamespace,
		KubeSecret:    c.KubeSecret,
		Redis: storage.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		},
	}
}

// Fields is the loggable view of the settings
func (c *Client) Fields() map[string]any {
	return SanitizeForLog(map[string]any{
		"api_base":       c.APIBase,
		"timeout":        c.Timeout.String(),
		"store":          c.Store,
		"bolt_path":      c.BoltPath,
		"redis_addr":     c.RedisAddr,
		"redis_password": c.RedisPassword,
		"nats_url":       c.NATSURL,
		"environment":    c.Environment,
	})
}

func defaultBoltPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "authform", "store.db")
}

// Server configures cmd/authserver
type Server struct {
	Addr        string
	SecretKey   string
	TokenTTL    time.Duration
	Namespace   string
	LogLevel    string
	Environment string
}

// BindServer registers the server flags on fs, defaulted from the environment
func BindServer(fs *pflag.FlagSet) *Server {
	s := &Server{}
	fs.StringVar(&s.Addr, "addr", GetEnvOrDefault("AUTHSERVER_ADDR", DefaultServerAddr), "listen address")
	fs.DurationVar(&s.TokenTTL, "token-ttl", GetDurationOrDefault("AUTHSERVER_TOKEN_TTL", DefaultTokenTTL), "issued token lifetime")
	fs.StringVar(&s.Namespace, "namespace", GetEnvOrDefault("AUTHSERVER_NAMESPACE", DefaultNamespace), "namespace holding user accounts")
	fs.StringVar(&s.LogLevel, "log-level", GetEnvOrDefault("LOG_LEVEL", DefaultLogLevel), "log level")
	s.SecretKey = os.Getenv("SECRET_KEY")
	s.Environment = GetEnvOrDefault("APP_ENV", DefaultEnvironment)
	return s
}

func (s *Server) Validate() error {
	if s.SecretKey == "" {
		return ErrMissingSecretKey
	}
	if s.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %s", s.TokenTTL)
	}
	return nil
}

func (s *Server) Fields() map[string]any {
	return SanitizeForLog(map[string]any{
		"addr":        s.Addr,
		"secret_key":  s.SecretKey,
		"token_ttl":   s.TokenTTL.String(),
		"namespace":   s.Namespace,
		"environment": s.Environment,
	})
}
