package config

import (
	"fmt"
	"strings"
)

// StorageBackend selects the medium behind a cache scope.
type StorageBackend string

const (
	// StorageBackendFile keeps entries in a JSON file under the user's home.
	StorageBackendFile StorageBackend = "file"
	// StorageBackendRedis keeps entries in Redis.
	StorageBackendRedis StorageBackend = "redis"
	// StorageBackendMemory keeps entries for the lifetime of the process.
	StorageBackendMemory StorageBackend = "memory"
	// StorageBackendNone leaves the scope unavailable.
	StorageBackendNone StorageBackend = "none"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageBackend.
func (b *StorageBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "file", "redis", "memory", "none":
		*b = StorageBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageBackend: %q (valid options: file, redis, memory, none)", v)
	}
}

// StorageConfig selects the mediums behind the session and persistent cache scopes.
type StorageConfig struct {
	// PersistentBackend backs the persistent scope (token, preferences).
	PersistentBackend StorageBackend `env:"STORAGE_PERSISTENT_BACKEND" envDefault:"file"`

	// SessionBackend backs the session scope. Only memory and none are meaningful.
	SessionBackend StorageBackend `env:"STORAGE_SESSION_BACKEND" envDefault:"memory"`

	// FilePath overrides the default ~/.stockdesk/storage.json.
	FilePath string `env:"STORAGE_FILE_PATH"`

	// RedisPrefix namespaces persistent keys in Redis.
	RedisPrefix string `env:"STORAGE_REDIS_PREFIX" envDefault:"stockdesk:local:"`
}

// Sanitize applies guardrails to storage configuration values.
func (s *StorageConfig) Sanitize() {
	s.FilePath = strings.TrimSpace(s.FilePath)
	if s.SessionBackend == StorageBackendFile || s.SessionBackend == StorageBackendRedis {
		s.SessionBackend = StorageBackendMemory
	}
	if s.PersistentBackend == "" {
		s.PersistentBackend = StorageBackendFile
	}
	if s.SessionBackend == "" {
		s.SessionBackend = StorageBackendMemory
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
