package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/stockdesk/console/config"
	"github.com/stockdesk/console/internal/adapters/filestore"
	"github.com/stockdesk/console/internal/adapters/memstore"
	redisadapter "github.com/stockdesk/console/internal/adapters/redis"
	"github.com/stockdesk/console/internal/core"
	"github.com/stockdesk/console/internal/ports"
)

// StorageDeps contains what BuildScopedCache needs.
type StorageDeps struct {
	Storage config.StorageConfig
	// RedisClient is required when a scope uses the redis backend.
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildScopedCache wires the configured mediums behind the session and persistent scopes.
func BuildScopedCache(deps StorageDeps) (*core.ScopedCache, error) {
	session, err := buildMedium(deps, deps.Storage.SessionBackend)
	if err != nil {
		return nil, fmt.Errorf("session scope: %w", err)
	}
	persistent, err := buildMedium(deps, deps.Storage.PersistentBackend)
	if err != nil {
		return nil, fmt.Errorf("persistent scope: %w", err)
	}

	if deps.Logger != nil {
		deps.Logger.Debug("scoped cache configured",
			"session_backend", deps.Storage.SessionBackend,
			"persistent_backend", deps.Storage.PersistentBackend,
		)
	}

	return core.NewScopedCache(core.ScopedCacheOptions{
		Session:    session,
		Persistent: persistent,
		Logger:     deps.Logger,
	}), nil
}

// buildMedium returns a nil interface for StorageBackendNone so the scope reports unavailable.
//
//nolint:ireturn // the medium implementation is selected at runtime.
func buildMedium(deps StorageDeps, backend config.StorageBackend) (ports.StorageMedium, error) {
	switch backend {
	case config.StorageBackendMemory:
		return memstore.New(), nil
	case config.StorageBackendFile:
		m, err := filestore.New(deps.Storage.FilePath, deps.Logger)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.StorageBackendRedis:
		if deps.RedisClient == nil {
			return nil, errors.New("redis backend selected but no redis client configured")
		}
		prefix := deps.Storage.RedisPrefix
		if prefix == "" {
			prefix = redisadapter.DefaultPrefix
		}
		return redisadapter.NewMediumWithPrefix(deps.RedisClient, prefix), nil
	case config.StorageBackendNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
