// Package redis provides Redis-based adapters for the stockdesk console client.
package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/stockdesk/console/internal/errors"
	"github.com/stockdesk/console/internal/ports"
)

// DefaultPrefix namespaces persistent-scope keys.
const DefaultPrefix = "stockdesk:local:"

// Medium is a Redis-backed ports.StorageMedium for the persistent scope.
// Entries carry no TTL; they live until removed.
type Medium struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.StorageMedium = (*Medium)(nil)

// NewMedium creates a Redis medium using DefaultPrefix.
func NewMedium(client redis.UniversalClient) *Medium {
	return &Medium{
		client: client,
		prefix: DefaultPrefix,
	}
}

// NewMediumWithPrefix creates a Redis medium with a custom key prefix.
func NewMediumWithPrefix(client redis.UniversalClient, prefix string) *Medium {
	return &Medium{
		client: client,
		prefix: prefix,
	}
}

// GetItem returns the value stored under key.
func (m *Medium) GetItem(ctx context.Context, key string) (string, bool, error) {
	data, err := m.client.Get(ctx, m.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, apperrors.Wrap(err, apperrors.ErrCodeInternal, "redis get")
	}
	return data, true, nil
}

// SetItem stores value under key without expiry.
func (m *Medium) SetItem(ctx context.Context, key, value string) error {
	if err := m.client.Set(ctx, m.prefix+key, value, 0).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "redis set")
	}
	return nil
}

// RemoveItem deletes key. Removing an absent key is not an error.
func (m *Medium) RemoveItem(ctx context.Context, key string) error {
	if err := m.client.Del(ctx, m.prefix+key).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "redis del")
	}
	return nil
}
