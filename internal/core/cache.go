// Package core provides the storage-facing business logic of the stockdesk console client.
package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/stockdesk/console/internal/errors"
	"github.com/stockdesk/console/internal/ports"
)

// Scope names one of the two independent cache namespaces.
type Scope string

const (
	// ScopeSession lives as long as the process.
	ScopeSession Scope = "session"
	// ScopePersistent survives restarts.
	ScopePersistent Scope = "persistent"
)

// Valid reports whether s is a known scope.
func (s Scope) Valid() bool {
	return s == ScopeSession || s == ScopePersistent
}

// ScopedCache is a key/value facade over two storage mediums.
// Reads and writes degrade to no-ops when a scope's medium is unavailable;
// Remove reports the unavailability instead.
type ScopedCache struct {
	session    ports.StorageMedium
	persistent ports.StorageMedium
	logger     *slog.Logger
}

// ScopedCacheOptions bundles dependencies for NewScopedCache.
// A nil medium marks the scope as unavailable.
type ScopedCacheOptions struct {
	Session    ports.StorageMedium
	Persistent ports.StorageMedium
	Logger     *slog.Logger
}

// NewScopedCache creates a new ScopedCache.
func NewScopedCache(opts ScopedCacheOptions) *ScopedCache {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ScopedCache{
		session:    opts.Session,
		persistent: opts.Persistent,
		logger:     logger.With("component", "scoped_cache"),
	}
}

func (c *ScopedCache) medium(scope Scope) (ports.StorageMedium, error) {
	switch scope {
	case ScopeSession:
		return c.session, nil
	case ScopePersistent:
		return c.persistent, nil
	default:
		return nil, errors.ValidationField("scope", fmt.Sprintf("unknown cache scope %q", scope))
	}
}

// Available reports whether the scope has a usable medium.
func (c *ScopedCache) Available(scope Scope) bool {
	m, err := c.medium(scope)
	return err == nil && m != nil
}

// Set stores value under key. It is a no-op for an empty key or an unavailable medium.
func (c *ScopedCache) Set(ctx context.Context, scope Scope, key, value string) error {
	m, err := c.medium(scope)
	if err != nil {
		return err
	}
	if m == nil || key == "" {
		return nil
	}
	if err := m.SetItem(ctx, key, value); err != nil {
		if errors.IsStorageUnavailable(err) {
			c.logger.DebugContext(ctx, "cache set skipped", "scope", scope, "key", key, "error", err)
			return nil
		}
		return err
	}
	return nil
}

// Get returns the value stored under key. ok is false when the entry is absent,
// the key is empty, or the medium is unavailable.
func (c *ScopedCache) Get(ctx context.Context, scope Scope, key string) (string, bool, error) {
	m, err := c.medium(scope)
	if err != nil {
		return "", false, err
	}
	if m == nil || key == "" {
		return "", false, nil
	}
	v, ok, err := m.GetItem(ctx, key)
	if err != nil {
		if errors.IsStorageUnavailable(err) {
			c.logger.DebugContext(ctx, "cache get skipped", "scope", scope, "key", key, "error", err)
			return "", false, nil
		}
		return "", false, err
	}
	return v, ok, nil
}

// SetJSON encodes v and stores it under key. Nil values are not stored.
func (c *ScopedCache) SetJSON(ctx context.Context, scope Scope, key string, v any) error {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeValidation, "encode cache value %q", key)
	}
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	return c.Set(ctx, scope, key, string(b))
}

// GetJSON decodes the value stored under key into dst.
// It returns ok=false without error when no entry exists.
func (c *ScopedCache) GetJSON(ctx context.Context, scope Scope, key string, dst any) (bool, error) {
	raw, ok, err := c.Get(ctx, scope, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, errors.Wrapf(err, errors.ErrCodeDeserialization, "decode cache value %q", key)
	}
	return true, nil
}

// Remove deletes key from scope. Absent keys are not an error; an unavailable medium is.
func (c *ScopedCache) Remove(ctx context.Context, scope Scope, key string) error {
	m, err := c.medium(scope)
	if err != nil {
		return err
	}
	if m == nil {
		return errors.StorageUnavailablef("%s storage is unavailable", scope)
	}
	return m.RemoveItem(ctx, key)
}
