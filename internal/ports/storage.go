package ports

import "context"

// StorageMedium is a key→string store backing one cache scope.
// GetItem reports ok=false when the key has no entry. RemoveItem is a no-op for absent keys.
// Implementations that cannot reach their backing store at all should return an
// error satisfying errors.IsStorageUnavailable.
type StorageMedium interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
