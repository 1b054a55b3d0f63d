// Package filestore provides a persistent storage medium backed by a JSON file.
package filestore

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/stockdesk/console/internal/errors"
	"github.com/stockdesk/console/internal/ports"
)

const (
	// DefaultDir is the directory under the user's home holding client state.
	DefaultDir = ".stockdesk"
	// DefaultFile is the storage file name inside DefaultDir.
	DefaultFile = "storage.json"
)

// Medium implements ports.StorageMedium over a single JSON object file.
// Every call re-reads the file so separate processes observe each other's writes.
type Medium struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

var _ ports.StorageMedium = (*Medium)(nil)

// DefaultPath returns ~/.stockdesk/storage.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageUnavailable, "failed to get user home directory")
	}
	return filepath.Join(home, DefaultDir, DefaultFile), nil
}

// New creates a Medium storing entries at path. An empty path selects DefaultPath.
func New(path string, logger *slog.Logger) (*Medium, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &Medium{path: path, logger: logger.With("component", "filestore")}, nil
}

// Path returns the backing file path.
func (m *Medium) Path() string { return m.path }

// GetItem returns the value stored under key.
func (m *Medium) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.load()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

// SetItem stores value under key. A corrupted file is replaced.
func (m *Medium) SetItem(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.loadForWrite(ctx)
	if err != nil {
		return err
	}
	items[key] = value
	return m.save(items)
}

// RemoveItem deletes key. Removing the last entry deletes the file.
func (m *Medium) RemoveItem(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.loadForWrite(ctx)
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	if len(items) == 0 {
		if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to remove storage file")
		}
		return nil
	}
	return m.save(items)
}

func (m *Medium) load() (map[string]string, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorageUnavailable, "storage file is not readable")
	}
	items := make(map[string]string)
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDeserialization, "failed to unmarshal storage file")
	}
	return items, nil
}

// loadForWrite treats an undecodable file as empty so the next write
// overwrites it instead of failing forever.
func (m *Medium) loadForWrite(ctx context.Context) (map[string]string, error) {
	items, err := m.load()
	if err != nil && errors.IsDeserialization(err) {
		m.logger.WarnContext(ctx, "storage file is corrupted, discarding its entries", "path", m.path, "error", err)
		return make(map[string]string), nil
	}
	return items, err
}

func (m *Medium) save(items map[string]string) error {
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, errors.ErrCodeStorageUnavailable, "failed to create %s", dir)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal storage file")
	}

	tmp, err := os.CreateTemp(dir, ".storage-*.json")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageUnavailable, "failed to create temp storage file")
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to chmod storage file")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write storage file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to close storage file")
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to replace storage file")
	}
	return nil
}
