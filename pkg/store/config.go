package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Backend names a Persistence implementation.
const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is what Load needs to pick and open a backend.
type Config interface {
	BasePath() string
	BackendName() string
}

// Load opens the Persistence selected by cfg. An empty backend means diskv.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		return nil, fmt.Errorf("store: no config")
	}
	switch cfg.BackendName() {
	case "", BackendDiskv:
		return NewDiskv(cfg.BasePath())
	case BackendSQLite:
		if err := os.MkdirAll(cfg.BasePath(), 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure base path: %w", err)
		}
		return NewSQL(filepath.Join(cfg.BasePath(), "comments.db"))
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.BackendName())
	}
}
