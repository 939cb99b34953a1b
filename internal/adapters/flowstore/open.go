// Package flowstore opens the flow store selected in the configuration.
package flowstore

import (
	"fmt"

	"flowbuilder/internal/adapters/filesystem"
	"flowbuilder/internal/adapters/sqlite"
	"flowbuilder/internal/config"
	"flowbuilder/internal/ports"
)

// Handle is an open flow store and what it was opened from
type Handle struct {
	ports.FlowStore
	// Location is the database file or flow directory
	Location string
	close    func() error
}

// Close releases the store
func (h *Handle) Close() error {
	if h.close == nil {
		return nil
	}
	return h.close()
}

// Open opens the backend named by cfg.Backend
func Open(cfg config.Config) (*Handle, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		s := sqlite.NewStore()
		if err := s.Open(cfg.DBPath); err != nil {
			return nil, err
		}
		return &Handle{FlowStore: s, Location: s.Path(), close: s.Close}, nil
	case config.BackendFiles:
		s := filesystem.NewStore(cfg.FlowsDir)
		return &Handle{FlowStore: s, Location: s.Dir()}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
