package flowstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowbuilder/internal/adapters/filesystem"
	"flowbuilder/internal/adapters/sqlite"
	"flowbuilder/internal/config"
	"flowbuilder/internal/domain"
)

func TestOpen_Backends(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		backend  string
		location string
		check    func(t *testing.T, h *Handle)
	}{
		{config.BackendSQLite, filepath.Join(dir, "flows.db"), func(t *testing.T, h *Handle) {
			_, ok := h.FlowStore.(*sqlite.Store)
			assert.True(t, ok)
		}},
		{config.BackendFiles, filepath.Join(dir, "flows"), func(t *testing.T, h *Handle) {
			_, ok := h.FlowStore.(*filesystem.Store)
			assert.True(t, ok)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := config.Default()
			cfg.Backend = tt.backend
			cfg.DBPath = filepath.Join(dir, "flows.db")
			cfg.FlowsDir = filepath.Join(dir, "flows")

			h, err := Open(cfg)
			require.NoError(t, err)
			defer h.Close()

			tt.check(t, h)
			assert.Equal(t, tt.location, h.Location)

			ctx := context.Background()
			require.NoError(t, h.SaveFlow(ctx, domain.DemoFlow("main")))
			got, err := h.LoadFlow(ctx, "main")
			require.NoError(t, err)
			assert.Len(t, got.Nodes, 2)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "postgres"

	_, err := Open(cfg)
	assert.ErrorContains(t, err, "postgres")
}
