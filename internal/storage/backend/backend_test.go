package backend_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/angler/internal/config"
	"github.com/cory-johannsen/angler/internal/storage/backend"
	"github.com/cory-johannsen/angler/internal/storage/storagetest"
)

func TestOpen_LocalBackends(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{config.BackendMemory, config.BackendFile, config.BackendSQLite} {
		t.Run(name, func(t *testing.T) {
			cfg := config.Config{Storage: config.StorageConfig{
				Backend:    name,
				FilePath:   filepath.Join(dir, "users.json"),
				SQLitePath: filepath.Join(dir, "angler.db"),
			}}
			s, err := backend.Open(context.Background(), cfg, zaptest.NewLogger(t))
			require.NoError(t, err)
			defer s.Close()

			ctx := context.Background()
			require.NoError(t, s.Save(ctx, storagetest.SamplePlayer("u1")))
			p, err := s.Load(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, "낚시왕", p.Nickname)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := config.Config{Storage: config.StorageConfig{Backend: "tape"}}
	_, err := backend.Open(context.Background(), cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}
