package intelmart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelmart/intelmart/ai"
	"github.com/intelmart/intelmart/backfill"
)

func TestOpen(t *testing.T) {
	t.Run("create new marketplace", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		m, err := Open(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, m)
		defer m.Close()

		assert.NotNil(t, m.LedgerStore())
		assert.NotNil(t, m.EscrowStore())
		assert.NotNil(t, m.ListingStore())
		assert.NotNil(t, m.EmbeddingStore())
		assert.NotNil(t, m.backend)
		assert.NotNil(t, m.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		m, err := Open(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, m)
	})

	t.Run("with ai config", func(t *testing.T) {
		config := ai.NewConfig(
			ai.WithHost("http://example.test:11434"),
			ai.WithToken("secret"),
		)

		tmpDir := filepath.Join(t.TempDir(), "test_db")
		m, err := Open(tmpDir, WithAIConfig(config))
		require.NoError(t, err)
		defer m.Close()
	})
}

func TestMarketplace_Close(t *testing.T) {
	m, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.NoError(t, m.Close())
}

func TestMarketplace_FactoryMethods(t *testing.T) {
	m, err := Open(t.TempDir())
	require.NoError(t, err)
	defer m.Close()

	t.Run("can create market service", func(t *testing.T) {
		service, err := m.NewService()
		require.NoError(t, err)
		require.NotNil(t, service)
		service.Close()
	})

	t.Run("can create searcher", func(t *testing.T) {
		searcher, err := m.NewSearcher()
		require.NoError(t, err)
		require.NotNil(t, searcher)
	})

	t.Run("can create backfiller", func(t *testing.T) {
		backfiller := m.NewBackfiller(backfill.DefaultConfig(), nil)
		require.NotNil(t, backfiller)
	})
}
