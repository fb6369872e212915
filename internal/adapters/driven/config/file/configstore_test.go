package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
)

func newTestConfigStore(t *testing.T) *ConfigStore {
	t.Helper()

	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore(t *testing.T) {
	store := newTestConfigStore(t)
	assert.Contains(t, store.Path(), "config.toml")
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set(driven.ConfigOllamaModel, "llama3.2"))
	require.NoError(t, store.Set(driven.ConfigChunkSize, 400))
	require.NoError(t, store.Set("verbose", true))

	assert.Equal(t, "llama3.2", store.GetString(driven.ConfigOllamaModel))
	assert.Equal(t, 400, store.GetInt(driven.ConfigChunkSize))
	assert.True(t, store.GetBool("verbose"))

	val, ok := store.Get(driven.ConfigOllamaModel)
	assert.True(t, ok)
	assert.Equal(t, "llama3.2", val)
}

func TestConfigStore_MissingKeys(t *testing.T) {
	store := newTestConfigStore(t)

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_TypeMismatch(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("key", "string value"))

	assert.Zero(t, store.GetInt("key"))
	assert.False(t, store.GetBool("key"))
}

func TestConfigStore_Delete(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("key", "value"))
	require.NoError(t, store.Delete("key"))

	_, ok := store.Get("key")
	assert.False(t, ok)
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	tempDir := t.TempDir()

	store1, err := NewConfigStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set(driven.ConfigOllamaURL, "http://localhost:11434"))
	require.NoError(t, store1.Set(driven.ConfigWorkers, 4))

	store2, err := NewConfigStore(tempDir)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434", store2.GetString(driven.ConfigOllamaURL))
	assert.Equal(t, 4, store2.GetInt(driven.ConfigWorkers))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	tempDir := t.TempDir()

	content := "[ollama]\nbase_url = \"http://example:11434\"\nmodel = \"mistral\"\n\n[processing]\nchunk_size = 250\n"
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tempDir)
	require.NoError(t, err)

	assert.Equal(t, "http://example:11434", store.GetString(driven.ConfigOllamaURL))
	assert.Equal(t, "mistral", store.GetString(driven.ConfigOllamaModel))
	assert.Equal(t, 250, store.GetInt(driven.ConfigChunkSize))
}

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var _ driven.ConfigStore = (*ConfigStore)(nil)
}
