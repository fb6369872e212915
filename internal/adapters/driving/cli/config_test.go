package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfigTest(store *mapConfigStore) func() {
	oldConfig := configStore
	configStore = store
	return func() {
		configStore = oldConfig
	}
}

func TestConfigListCmd(t *testing.T) {
	store := newMapConfigStore()
	require.NoError(t, store.Set("ollama.model", "mistral"))
	cleanup := setupConfigTest(store)
	defer cleanup()

	out, err := executeCommand("config", "list")

	assert.NoError(t, err)
	assert.Contains(t, out, "mistral")
	assert.Contains(t, out, "(not set)")
}

func TestConfigGetCmd(t *testing.T) {
	store := newMapConfigStore()
	require.NoError(t, store.Set("processing.chunk_size", 400))
	cleanup := setupConfigTest(store)
	defer cleanup()

	out, err := executeCommand("config", "get", "processing.chunk_size")

	assert.NoError(t, err)
	assert.Contains(t, out, "400")
}

func TestConfigGetCmd_Missing(t *testing.T) {
	cleanup := setupConfigTest(newMapConfigStore())
	defer cleanup()

	_, err := executeCommand("config", "get", "missing.key")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not set")
}

func TestConfigSetCmd_CoercesTypes(t *testing.T) {
	store := newMapConfigStore()
	cleanup := setupConfigTest(store)
	defer cleanup()

	_, err := executeCommand("config", "set", "processing.workers", "6")
	require.NoError(t, err)
	assert.Equal(t, 6, store.GetInt("processing.workers"))

	_, err = executeCommand("config", "set", "some.flag", "true")
	require.NoError(t, err)
	assert.True(t, store.GetBool("some.flag"))

	_, err = executeCommand("config", "set", "ollama.model", "mistral")
	require.NoError(t, err)
	assert.Equal(t, "mistral", store.GetString("ollama.model"))
}

func TestConfigUnsetCmd(t *testing.T) {
	store := newMapConfigStore()
	require.NoError(t, store.Set("key", "value"))
	cleanup := setupConfigTest(store)
	defer cleanup()

	_, err := executeCommand("config", "unset", "key")
	require.NoError(t, err)

	_, ok := store.Get("key")
	assert.False(t, ok)
}

func TestConfigCmd_NotConfigured(t *testing.T) {
	oldConfig := configStore
	configStore = nil
	defer func() {
		configStore = oldConfig
	}()

	_, err := executeCommand("config", "list")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config store not configured")
}
