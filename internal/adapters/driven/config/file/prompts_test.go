package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
)

func TestPromptStore_LoadCreatesDefaults(t *testing.T) {
	promptDir := filepath.Join(t.TempDir(), "prompts")

	store, err := NewPromptStore(promptDir)
	require.NoError(t, err)

	// No I/O before first Load.
	_, statErr := os.Stat(promptDir)
	assert.True(t, os.IsNotExist(statErr))

	prompt, err := store.Load(driven.PromptFindNames)
	require.NoError(t, err)
	assert.Contains(t, prompt, "project_names")

	// Defaults were written out for the user to edit.
	for _, filename := range []string{"find_names.txt", "extract_snippet.txt", "categorise.txt", "taxonomy.md", "README.md"} {
		_, err := os.Stat(filepath.Join(promptDir, filename))
		assert.NoError(t, err, filename)
	}
}

func TestPromptStore_LoadsUserOverride(t *testing.T) {
	promptDir := t.TempDir()
	custom := "Custom finder: %s"
	require.NoError(t, os.WriteFile(filepath.Join(promptDir, "find_names.txt"), []byte(custom+"\n"), 0600))

	store, err := NewPromptStore(promptDir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptFindNames)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_TaxonomyIsMarkdown(t *testing.T) {
	promptDir := t.TempDir()

	store, err := NewPromptStore(promptDir)
	require.NoError(t, err)

	taxonomy, err := store.Load(driven.PromptTaxonomy)
	require.NoError(t, err)
	assert.Contains(t, taxonomy, "Categorisation Schema")

	_, statErr := os.Stat(filepath.Join(promptDir, "taxonomy.md"))
	assert.NoError(t, statErr)
}

func TestPromptStore_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("no_such_prompt")
	assert.Error(t, err)
}

func TestPromptStore_Reload(t *testing.T) {
	promptDir := t.TempDir()

	store, err := NewPromptStore(promptDir)
	require.NoError(t, err)

	first, err := store.Load(driven.PromptCategorise)
	require.NoError(t, err)

	// Change the file on disk; the cached value is served until Reload.
	path := filepath.Join(promptDir, "categorise.txt")
	require.NoError(t, os.WriteFile(path, []byte("changed %s %s"), 0600))

	cached, err := store.Load(driven.PromptCategorise)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	store.Reload()

	fresh, err := store.Load(driven.PromptCategorise)
	require.NoError(t, err)
	assert.Equal(t, "changed %s %s", fresh)
}

func TestPromptStore_InterfaceCompliance(t *testing.T) {
	var _ driven.PromptStore = (*PromptStore)(nil)
}
