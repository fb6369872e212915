package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
)

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	models  []string
	model   string
	pingErr error
}

func (m *mockLLMService) FindProjectNames(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func (m *mockLLMService) ExtractSnippet(_ context.Context, _, _ string) (string, bool, error) {
	return "", false, nil
}

func (m *mockLLMService) Categorise(_ context.Context, _ string) domain.Classification {
	return domain.Uncategorised()
}

func (m *mockLLMService) ListModels(_ context.Context) ([]string, error) {
	return m.models, nil
}

func (m *mockLLMService) ModelName() string { return m.model }

func (m *mockLLMService) Ping(_ context.Context) error { return m.pingErr }

func (m *mockLLMService) Close() error { return nil }

func setupModelsTest(mock *mockLLMService) func() {
	oldLLM := llmService
	llmService = mock
	return func() {
		llmService = oldLLM
	}
}

func TestModelsCmd(t *testing.T) {
	cleanup := setupModelsTest(&mockLLMService{
		models: []string{"llama3.2", "mistral"},
		model:  "llama3.2",
	})
	defer cleanup()

	out, err := executeCommand("models")

	assert.NoError(t, err)
	assert.Contains(t, out, "* llama3.2")
	assert.Contains(t, out, "  mistral")
}

func TestModelsCmd_NoModels(t *testing.T) {
	cleanup := setupModelsTest(&mockLLMService{})
	defer cleanup()

	out, err := executeCommand("models")

	assert.NoError(t, err)
	assert.Contains(t, out, "No models installed")
}

func TestModelsCmd_Unreachable(t *testing.T) {
	cleanup := setupModelsTest(&mockLLMService{pingErr: domain.ErrLLMUnavailable})
	defer cleanup()

	_, err := executeCommand("models")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LLM endpoint unreachable")
}

func TestModelsCmd_NotConfigured(t *testing.T) {
	oldLLM := llmService
	llmService = nil
	defer func() {
		llmService = oldLLM
	}()

	_, err := executeCommand("models")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LLM service not configured")
}
