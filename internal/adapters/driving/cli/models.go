package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available on the LLM endpoint",
	Long: `Lists the models the configured Ollama endpoint reports, marking the
one prospect is currently using. Use 'prospect config set ollama.model'
to switch.`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, _ []string) error {
	if llmService == nil {
		return errors.New("LLM service not configured")
	}

	ctx := context.Background()

	if err := llmService.Ping(ctx); err != nil {
		return fmt.Errorf("LLM endpoint unreachable: %w", err)
	}

	models, err := llmService.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	if len(models) == 0 {
		cmd.Println("No models installed. Pull one with 'ollama pull <model>'.")
		return nil
	}

	current := llmService.ModelName()
	for _, model := range models {
		marker := " "
		if model == current {
			marker = "*"
		}
		cmd.Printf("%s %s\n", marker, model)
	}
	return nil
}
