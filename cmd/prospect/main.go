// Command prospect extracts verbatim project intelligence from
// engineering documents using a local LLM.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/equinox-labs/prospect-cli/internal/adapters/driven/config/file"
	"github.com/equinox-labs/prospect-cli/internal/adapters/driven/llm/ollama"
	"github.com/equinox-labs/prospect-cli/internal/adapters/driven/storage/sqlite"
	"github.com/equinox-labs/prospect-cli/internal/adapters/driving/cli"
	"github.com/equinox-labs/prospect-cli/internal/connectors/filesystem"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
	"github.com/equinox-labs/prospect-cli/internal/core/services"
	"github.com/equinox-labs/prospect-cli/internal/normalisers"
	"github.com/equinox-labs/prospect-cli/internal/normalisers/docx"
	"github.com/equinox-labs/prospect-cli/internal/normalisers/pdf"
	"github.com/equinox-labs/prospect-cli/internal/normalisers/plaintext"
	"github.com/equinox-labs/prospect-cli/internal/normalisers/pptx"
	"github.com/equinox-labs/prospect-cli/internal/normalisers/xlsx"
	"github.com/equinox-labs/prospect-cli/internal/postprocessors"
	"github.com/equinox-labs/prospect-cli/internal/postprocessors/chunker"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetInitialiser(buildServices)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildServices wires every adapter behind the driving ports. Called
// after flag parsing so --data-dir takes effect.
func buildServices(dataDir string) (cli.Services, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cli.Services{}, fmt.Errorf("resolve home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".prospect")
	}

	configStore, err := file.NewConfigStore(dataDir)
	if err != nil {
		return cli.Services{}, fmt.Errorf("open config store: %w", err)
	}

	promptStore, err := file.NewPromptStore(filepath.Join(dataDir, "prompts"))
	if err != nil {
		return cli.Services{}, fmt.Errorf("open prompt store: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(dataDir, "data"))
	if err != nil {
		return cli.Services{}, fmt.Errorf("open database: %w", err)
	}

	llm := ollama.NewLLMService(ollama.LLMConfig{
		BaseURL: configStore.GetString(driven.ConfigOllamaURL),
		Model:   configStore.GetString(driven.ConfigOllamaModel),
	})
	llm.SetPromptStore(promptStore)

	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(pdf.New())
	registry.Register(docx.New())
	registry.Register(pptx.New())
	registry.Register(xlsx.New())

	var chunkerOpts []chunker.Option
	if size := configStore.GetInt(driven.ConfigChunkSize); size > 0 {
		chunkerOpts = append(chunkerOpts, chunker.WithChunkSize(size))
	}
	if overlap := configStore.GetInt(driven.ConfigChunkOverlap); overlap > 0 {
		chunkerOpts = append(chunkerOpts, chunker.WithOverlap(overlap))
	}
	pipeline := postprocessors.NewPipeline(chunker.New(chunkerOpts...))

	scanner := filesystem.New(store.ScanStateStore())

	orchestrator := services.NewProcessOrchestrator(
		scanner,
		registry,
		pipeline,
		llm,
		store.ProjectStore(),
		store.ScanStateStore(),
	)

	return cli.Services{
		Process:   orchestrator,
		Projects:  services.NewProjectService(store.ProjectStore()),
		LLM:       llm,
		Config:    configStore,
		Store:     store.ProjectStore(),
		ScanState: store.ScanStateStore(),
		Scanner:   scanner,
		Admin:     store,
	}, nil
}
