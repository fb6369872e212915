package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driving"
)

var processCmd = &cobra.Command{
	Use:   "process [path]",
	Short: "Extract project snippets from documents",
	Long: `Processes a folder of documents, or a single document, through the
extraction pipeline: each file is parsed, split into chunks, and scanned
for project names by the configured LLM. Verbatim snippets about each
project are appended to its record, and touched projects are
re-categorised against the taxonomy.

Files already processed are skipped unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

// Flags for the process command.
var (
	processForce   bool
	processWorkers int
	processModel   string
	processWatch   bool
)

const defaultWorkers = 4

// modelSetter is implemented by LLM services whose model can be
// switched per run.
type modelSetter interface {
	SetModel(model string)
}

func init() {
	processCmd.Flags().BoolVarP(&processForce, "force", "f", false, "Reprocess files already recorded as processed")
	processCmd.Flags().IntVarP(&processWorkers, "workers", "w", 0, "Concurrent files (default from config, else 4)")
	processCmd.Flags().StringVarP(&processModel, "model", "m", "", "Model to use for this run (overrides config)")
	processCmd.Flags().BoolVar(&processWatch, "watch", false, "Keep watching the folder after the initial pass")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if processOrchestrator == nil {
		return errors.New("process service not configured")
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if processModel != "" {
		if setter, ok := llmService.(modelSetter); ok {
			setter.SetModel(processModel)
		}
	}

	// Stop cleanly on Ctrl-C; in-flight files finish, the rest are
	// picked up by the next run.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !info.IsDir() {
		cmd.Printf("Processing %s...\n", path)
		if err := processOrchestrator.ProcessFile(ctx, path); err != nil {
			return fmt.Errorf("process failed: %w", err)
		}
		cmd.Println("Done.")
		return nil
	}

	opts := driving.ProcessOptions{
		Force:   processForce,
		Workers: resolveWorkers(processWorkers, configStore),
	}

	cmd.Printf("Processing folder %s (%d workers)...\n", path, opts.Workers)
	if err := processWithProgress(ctx, cmd, processOrchestrator, path, opts); err != nil {
		return fmt.Errorf("process failed: %w", err)
	}

	if processWatch {
		return watchLoop(ctx, cmd, path)
	}
	return nil
}

// resolveWorkers picks the worker count: explicit flag, then config,
// then the default.
func resolveWorkers(flagValue int, config driven.ConfigStore) int {
	if flagValue > 0 {
		return flagValue
	}
	if config != nil {
		if workers := config.GetInt(driven.ConfigWorkers); workers > 0 {
			return workers
		}
	}
	return defaultWorkers
}

// processWithProgress runs the folder workflow while displaying
// progress updates.
func processWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	orchestrator driving.ProcessOrchestrator,
	root string,
	opts driving.ProcessOptions,
) error {
	// Start processing in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- orchestrator.ProcessFolder(ctx, root, opts)
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case err := <-errCh:
			// Print final status (ignore status error - best effort)
			status, statusErr := orchestrator.Status(ctx)
			if statusErr == nil && status != nil {
				cmd.Printf("\rProcessed %d files: %d snippets across %d projects (%d errors)\n",
					status.FilesProcessed, status.SnippetsAppended,
					status.ProjectsTouched, status.ErrorCount)
			}
			return err
		case <-ticker.C:
			// Check progress (ignore status error - best effort)
			status, statusErr := orchestrator.Status(ctx)
			if statusErr == nil && status != nil && status.FilesProcessed > lastCount {
				cmd.Printf("\rProcessing... %d files", status.FilesProcessed)
				lastCount = status.FilesProcessed
			}
		}
	}
}
