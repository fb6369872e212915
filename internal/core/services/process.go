package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driving"
	"github.com/equinox-labs/prospect-cli/internal/logger"
)

// Ensure ProcessOrchestrator implements the interface.
var _ driving.ProcessOrchestrator = (*ProcessOrchestrator)(nil)

// ProcessOrchestrator coordinates the scan/extract/categorise workflow.
// Files fan out across workers; the per-file pipeline is sequential.
type ProcessOrchestrator struct {
	scanner  driven.Scanner
	registry driven.NormaliserRegistry
	pipeline driven.PostProcessorPipeline
	llm      driven.LLMService
	projects driven.ProjectStore
	state    driven.ScanStateStore

	// Status tracking
	mu     sync.RWMutex
	status driving.ProcessStatus

	// Distinct projects touched across the active run.
	touchedRun map[string]struct{}
}

// NewProcessOrchestrator creates a new process orchestrator.
// The state store is optional - if nil, processed files are not recorded
// and every run reprocesses everything.
func NewProcessOrchestrator(
	scanner driven.Scanner,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	llm driven.LLMService,
	projects driven.ProjectStore,
	state driven.ScanStateStore,
) *ProcessOrchestrator {
	return &ProcessOrchestrator{
		scanner:    scanner,
		registry:   registry,
		pipeline:   pipeline,
		llm:        llm,
		projects:   projects,
		state:      state,
		touchedRun: make(map[string]struct{}),
	}
}

// ProcessFolder scans root and processes every supported document found.
// Each file is independent: a failure in one file is counted and logged
// but does not abort the others. Cancellation via ctx stops the run
// between files.
func (o *ProcessOrchestrator) ProcessFolder(ctx context.Context, root string, opts driving.ProcessOptions) error {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	o.startRun()
	defer o.finishRun()

	logger.Info("Processing folder %s (force=%v, workers=%d)", root, opts.Force, workers)

	filesCh, errsCh := o.scanner.Scan(ctx, root, opts.Force)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range filesCh {
				if ctx.Err() != nil {
					return
				}

				logger.Debug("Processing %s (%s)", record.Path, record.Status)
				result, err := o.processOne(ctx, record.Path)
				if err != nil {
					o.recordFailure()
					logger.Warn("Failed to process %s: %v", record.Path, err)
					continue
				}
				o.recordSuccess(result)
			}
		}()
	}

	// Walk errors arrive on a separate channel; both channels close when
	// the scan completes.
	var walkErr error
	for err := range errsCh {
		if err != nil && walkErr == nil {
			walkErr = err
		}
	}
	wg.Wait()

	status, _ := o.Status(ctx)
	logger.Info("Run complete: %d files, %d snippets, %d projects, %d errors",
		status.FilesProcessed, status.SnippetsAppended, status.ProjectsTouched, status.ErrorCount)

	if walkErr != nil {
		return fmt.Errorf("scan %s: %w", root, walkErr)
	}
	return ctx.Err()
}

// ProcessFile processes a single document end to end.
func (o *ProcessOrchestrator) ProcessFile(ctx context.Context, path string) error {
	result, err := o.processOne(ctx, path)
	if err != nil {
		return err
	}
	o.recordSuccess(result)
	return nil
}

// Status returns progress for the folder workflow. Safe to call from a
// different goroutine than the one running ProcessFolder.
func (o *ProcessOrchestrator) Status(_ context.Context) (*driving.ProcessStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	// Return a copy to avoid race conditions
	status := o.status
	return &status, nil
}

// fileResult accumulates per-file counters merged into the run status.
type fileResult struct {
	snippets int
	projects []string
}

// processOne runs the full pipeline for a single document:
// normalise, chunk, identify names, extract snippets, categorise the
// projects touched, then record the file as processed.
//
//nolint:gocognit // Pipeline orchestration with sequential steps
func (o *ProcessOrchestrator) processOne(ctx context.Context, path string) (*fileResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	raw := &domain.RawDocument{
		URI:     path,
		Ext:     strings.ToLower(filepath.Ext(path)),
		Content: content,
	}

	// 1. NORMALISE (produces Document with flattened text)
	normalised, err := o.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise: %w", err)
	}
	doc := normalised.Document
	if strings.TrimSpace(doc.Content) == "" {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrEmptyDocument)
	}

	// 2. CHUNK (word-based splitting with overlap)
	chunks, err := o.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("chunk: %w", err)
	}
	logger.Debug("Split %s into %d chunks", filepath.Base(path), len(chunks))

	// 3. IDENTIFY AND EXTRACT per chunk. Failures on a single chunk or
	// name are logged and skipped; the rest of the file still processes.
	result := &fileResult{}
	touched := make(map[string]int64)
	source := filepath.Base(path)

	for _, chunk := range chunks {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		names, err := o.llm.FindProjectNames(ctx, chunk.Content)
		if err != nil {
			logger.Warn("Name identification failed for chunk %d of %s: %v", chunk.Position, source, err)
			continue
		}

		for _, name := range names {
			snippet, ok, err := o.llm.ExtractSnippet(ctx, chunk.Content, name)
			if err != nil {
				logger.Warn("Snippet extraction failed for %q in %s: %v", name, source, err)
				continue
			}
			if !ok {
				logger.Debug("No verbatim text for %q in chunk %d of %s", name, chunk.Position, source)
				continue
			}

			// Persistence failures abort the whole file; LLM failures
			// only skip the unit.
			header := domain.SnippetHeader(source, time.Now())
			projectID, err := o.projects.AppendToProjectData(ctx, name, header+snippet)
			if err != nil {
				return nil, fmt.Errorf("append snippet for %q: %w", name, err)
			}

			touched[domain.NormaliseName(name)] = projectID
			result.snippets++
		}
	}

	// 4. CATEGORISE the projects this file touched, against their full
	// aggregated data. Categorise never returns an error; on failure it
	// yields the uncategorised sentinel, which is still recorded.
	for name, projectID := range touched {
		data, err := o.projects.GetProjectData(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("load data for %q: %w", name, err)
		}

		classification := o.llm.Categorise(ctx, data)
		if err := o.projects.UpdateCategorisation(ctx, projectID, classification); err != nil {
			return nil, fmt.Errorf("record categorisation for %q: %w", name, err)
		}
		logger.Debug("Categorised %q as %s / %s / %s",
			name, classification.Category, classification.SubCategory, classification.Scope)

		result.projects = append(result.projects, name)
	}

	// 5. RECORD the file as processed so later runs skip it.
	if o.state != nil {
		if err := o.state.MarkProcessed(ctx, path, time.Now().Unix()); err != nil {
			return nil, fmt.Errorf("mark processed: %w", err)
		}
	}

	return result, nil
}

// startRun resets the status counters for a new folder workflow.
func (o *ProcessOrchestrator) startRun() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = driving.ProcessStatus{Running: true}
	o.touchedRun = make(map[string]struct{})
}

// finishRun marks the workflow as no longer active.
func (o *ProcessOrchestrator) finishRun() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status.Running = false
}

// recordSuccess merges a completed file's counters into the run status.
func (o *ProcessOrchestrator) recordSuccess(result *fileResult) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.status.FilesProcessed++
	o.status.SnippetsAppended += result.snippets
	for _, name := range result.projects {
		o.touchedRun[name] = struct{}{}
	}
	o.status.ProjectsTouched = len(o.touchedRun)
}

// recordFailure counts a file that could not be processed.
func (o *ProcessOrchestrator) recordFailure() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status.ErrorCount++
}
