package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
)

// mockScanner implements driven.Scanner for testing.
type mockScanner struct {
	watchRecords []domain.FileRecord
	watchErr     error
}

func (m *mockScanner) Scan(_ context.Context, _ string, _ bool) (<-chan domain.FileRecord, <-chan error) {
	files := make(chan domain.FileRecord)
	errs := make(chan error)
	close(files)
	close(errs)
	return files, errs
}

func (m *mockScanner) Watch(_ context.Context, _ string) (<-chan domain.FileRecord, error) {
	if m.watchErr != nil {
		return nil, m.watchErr
	}

	records := make(chan domain.FileRecord, len(m.watchRecords))
	for _, record := range m.watchRecords {
		records <- record
	}
	close(records)
	return records, nil
}

func (m *mockScanner) Close() error { return nil }

func setupWatchTest(scanner *mockScanner, orchestrator *mockProcessOrchestrator) func() {
	oldScanner, oldProcess := fileScanner, processOrchestrator
	fileScanner = scanner
	processOrchestrator = orchestrator
	return func() {
		fileScanner = oldScanner
		processOrchestrator = oldProcess
	}
}

func TestWatchCmd_ProcessesArrivals(t *testing.T) {
	orchestrator := &mockProcessOrchestrator{}
	cleanup := setupWatchTest(&mockScanner{
		watchRecords: []domain.FileRecord{
			{Path: "/docs/new.pdf", Ext: ".pdf", Status: domain.FileNew},
		},
	}, orchestrator)
	defer cleanup()

	out, err := executeCommand("watch", "/docs")

	assert.NoError(t, err)
	assert.Equal(t, "/docs/new.pdf", orchestrator.lastFilePath)
	assert.Contains(t, out, "Watching /docs")
	assert.Contains(t, out, "Watch stopped.")
}

func TestWatchCmd_ReportsPerFileFailures(t *testing.T) {
	orchestrator := &mockProcessOrchestrator{fileErr: errors.New("parse failed")}
	cleanup := setupWatchTest(&mockScanner{
		watchRecords: []domain.FileRecord{
			{Path: "/docs/bad.pdf", Ext: ".pdf", Status: domain.FileNew},
		},
	}, orchestrator)
	defer cleanup()

	out, err := executeCommand("watch", "/docs")

	assert.NoError(t, err)
	assert.Contains(t, out, "failed: parse failed")
}

func TestWatchCmd_WatchError(t *testing.T) {
	cleanup := setupWatchTest(&mockScanner{watchErr: errors.New("root does not exist")}, &mockProcessOrchestrator{})
	defer cleanup()

	_, err := executeCommand("watch", "/nope")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "root does not exist")
}

func TestWatchCmd_NotConfigured(t *testing.T) {
	oldScanner := fileScanner
	fileScanner = nil
	defer func() {
		fileScanner = oldScanner
	}()

	_, err := executeCommand("watch", "/docs")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "watch service not configured")
}
