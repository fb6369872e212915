package driving

import (
	"context"
	"io"
)

// ProcessOrchestrator coordinates the scan/extract/categorise workflow.
type ProcessOrchestrator interface {
	// ProcessFolder scans root and processes every supported document.
	// Each file is independent: a failure in one file is logged and does
	// not abort the others.
	ProcessFolder(ctx context.Context, root string, opts ProcessOptions) error

	// ProcessFile processes a single document end to end.
	ProcessFile(ctx context.Context, path string) error

	// Status returns progress for a running folder workflow.
	Status(ctx context.Context) (*ProcessStatus, error)
}

// ProcessOptions configures a folder processing run.
type ProcessOptions struct {
	// Force reprocesses files even if they are recorded as processed.
	Force bool

	// Workers is the number of files processed concurrently. Values
	// below 1 mean sequential processing. Per-file logic is always
	// sequential; only independent files fan out.
	Workers int
}

// ProcessStatus reports progress of a folder workflow.
type ProcessStatus struct {
	// Running is true while a workflow is active.
	Running bool

	// FilesProcessed counts files completed so far.
	FilesProcessed int

	// SnippetsAppended counts snippet appends across all files.
	SnippetsAppended int

	// ProjectsTouched counts distinct projects updated this run.
	ProjectsTouched int

	// ErrorCount counts files that failed.
	ErrorCount int
}

// ProjectReader provides read access to extracted project data for the
// CLI and export surfaces.
type ProjectReader interface {
	// Names returns all project names, sorted.
	Names(ctx context.Context) ([]string, error)

	// Data returns the aggregated data blob for a project.
	Data(ctx context.Context, name string) (string, error)

	// Export writes all projects in the requested format ("csv" or
	// "json") to the writer.
	Export(ctx context.Context, format string, w io.Writer) error
}
