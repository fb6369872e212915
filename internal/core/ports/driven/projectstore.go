package driven

import (
	"context"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
)

// ProjectStore persists projects and their aggregated snippet data.
// Backed by SQLite.
type ProjectStore interface {
	// AppendToProjectData looks up a project by normalised name, creating
	// it if absent, and concatenates text onto its aggregated data blob.
	// Returns the affected project's ID.
	AppendToProjectData(ctx context.Context, name, text string) (int64, error)

	// UpdateCategorisation overwrites the three classification fields on
	// an existing row. Returns domain.ErrNotFound if the ID does not exist.
	UpdateCategorisation(ctx context.Context, projectID int64, c domain.Classification) error

	// GetProject retrieves a project by normalised name.
	GetProject(ctx context.Context, name string) (*domain.Project, error)

	// GetProjectData retrieves only the aggregated data blob for a project.
	GetProjectData(ctx context.Context, name string) (string, error)

	// ListProjectNames returns all project names, sorted.
	ListProjectNames(ctx context.Context) ([]string, error)

	// ListProjects returns all projects, ordered by name.
	ListProjects(ctx context.Context) ([]domain.Project, error)

	// Wipe removes every project row. Administrative use only.
	Wipe(ctx context.Context) error
}

// ScanStateStore persists the processed-files log: a mapping from absolute
// file path to the time it was last processed. It replaces hidden
// module-level state with an explicit, caller-owned store.
type ScanStateStore interface {
	// LastProcessed returns the recorded processing time for a path.
	// Returns domain.ErrNotFound if the path has never been processed.
	LastProcessed(ctx context.Context, path string) (processedAt int64, err error)

	// MarkProcessed records that a path was processed at the given Unix time.
	MarkProcessed(ctx context.Context, path string, processedAt int64) error

	// Clear removes all scan state.
	Clear(ctx context.Context) error
}
