package driven

import (
	"context"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
)

// Scanner discovers candidate document files under a root folder.
type Scanner interface {
	// Scan walks the root folder and streams supported files over the
	// returned channel, consulting the scan state to classify each file
	// as new, updated or skipped. Skipped files are not sent unless
	// force is true. The error channel receives walk failures; both
	// channels are closed when the walk completes.
	Scan(ctx context.Context, root string, force bool) (<-chan domain.FileRecord, <-chan error)

	// Watch listens for files created or modified under root and streams
	// them as they appear.
	Watch(ctx context.Context, root string) (<-chan domain.FileRecord, error)

	// Close releases resources.
	Close() error
}
