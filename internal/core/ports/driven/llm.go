package driven

import (
	"context"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
)

// LLMService provides the language model operations the pipeline needs.
// All operations issue a single synchronous request to a local generation
// endpoint and parse a JSON-shaped completion.
//
// Implementations may include:
//   - Ollama (local models)
//   - LM Studio (local inference server)
type LLMService interface {
	// FindProjectNames asks the model to list proper-noun project names
	// found in the chunk. Returned names are deduplicated, trimmed and
	// sorted. A transport failure or an unparsable response returns
	// ErrLLMUnavailable or ErrLLMBadResponse; callers skip the chunk.
	FindProjectNames(ctx context.Context, chunk string) ([]string, error)

	// ExtractSnippet asks the model to copy, verbatim, the sentence(s)
	// discussing the named project from the chunk. ok is false when the
	// model reports no relevant text (a null or missing snippet field).
	ExtractSnippet(ctx context.Context, chunk, projectName string) (snippet string, ok bool, err error)

	// Categorise classifies a project's full aggregated text against the
	// taxonomy document, returning category, sub-category and scope.
	// On any failure it returns the Uncategorised sentinel and a nil
	// error; categorisation never fails the caller.
	Categorise(ctx context.Context, projectText string) domain.Classification

	// ListModels returns the model names available on the endpoint.
	ListModels(ctx context.Context) ([]string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the endpoint is reachable without running inference.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
