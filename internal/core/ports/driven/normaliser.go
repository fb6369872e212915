package driven

import (
	"context"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
)

// Normaliser transforms raw document bytes into plain text.
// Each normaliser handles specific file extensions (e.g., PDF, DOCX).
type Normaliser interface {
	// SupportedExtensions returns the lowercase extensions this
	// normaliser handles, including the dot.
	SupportedExtensions() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise transforms a raw document into a Document with Content.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Chunking is handled by the PostProcessor pipeline.
type NormaliseResult struct {
	// Document is the normalised document with Content field populated.
	Document domain.Document
}

// NormaliserRegistry selects the appropriate normaliser for a document.
// It maintains a priority-ordered list of normalisers and dispatches on
// file extension.
type NormaliserRegistry interface {
	// Normalise transforms a raw document using the best matching
	// normaliser. Returns domain.ErrUnsupportedType when no normaliser
	// handles the extension.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedExtensions returns all extensions that can be normalised.
	SupportedExtensions() []string
}
