// Package plaintext provides a fallback normaliser for text-like files.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text files. It is the lowest-priority
// fallback: content bytes are taken as-is.
type Normaliser struct{}

// New creates a new plaintext normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".txt", ".md", ".text"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback
}

// Normalise converts the raw bytes directly to a document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Title:     TitleFromURI(raw.URI),
		Content:   string(raw.Content),
		Metadata:  map[string]any{"format": "plaintext"},
		CreatedAt: time.Now(),
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

// TitleFromURI derives a human-readable title from a file path by
// stripping the extension and replacing separators with spaces.
func TitleFromURI(uri string) string {
	filename := filepath.Base(uri)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
