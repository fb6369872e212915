// Package pdf provides a normaliser for PDF documents.
// Text extraction shells out to pdftotext (poppler-utils), which must be
// installed on the host.
package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
	"github.com/equinox-labs/prospect-cli/internal/normalisers/plaintext"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// CommandRunner executes an external command and returns its stdout.
// It exists so tests can stub out the pdftotext dependency.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Normaliser handles PDF documents.
type Normaliser struct {
	runner CommandRunner
}

// Option configures the normaliser.
type Option func(*Normaliser)

// WithRunner overrides the command runner. Used in tests.
func WithRunner(r CommandRunner) Option {
	return func(n *Normaliser) {
		n.runner = r
	}
}

// New creates a new PDF normaliser.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{runner: execRunner{}}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific normaliser
}

// Normalise extracts text from a PDF document. The raw bytes are written
// to a temporary file because pdftotext reads from disk.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	tmp, err := os.CreateTemp("", "prospect-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw.Content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	// "-" sends extracted text to stdout.
	output, err := n.runner.Run(ctx, "pdftotext", "-layout", tmp.Name(), "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}

	content := strings.TrimSpace(string(output))

	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Title:     extractTitle(content, raw.URI),
		Content:   content,
		Metadata:  map[string]any{"format": "pdf"},
		CreatedAt: time.Now(),
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

// maxTitleLength is the longest first line still treated as a title.
const maxTitleLength = 200

// extractTitle uses the first short non-empty line of the extracted text
// as the title, falling back to the filename.
func extractTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) <= maxTitleLength {
			return line
		}
	}

	title := plaintext.TitleFromURI(uri)
	if title == "" {
		title = filepath.Base(uri)
	}
	return title
}
