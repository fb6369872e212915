// Package chunker provides a word-based text chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of words per chunk.
const DefaultChunkSize = 400

// DefaultChunkOverlap is the default number of overlapping words.
const DefaultChunkOverlap = 50

// Processor splits document content into overlapping word-based chunks.
// It implements the PostProcessor interface. Splitting is purely on
// word-count boundaries; chunks are not sentence-aware.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in words.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in words.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from
// document content. Empty content produces no chunks; content shorter
// than one chunk produces exactly one; the final chunk may be shorter
// than the nominal size.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	words := strings.Fields(doc.Content)
	if len(words) == 0 {
		return nil, nil
	}

	step := p.chunkSize - p.overlap
	estimated := (len(words) / step) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	for start := 0; start < len(words); start += step {
		end := start + p.chunkSize
		if end > len(words) {
			end = len(words)
		}

		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    strings.Join(words[start:end], " "),
			Position:   len(chunks),
			Metadata:   make(map[string]any),
		})

		// The final window reaches the end of the text; a further step
		// would only re-emit words already covered.
		if end == len(words) {
			break
		}
	}

	return chunks, nil
}
