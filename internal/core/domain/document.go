package domain

import "time"

// Document is the canonical representation of a parsed file after
// normalisation: flattened plain text plus metadata. Documents are
// transient in this pipeline; only the extracted snippets persist.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original file location.
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full text content after normalisation.
	Content string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was parsed.
	CreatedAt time.Time
}

// Chunk is a bounded-length slice of a document's text, produced by
// word-based splitting with configurable overlap. Chunks exist only for
// the duration of one document's processing and are never persisted.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}
