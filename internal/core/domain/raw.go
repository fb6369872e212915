package domain

import "time"

// RawDocument represents opaque bytes read from disk before normalisation.
type RawDocument struct {
	// URI is the original file location.
	URI string

	// Ext is the lowercase file extension including the dot (".pdf").
	Ext string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains discovery-specific key-value pairs.
	Metadata map[string]any
}

// FileStatus describes how discovery classified a file against the
// processed-files log.
type FileStatus string

const (
	// FileNew indicates the file has never been processed.
	FileNew FileStatus = "new"

	// FileUpdated indicates the file changed since it was last processed.
	FileUpdated FileStatus = "updated"

	// FileSkipped indicates the file was already processed and is unchanged.
	FileSkipped FileStatus = "skipped"
)

// FileRecord is a discovered candidate file.
type FileRecord struct {
	// Path is the absolute file path.
	Path string

	// Ext is the lowercase extension including the dot.
	Ext string

	// Status is the discovery classification.
	Status FileStatus

	// ModTime is the file's last modification time.
	ModTime time.Time
}

// SupportedExtensions is the fixed set of document types the pipeline
// scans for.
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".pptx": true,
	".xlsx": true,
	".xls":  true,
}
