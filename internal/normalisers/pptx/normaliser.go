// Package pptx provides a normaliser for PowerPoint presentations.
package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
	"github.com/equinox-labs/prospect-cli/internal/normalisers/plaintext"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PPTX presentations. Slide text is concatenated in
// slide order, followed by speaker notes when present.
type Normaliser struct{}

// New creates a new PPTX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".pptx"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific normaliser
}

var (
	slidePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	notesPattern = regexp.MustCompile(`^ppt/notesSlides/notesSlide(\d+)\.xml$`)
)

// Normalise converts a PPTX presentation to plain text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	slides := collectParts(reader, slidePattern)
	notes := collectParts(reader, notesPattern)

	var result strings.Builder
	for i, text := range slides {
		if i > 0 {
			result.WriteString("\n\n")
		}
		result.WriteString(text)
	}

	if len(notes) > 0 {
		result.WriteString("\n\n--- SPEAKER NOTES ---\n")
		for i, text := range notes {
			if i > 0 {
				result.WriteString("\n\n")
			}
			result.WriteString(text)
		}
	}

	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Title:     plaintext.TitleFromURI(raw.URI),
		Content:   strings.TrimSpace(result.String()),
		Metadata:  map[string]any{"format": "pptx", "slide_count": len(slides)},
		CreatedAt: time.Now(),
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

// collectParts extracts text from all archive parts matching pattern,
// ordered by the part's numeric suffix.
func collectParts(reader *zip.Reader, pattern *regexp.Regexp) []string {
	type part struct {
		index int
		text  string
	}

	var parts []part
	for _, file := range reader.File {
		m := pattern.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}

		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			continue
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		if text := extractSlideText(content); text != "" {
			parts = append(parts, part{index: index, text: text})
		}
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].index < parts[j].index })

	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		texts = append(texts, p.text)
	}
	return texts
}

// slideXML pulls every DrawingML text run regardless of nesting.
type slideXML struct {
	Texts []string `xml:"cSld>spTree>sp>txBody>p>r>t"`
}

// extractSlideText extracts the text runs from a slide or notes part.
// Runs within the same part are joined with single spaces.
func extractSlideText(content []byte) string {
	var slide slideXML
	if err := xml.Unmarshal(content, &slide); err != nil {
		return ""
	}

	var texts []string
	for _, t := range slide.Texts {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			texts = append(texts, trimmed)
		}
	}
	return strings.Join(texts, " ")
}
