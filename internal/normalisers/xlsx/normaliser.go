// Package xlsx provides a normaliser for Excel workbooks.
package xlsx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
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

// Normaliser handles XLSX workbooks. Cell values are flattened row by
// row; shared strings are resolved. Legacy binary .xls files are claimed
// so discovery routes them here, but they are not a ZIP archive and
// normalisation reports them as invalid input.
type Normaliser struct{}

// New creates a new XLSX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".xlsx", ".xls"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific normaliser
}

var sheetPattern = regexp.MustCompile(`^xl/worksheets/sheet(\d+)\.xml$`)

// Normalise converts an XLSX workbook to plain text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not an OOXML workbook", domain.ErrInvalidInput)
	}

	shared := loadSharedStrings(reader)
	sheets := collectSheets(reader)

	var result strings.Builder
	for i, sheet := range sheets {
		if i > 0 {
			result.WriteString("\n\n")
		}
		result.WriteString(renderSheet(sheet, shared))
	}

	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Title:     plaintext.TitleFromURI(raw.URI),
		Content:   strings.TrimSpace(result.String()),
		Metadata:  map[string]any{"format": "xlsx", "sheet_count": len(sheets)},
		CreatedAt: time.Now(),
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

// sharedStringsXML represents xl/sharedStrings.xml. Rich-text entries
// carry their text in nested runs, so both locations are read.
type sharedStringsXML struct {
	Items []sharedString `xml:"si"`
}

type sharedString struct {
	Text string   `xml:"t"`
	Runs []string `xml:"r>t"`
}

func (s sharedString) value() string {
	if s.Text != "" {
		return s.Text
	}
	return strings.Join(s.Runs, "")
}

// loadSharedStrings reads the shared string table, if present.
func loadSharedStrings(reader *zip.Reader) []string {
	for _, file := range reader.File {
		if file.Name != "xl/sharedStrings.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil
		}

		var table sharedStringsXML
		if err := xml.Unmarshal(content, &table); err != nil {
			return nil
		}

		strs := make([]string, len(table.Items))
		for i, item := range table.Items {
			strs[i] = item.value()
		}
		return strs
	}
	return nil
}

// sheetXML represents a worksheet part.
type sheetXML struct {
	Rows []rowXML `xml:"sheetData>row"`
}

type rowXML struct {
	Cells []cellXML `xml:"c"`
}

type cellXML struct {
	Type   string `xml:"t,attr"`
	Value  string `xml:"v"`
	Inline string `xml:"is>t"`
}

// collectSheets parses all worksheet parts in numeric order.
func collectSheets(reader *zip.Reader) []sheetXML {
	type part struct {
		index int
		sheet sheetXML
	}

	var parts []part
	for _, file := range reader.File {
		m := sheetPattern.FindStringSubmatch(file.Name)
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

		var sheet sheetXML
		if err := xml.Unmarshal(content, &sheet); err != nil {
			continue
		}
		parts = append(parts, part{index: index, sheet: sheet})
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].index < parts[j].index })

	sheets := make([]sheetXML, 0, len(parts))
	for _, p := range parts {
		sheets = append(sheets, p.sheet)
	}
	return sheets
}

// renderSheet flattens a worksheet: cells joined by spaces, rows by
// newlines. Shared-string cells (t="s") are resolved through the table.
func renderSheet(sheet sheetXML, shared []string) string {
	var rows []string
	for _, row := range sheet.Rows {
		var cells []string
		for _, cell := range row.Cells {
			v := cellValue(cell, shared)
			if v != "" {
				cells = append(cells, v)
			}
		}
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, " "))
		}
	}
	return strings.Join(rows, "\n")
}

func cellValue(cell cellXML, shared []string) string {
	switch cell.Type {
	case "s":
		idx, err := strconv.Atoi(cell.Value)
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return strings.TrimSpace(shared[idx])
	case "inlineStr":
		return strings.TrimSpace(cell.Inline)
	default:
		return strings.TrimSpace(cell.Value)
	}
}
