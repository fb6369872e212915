package domain

import (
	"fmt"
	"strings"
	"time"
)

// Project is the aggregate the pipeline builds up over time. Each project
// is identified by its normalised name; every snippet ever extracted for
// it is appended to AggregatedData with a source header. AggregatedData is
// append-only: the pipeline never rewrites or deletes prior snippets, only
// the classification fields are overwritten.
type Project struct {
	// ID is the database primary key.
	ID int64

	// Name is the unique, whitespace-normalised project name.
	Name string

	// Category, SubCategory and Scope are the classification fields,
	// populated by the categorisation pass after extraction.
	Category    string
	SubCategory string
	Scope       string

	// AggregatedData is the concatenation of all snippets extracted for
	// this project, each prefixed with a source header.
	AggregatedData string

	// CreatedAt is when the project was first discovered.
	CreatedAt time.Time

	// UpdatedAt is when the project was last touched.
	UpdatedAt time.Time
}

// Classification is the three-field result of the categorisation pass.
type Classification struct {
	Category    string
	SubCategory string
	Scope       string
}

// Classification sentinel values used when the model cannot classify.
const (
	CategoryUncategorised = "Uncategorized"
	ScopeUnclassified     = "Unclassified"
)

// Uncategorised returns the sentinel classification recorded when the
// categorisation call fails or returns an unusable response.
func Uncategorised() Classification {
	return Classification{
		Category:    CategoryUncategorised,
		SubCategory: "",
		Scope:       ScopeUnclassified,
	}
}

// NormaliseName trims a project name and collapses internal runs of
// whitespace to single spaces. Normalised names are the only identity
// mechanism for projects; there is no fuzzy matching or alias resolution.
func NormaliseName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// SnippetHeader formats the header block prefixed to every snippet
// appended to a project's aggregated data.
func SnippetHeader(sourceFile string, ts time.Time) string {
	return fmt.Sprintf("\n\n--- Source: %s | Extracted: %s ---\n",
		sourceFile, ts.UTC().Format(time.RFC3339))
}
