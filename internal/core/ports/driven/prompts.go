package driven

// PromptStore provides access to LLM prompt templates and the
// categorisation taxonomy document. Implementations may load them from
// files, embed them in the binary, or fetch them from elsewhere.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Implementations should fall back to a sensible default when the
	// prompt is not found on disk.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptFindNames asks the model to list project names in a chunk.
	// The template expects a %s placeholder for the chunk text.
	PromptFindNames = "find_names"

	// PromptExtractSnippet asks the model to copy verbatim text about a
	// named project. The template expects %s (project name), %s (chunk),
	// %s (project name again) placeholders.
	PromptExtractSnippet = "extract_snippet"

	// PromptCategorise classifies a project against the taxonomy.
	// The template expects %s (taxonomy document) and %s (project text).
	PromptCategorise = "categorise"

	// PromptTaxonomy is the categorisation schema document itself, not a
	// prompt template. It is substituted into PromptCategorise.
	PromptTaxonomy = "taxonomy"
)
