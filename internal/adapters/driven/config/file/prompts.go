package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts and the categorisation taxonomy from
// user-editable files on disk, with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptFindNames: `You are an AI assistant for an engineering company. Your task is to identify and extract the names of specific engineering or construction projects from the text provided below.

INSTRUCTIONS:
- Scan the text for proper nouns that appear to be project names (e.g., "Kaybob South Gas Plant", "West Doe Battery").
- Do NOT extract generic terms like "the project" or "the facility" unless they are part of a specific name.
- Return your answer in JSON format with a single key "project_names", which contains a list of the names you found.
- If no project names are found, return an empty list: {"project_names": []}

TEXT TO ANALYZE:
---
%s
---

JSON Response:`,

	driven.PromptExtractSnippet: `You are an AI assistant. Your task is to extract the verbatim text related to a specific project from the document chunk provided below.

INSTRUCTIONS:
- The project you are looking for is named: "%s"
- Find the paragraph or section in the "DOCUMENT CHUNK" that discusses this project.
- Extract this text *exactly* as it appears in the document, without any modification, summarization, or added commentary.
- Respond in JSON format with a single key "snippet" containing the verbatim text you extracted.
- If you cannot find a relevant snippet, return null for the snippet value.

DOCUMENT CHUNK:
---
%s
---

JSON Response (only the snippet for "%s"):`,

	driven.PromptCategorise: `You are an expert EPCM (Engineering, Procurement, and Construction Management) project classifier.
Your task is to analyze the provided project text and assign it a category, sub_category, and project_scope based only on the official schema provided below.

**OFFICIAL SCHEMA:**
%s

**Instructions:**
1. Read the project text carefully.
2. Compare the text against the categories, sub-categories, and scopes in the official schema.
3. Choose the BEST and MOST SPECIFIC category and sub_category that fits the project description.
4. Determine the MOST ACCURATE project_scope.
5. If no sub-category is applicable for a chosen category, return an empty string for sub_category.
6. If the text is ambiguous or lacks information, make the best possible choice but do not invent new classifications.
7. Your output MUST be a JSON object with three keys: "category", "sub_category", and "project_scope".

**Project Text to Analyze:**
---
%s
---

Based on the official schema, please classify this project.`,

	driven.PromptTaxonomy: `# Project Categorisation Schema

## Categories and Sub-Categories

- **Facilities**
  - Gas Processing
  - Compression
  - Batteries
  - Well Pads
- **Pipelines**
  - Gathering
  - Transmission
  - Distribution
- **Civil / Structural**
  - Foundations
  - Buildings
  - Earthworks
- **Electrical / Instrumentation**
  - Power Distribution
  - Control Systems
  - Metering

## Project Scopes

- Greenfield
- Brownfield
- Debottleneck
- Maintenance / Turnaround
- Study / FEED
`,
}

// promptFileNames maps prompt names to their on-disk filenames. The
// taxonomy is a markdown document rather than a prompt template.
var promptFileNames = map[string]string{
	driven.PromptFindNames:      driven.PromptFindNames + ".txt",
	driven.PromptExtractSnippet: driven.PromptExtractSnippet + ".txt",
	driven.PromptCategorise:     driven.PromptCategorise + ".txt",
	driven.PromptTaxonomy:       driven.PromptTaxonomy + ".md",
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.prospect/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".prospect", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, promptFileNames[name])
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	filename, ok := promptFileNames[name]
	if !ok {
		filename = name + ".txt"
	}

	data, err := os.ReadFile(filepath.Join(s.promptDir, filename))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Prospect Prompts

This directory contains customisable prompts used by Prospect's LLM pipeline.

## Files

- ` + "`find_names.txt`" + ` - Identifies project names in a document chunk
- ` + "`extract_snippet.txt`" + ` - Copies verbatim text about a named project
- ` + "`categorise.txt`" + ` - Classifies a project against the taxonomy
- ` + "`taxonomy.md`" + ` - The categorisation schema document itself

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the next
command.

## Format Placeholders

The prompt templates use Go fmt placeholders:
- ` + "`%s`" + ` - String (the chunk text, project name, or taxonomy)

Ensure customised prompts maintain placeholders in the correct positions.
`
	return os.WriteFile(path, []byte(content), 0600)
}
