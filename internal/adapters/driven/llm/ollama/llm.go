// Package ollama provides an LLM service adapter using Ollama.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 240 * time.Second

	// DefaultRequestsPerSecond caps request throughput so a single run
	// cannot saturate the local inference server.
	DefaultRequestsPerSecond = 2
)

// minNameLength filters out fragments the model sometimes returns in
// place of real project names.
const minNameLength = 3

// maxCategoriseChars bounds the project text sent for categorisation.
// Aggregated blobs can grow far past the model's useful context.
const maxCategoriseChars = 8000

// Temperatures per operation. Name finding tolerates slight variation;
// snippet extraction and categorisation must be deterministic.
const (
	findNamesTemperature  = 0.1
	extractTemperature    = 0.0
	categoriseTemperature = 0.0
)

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the LLM model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 240s).
	Timeout time.Duration

	// RequestsPerSecond limits request throughput (default: 2).
	RequestsPerSecond int
}

// LLMService provides LLM operations using Ollama.
type LLMService struct {
	client      *http.Client
	baseURL     string
	model       string
	limiter     *rate.Limiter
	promptStore driven.PromptStore
}

// generateRequest is the Ollama /api/generate request format. Format
// "json" constrains the completion to a JSON object.
type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Format  string   `json:"format,omitempty"`
	Options *options `json:"options,omitempty"`
}

// options holds generation parameters.
type options struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p,omitempty"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// tagsResponse is the Ollama /api/tags response format.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestsPerSecond),
	}
}

// generate issues a single completion request and returns the raw
// completion string.
func (s *LLMService) generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	reqBody := generateRequest{
		Model:  s.model,
		Prompt: prompt,
		Stream: false,
		Format: "json",
		Options: &options{
			Temperature: temperature,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("%w: status %d", domain.ErrLLMUnavailable, resp.StatusCode)
		}
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrLLMUnavailable, resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrLLMBadResponse, err)
	}

	return genResp.Response, nil
}

// stripJSONFences removes markdown code block fences some models wrap
// around JSON completions.
func stripJSONFences(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}

// defaultFindNamesPrompt is the fallback prompt when no PromptStore is configured.
const defaultFindNamesPrompt = `You are an AI assistant for an engineering company. Your task is to identify and extract the names of specific engineering or construction projects from the text provided below.

INSTRUCTIONS:
- Scan the text for proper nouns that appear to be project names (e.g., "Kaybob South Gas Plant", "West Doe Battery").
- Do NOT extract generic terms like "the project" or "the facility" unless they are part of a specific name.
- Return your answer in JSON format with a single key "project_names", which contains a list of the names you found.
- If no project names are found, return an empty list: {"project_names": []}

TEXT TO ANALYZE:
---
%s
---

JSON Response:`

// FindProjectNames extracts candidate project names from a text chunk.
// Names are trimmed, deduplicated, filtered to a sensible minimum length
// and sorted.
func (s *LLMService) FindProjectNames(ctx context.Context, chunk string) ([]string, error) {
	promptTemplate := s.loadPrompt(driven.PromptFindNames, defaultFindNamesPrompt)
	prompt := fmt.Sprintf(promptTemplate, chunk)

	raw, err := s.generate(ctx, prompt, findNamesTemperature)
	if err != nil {
		return nil, fmt.Errorf("find project names: %w", err)
	}

	var parsed struct {
		ProjectNames []string `json:"project_names"`
	}
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse project names: %v", domain.ErrLLMBadResponse, err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, name := range parsed.ProjectNames {
		name = strings.TrimSpace(name)
		if len(name) <= minNameLength || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// defaultExtractSnippetPrompt is the fallback prompt when no PromptStore is configured.
const defaultExtractSnippetPrompt = `You are an AI assistant. Your task is to extract the verbatim text related to a specific project from the document chunk provided below.

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

JSON Response (only the snippet for "%s"):`

// ExtractSnippet copies the verbatim text discussing projectName out of
// the chunk. ok is false when the model found nothing relevant.
func (s *LLMService) ExtractSnippet(ctx context.Context, chunk, projectName string) (string, bool, error) {
	promptTemplate := s.loadPrompt(driven.PromptExtractSnippet, defaultExtractSnippetPrompt)
	prompt := fmt.Sprintf(promptTemplate, projectName, chunk, projectName)

	raw, err := s.generate(ctx, prompt, extractTemperature)
	if err != nil {
		return "", false, fmt.Errorf("extract snippet: %w", err)
	}

	var parsed struct {
		Snippet *string `json:"snippet"`
	}
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &parsed); err != nil {
		return "", false, fmt.Errorf("%w: parse snippet: %v", domain.ErrLLMBadResponse, err)
	}

	if parsed.Snippet == nil || strings.TrimSpace(*parsed.Snippet) == "" {
		return "", false, nil
	}
	return strings.TrimSpace(*parsed.Snippet), true, nil
}

// defaultCategorisePrompt is the fallback prompt when no PromptStore is configured.
const defaultCategorisePrompt = `You are an expert EPCM (Engineering, Procurement, and Construction Management) project classifier.
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

Based on the official schema, please classify this project.`

// Categorise classifies a project's aggregated text against the taxonomy
// document. Failures never propagate: the caller always gets a usable
// classification, falling back to the uncategorised sentinel.
func (s *LLMService) Categorise(ctx context.Context, projectText string) domain.Classification {
	taxonomy, err := s.loadTaxonomy()
	if err != nil {
		return domain.Uncategorised()
	}

	if len(projectText) > maxCategoriseChars {
		projectText = projectText[:maxCategoriseChars]
	}

	promptTemplate := s.loadPrompt(driven.PromptCategorise, defaultCategorisePrompt)
	prompt := fmt.Sprintf(promptTemplate, taxonomy, projectText)

	raw, err := s.generate(ctx, prompt, categoriseTemperature)
	if err != nil {
		return domain.Uncategorised()
	}

	var parsed struct {
		Category    *string `json:"category"`
		SubCategory *string `json:"sub_category"`
		Scope       *string `json:"project_scope"`
	}
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &parsed); err != nil {
		return domain.Uncategorised()
	}

	result := domain.Uncategorised()
	if parsed.Category != nil {
		result.Category = *parsed.Category
	}
	if parsed.SubCategory != nil {
		result.SubCategory = *parsed.SubCategory
	}
	if parsed.Scope != nil {
		result.Scope = *parsed.Scope
	}
	return result
}

// loadTaxonomy loads the categorisation schema document. Without it
// classification is impossible.
func (s *LLMService) loadTaxonomy() (string, error) {
	if s.promptStore == nil {
		return "", fmt.Errorf("no prompt store configured")
	}
	taxonomy, err := s.promptStore.Load(driven.PromptTaxonomy)
	if err != nil {
		return "", fmt.Errorf("load taxonomy: %w", err)
	}
	if strings.TrimSpace(taxonomy) == "" {
		return "", fmt.Errorf("taxonomy document is empty")
	}
	return taxonomy, nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *LLMService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// ListModels returns the model names available on the endpoint, sorted.
func (s *LLMService) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrLLMUnavailable, resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("%w: decode models: %v", domain.ErrLLMBadResponse, err)
	}

	models := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		models = append(models, m.Name)
	}
	sort.Strings(models)
	return models, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// SetModel switches the model used for subsequent requests. Call before
// starting a run; requests in flight keep the old model.
func (s *LLMService) SetModel(model string) {
	if model != "" {
		s.model = model
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts
// and the taxonomy document. If not set, the service uses hardcoded
// default prompts and categorisation always falls back to the sentinel.
func (s *LLMService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
// This is a lightweight check that validates connectivity without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: ping failed: %v", domain.ErrLLMUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: API returned status %d", domain.ErrLLMUnavailable, resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
