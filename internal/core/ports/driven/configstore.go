package driven

// ConfigStore provides persistent key-value configuration.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	GetBool(key string) bool

	// Set stores a configuration value.
	Set(key string, value any) error

	// Delete removes a configuration value.
	Delete(key string) error

	// Load reads configuration from the backing store.
	Load() error

	// Save writes configuration to the backing store.
	Save() error
}

// Well-known configuration keys.
const (
	// ConfigOllamaURL is the base URL of the generation endpoint.
	ConfigOllamaURL = "ollama.base_url"

	// ConfigOllamaModel is the default model name.
	ConfigOllamaModel = "ollama.model"

	// ConfigChunkSize is the chunk size in words.
	ConfigChunkSize = "processing.chunk_size"

	// ConfigChunkOverlap is the chunk overlap in words.
	ConfigChunkOverlap = "processing.chunk_overlap"

	// ConfigWorkers is the number of parallel file workers.
	ConfigWorkers = "processing.workers"
)
