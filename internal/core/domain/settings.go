package domain

// Default ingestion parameters.
const (
	// DefaultChunkSize is the chunk window size in words.
	DefaultChunkSize = 500

	// DefaultEmbedBatchSize is the number of chunk texts encoded per
	// embedding request.
	DefaultEmbedBatchSize = 32

	// DefaultWriteBatchSize bounds records per store transaction.
	DefaultWriteBatchSize = 4000

	// DefaultMaxNewTokens bounds generative output length.
	DefaultMaxNewTokens = 512

	// DefaultCollection is the vector collection name.
	DefaultCollection = "pdf_chunks"
)

// Provider names accepted for embedding and LLM backends.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Settings holds the user-editable application configuration.
// Zero values are replaced by documented defaults in ApplyDefaults.
type Settings struct {
	// RawDir is the directory of candidately-named input PDFs.
	RawDir string `toml:"raw_dir"`

	// StagingDir receives the selected variant of each document.
	StagingDir string `toml:"staging_dir"`

	// DataDir holds the sqlite vector store.
	DataDir string `toml:"data_dir"`

	// Collection is the vector collection name.
	Collection string `toml:"collection"`

	// ChunkSize is the chunk window size in words.
	ChunkSize int `toml:"chunk_size"`

	// EmbedBatchSize is the embedding request batch size.
	EmbedBatchSize int `toml:"embed_batch_size"`

	// WriteBatchSize is the store write transaction size.
	WriteBatchSize int `toml:"write_batch_size"`

	// MaxWorkers caps the extraction worker pool. Zero means derive from
	// the host core count.
	MaxWorkers int `toml:"max_workers"`

	// TopK is the default number of retrieval hits.
	TopK int `toml:"top_k"`

	// SimilarityCutoff is the default minimum similarity.
	SimilarityCutoff float64 `toml:"similarity_cutoff"`

	// MaxContextTokens is the context assembly budget.
	MaxContextTokens int `toml:"max_context_tokens"`

	// MaxNewTokens bounds generative output length.
	MaxNewTokens int `toml:"max_new_tokens"`

	// EmbeddingProvider selects the embedding backend ("ollama", "openai").
	EmbeddingProvider string `toml:"embedding_provider"`

	// EmbeddingModel is the embedding model name.
	EmbeddingModel string `toml:"embedding_model"`

	// EmbedRequestsPerSecond rate-limits embedding calls. Zero disables
	// the limiter.
	EmbedRequestsPerSecond float64 `toml:"embed_requests_per_second"`

	// LLMProvider selects the generative backend ("ollama", "openai").
	LLMProvider string `toml:"llm_provider"`

	// LLMModel is the generative model name.
	LLMModel string `toml:"llm_model"`

	// OllamaBaseURL is the Ollama API base URL.
	OllamaBaseURL string `toml:"ollama_base_url"`

	// OpenAIAPIKey authenticates OpenAI requests when selected.
	OpenAIAPIKey string `toml:"openai_api_key"`
}

// ApplyDefaults fills zero-valued fields with documented defaults.
func (s *Settings) ApplyDefaults() {
	if s.Collection == "" {
		s.Collection = DefaultCollection
	}
	if s.ChunkSize <= 0 {
		s.ChunkSize = DefaultChunkSize
	}
	if s.EmbedBatchSize <= 0 {
		s.EmbedBatchSize = DefaultEmbedBatchSize
	}
	if s.WriteBatchSize <= 0 {
		s.WriteBatchSize = DefaultWriteBatchSize
	}
	if s.TopK <= 0 {
		s.TopK = DefaultTopK
	}
	if s.SimilarityCutoff == 0 {
		s.SimilarityCutoff = DefaultSimilarityCutoff
	}
	if s.MaxContextTokens <= 0 {
		s.MaxContextTokens = DefaultMaxContextTokens
	}
	if s.MaxNewTokens <= 0 {
		s.MaxNewTokens = DefaultMaxNewTokens
	}
	if s.EmbeddingProvider == "" {
		s.EmbeddingProvider = ProviderOllama
	}
	if s.LLMProvider == "" {
		s.LLMProvider = ProviderOllama
	}
}
