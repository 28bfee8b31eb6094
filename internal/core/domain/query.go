package domain

// Default retrieval parameters.
const (
	// DefaultTopK is the number of hits returned when the caller does not
	// specify one.
	DefaultTopK = 20

	// DefaultSimilarityCutoff is the minimum similarity a hit needs to be
	// considered relevant.
	DefaultSimilarityCutoff = 0.2

	// DefaultMaxContextTokens bounds the estimated token cost of the
	// assembled context string.
	DefaultMaxContextTokens = 4000
)

// QueryOptions configures one question against the corpus.
type QueryOptions struct {
	// TopK is the maximum number of hits to return (default 20).
	TopK int

	// SimilarityCutoff is the minimum acceptable similarity (default 0.2).
	SimilarityCutoff float64

	// IncludeAnalysis enables the generative analysis step.
	IncludeAnalysis bool
}

// SearchHit joins a stored chunk with its similarity for one query.
// Hits are ephemeral; they exist only for the duration of a request.
type SearchHit struct {
	// Document is the chunk text.
	Document string `json:"document"`

	// SourcePDF is the originating file name.
	SourcePDF string `json:"source_pdf"`

	// PageNumber is the 1-based page within the source.
	PageNumber int `json:"page_number"`

	// SimilarityScore is 1 - distance for the query vector.
	SimilarityScore float64 `json:"similarity_score"`

	// ChunkIndex is the 0-based window index within the page.
	ChunkIndex int `json:"chunk_index"`

	// WordCount is used by context assembly for token estimation.
	WordCount int `json:"-"`
}

// QueryResponse is the full answer for one question.
type QueryResponse struct {
	// Question echoes the input question.
	Question string `json:"question"`

	// Results are the ranked hits, similarity descending.
	Results []SearchHit `json:"results"`

	// ContextUsed is the assembled, token-budgeted context string.
	ContextUsed string `json:"context_used"`

	// Analysis is the parsed generative result. Nil when analysis was not
	// requested or the context was empty.
	Analysis *StructuredAnalysis `json:"analysis,omitempty"`

	// ProcessingTime is the wall-clock request duration in seconds.
	ProcessingTime float64 `json:"processing_time"`

	// TotalResults is len(Results).
	TotalResults int `json:"total_results"`
}
