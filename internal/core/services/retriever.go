package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
	"github.com/custodia-labs/askpdf-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askpdf-cli/internal/logger"
)

// Over-fetch bounds: nearest-neighbour candidates requested beyond top-k so
// threshold filtering has room to discard before truncation.
const (
	overFetchFactor = 10
	overFetchCap    = 500
)

// tokensPerWord is a fixed heuristic for estimating token cost from word
// count. It is a documented approximation, not a tokenizer; replace the
// estimator, not the call sites, if real token counts are ever needed.
const tokensPerWord = 1.3

// RetrievalResult is one query's retrieval output.
type RetrievalResult struct {
	// Hits are the kept candidates, similarity descending.
	Hits []domain.SearchHit

	// Context is the assembled, token-budgeted context string.
	Context string

	// Elapsed is the retrieval wall-clock time.
	Elapsed time.Duration
}

// Retriever embeds a question, searches the store, filters by similarity
// and assembles a bounded context string.
type Retriever struct {
	store            driven.VectorStore
	embedder         driven.EmbeddingService
	collection       string
	maxContextTokens int
}

// NewRetriever creates a retriever. A non-positive token budget falls back
// to the default.
func NewRetriever(
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	collection string,
	maxContextTokens int,
) *Retriever {
	if maxContextTokens <= 0 {
		maxContextTokens = domain.DefaultMaxContextTokens
	}
	return &Retriever{
		store:            store,
		embedder:         embedder,
		collection:       collection,
		maxContextTokens: maxContextTokens,
	}
}

// Retrieve runs the retrieval pipeline for one question. The question is
// embedded with the same service used at ingestion time; mismatched
// embedding spaces would invalidate every similarity score.
func (r *Retriever) Retrieve(ctx context.Context, question string, topK int, cutoff float64) (*RetrievalResult, error) {
	start := time.Now()

	if r.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if r.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	queryVec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	overFetch := topK * overFetchFactor
	if overFetch > overFetchCap {
		overFetch = overFetchCap
	}

	candidates, err := r.store.Query(ctx, r.collection, queryVec, overFetch)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}
	logger.Debug("Retrieval: %d candidates for top_k=%d cutoff=%.2f", len(candidates), topK, cutoff)

	hits := make([]domain.SearchHit, 0, len(candidates))
	for _, c := range candidates {
		similarity := 1.0 - c.Distance
		if similarity < cutoff {
			continue
		}
		hits = append(hits, hitFromResult(c, similarity))
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].SimilarityScore > hits[j].SimilarityScore
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}

	context := r.assembleContext(hits)
	logger.Debug("Retrieval: kept %d hits, context %d chars", len(hits), len(context))

	return &RetrievalResult{
		Hits:    hits,
		Context: context,
		Elapsed: time.Since(start),
	}, nil
}

// assembleContext greedily appends labelled hit blocks in ranked order
// until the next block would exceed the token budget. A block that does
// not fit whole is not included at all.
func (r *Retriever) assembleContext(hits []domain.SearchHit) string {
	var blocks []string
	budget := float64(r.maxContextTokens)
	used := 0.0

	for _, hit := range hits {
		block := fmt.Sprintf("[%s | page %d | similarity %.4f]\n%s",
			hit.SourcePDF, hit.PageNumber, hit.SimilarityScore, hit.Document)

		cost := estimateTokens(hit.WordCount)
		if used+cost > budget {
			break
		}
		blocks = append(blocks, block)
		used += cost
	}

	return strings.Join(blocks, "\n\n")
}

// estimateTokens converts a word count to an estimated token cost.
func estimateTokens(wordCount int) float64 {
	return float64(wordCount) * tokensPerWord
}

// hitFromResult converts a store result into a search hit, reading chunk
// attributes back out of the persisted metadata.
func hitFromResult(res driven.QueryResult, similarity float64) domain.SearchHit {
	hit := domain.SearchHit{
		Document:        res.Document,
		SimilarityScore: similarity,
	}
	if v, ok := res.Metadata["source_pdf"].(string); ok {
		hit.SourcePDF = v
	}
	hit.PageNumber = metadataInt(res.Metadata, "page_number")
	hit.ChunkIndex = metadataInt(res.Metadata, "chunk_index")
	hit.WordCount = metadataInt(res.Metadata, "word_count")
	if hit.WordCount == 0 {
		hit.WordCount = len(strings.Fields(res.Document))
	}
	return hit
}

// metadataInt reads an integer metadata value, tolerating the numeric
// types JSON round-trips produce.
func metadataInt(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
