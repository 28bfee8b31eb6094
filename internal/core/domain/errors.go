package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCollectionNotFound indicates the vector collection has not been
	// created yet. Running ingest creates it.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Both ingestion and retrieval require it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStoreUnavailable indicates the vector store is not configured.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrLLMUnavailable indicates the generative service is not configured.
	// Retrieval still works; analysis is degraded, never the search path.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmptyCorpus indicates ingestion produced no chunks to index.
	ErrEmptyCorpus = errors.New("corpus produced no chunks")
)
