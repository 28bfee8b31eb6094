package driven

import "context"

// VectorStore persists embedding records grouped into named collections and
// answers nearest-neighbour queries over one collection.
//
// The ingestion contract is a destructive rebuild: DeleteCollection then
// CreateCollection, then batched Add calls. Record IDs are unique within a
// collection and writes of duplicate IDs fail.
type VectorStore interface {
	// CreateCollection creates an empty collection.
	CreateCollection(ctx context.Context, name string) error

	// DeleteCollection removes a collection and all its records.
	// Deleting a collection that does not exist is not an error.
	DeleteCollection(ctx context.Context, name string) error

	// Add writes one batch of records. All slices in the batch are aligned
	// by position and must have equal length.
	Add(ctx context.Context, collection string, batch AddBatch) error

	// Query returns the n records nearest to the query vector, distance
	// ascending. Fewer than n records are returned when the collection is
	// smaller than n.
	Query(ctx context.Context, collection string, embedding []float32, n int) ([]QueryResult, error)

	// Count returns the number of records in the collection.
	Count(ctx context.Context, collection string) (int, error)

	// Close releases resources.
	Close() error
}

// AddBatch is one aligned batch of records to persist.
type AddBatch struct {
	// IDs are the unique record keys.
	IDs []string

	// Documents are the chunk texts.
	Documents []string

	// Embeddings are the L2-normalised vectors.
	Embeddings [][]float32

	// Metadatas carry per-record chunk attributes.
	Metadatas []map[string]any
}

// QueryResult is one nearest-neighbour match.
type QueryResult struct {
	// ID is the record key.
	ID string

	// Document is the stored chunk text.
	Document string

	// Metadata is the stored chunk attributes.
	Metadata map[string]any

	// Distance is the cosine distance to the query vector (1 - cosine
	// similarity for normalised vectors).
	Distance float64
}
