package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
	"github.com/custodia-labs/askpdf-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askpdf-cli/internal/logger"
)

// EmbeddingIndexer converts chunk text to vectors and persists them with
// full-rebuild semantics: the target collection is dropped and recreated
// before any write, so a crash mid-batch leaves a partial collection that
// the next rebuild overwrites cleanly.
type EmbeddingIndexer struct {
	store      driven.VectorStore
	embedder   driven.EmbeddingService
	collection string
	embedBatch int
	writeBatch int
}

// NewEmbeddingIndexer creates an indexer. Non-positive batch sizes fall
// back to the documented defaults.
func NewEmbeddingIndexer(
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	collection string,
	embedBatch, writeBatch int,
) *EmbeddingIndexer {
	if embedBatch <= 0 {
		embedBatch = domain.DefaultEmbedBatchSize
	}
	if writeBatch <= 0 {
		writeBatch = domain.DefaultWriteBatchSize
	}
	return &EmbeddingIndexer{
		store:      store,
		embedder:   embedder,
		collection: collection,
		embedBatch: embedBatch,
		writeBatch: writeBatch,
	}
}

// Rebuild replaces the collection with records for the given chunks and
// returns the number of records written. Embedding and storage run as
// bounded sequential batches; batch size, not concurrency, is the
// throughput lever here because the embedding backend is a single shared
// resource.
func (x *EmbeddingIndexer) Rebuild(ctx context.Context, chunks []domain.Chunk) (int, error) {
	if x.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}
	if x.store == nil {
		return 0, domain.ErrStoreUnavailable
	}

	logger.Section("Embedding Rebuild")
	logger.Info("Rebuilding collection %s with %d chunks (model %s)",
		x.collection, len(chunks), x.embedder.ModelName())

	if err := x.store.DeleteCollection(ctx, x.collection); err != nil {
		return 0, fmt.Errorf("delete collection: %w", err)
	}
	if err := x.store.CreateCollection(ctx, x.collection); err != nil {
		return 0, fmt.Errorf("create collection: %w", err)
	}

	written := 0
	pending := driven.AddBatch{}

	for start := 0; start < len(chunks); start += x.embedBatch {
		end := start + x.embedBatch
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := x.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return written, fmt.Errorf("embed batch at %d: %w", start, err)
		}
		if len(vectors) != len(batch) {
			return written, fmt.Errorf("embed batch at %d: got %d vectors for %d texts", start, len(vectors), len(batch))
		}

		for i, c := range batch {
			pending.IDs = append(pending.IDs, c.ID())
			pending.Documents = append(pending.Documents, c.Text)
			pending.Embeddings = append(pending.Embeddings, vectors[i])
			pending.Metadatas = append(pending.Metadatas, c.Metadata())
		}

		if len(pending.IDs) >= x.writeBatch {
			flushed := len(pending.IDs)
			if err := x.flush(ctx, &pending); err != nil {
				return written, err
			}
			written += flushed
			logger.Debug("Wrote %d/%d records", written, len(chunks))
		}
	}

	if len(pending.IDs) > 0 {
		remaining := len(pending.IDs)
		if err := x.flush(ctx, &pending); err != nil {
			return written, err
		}
		written += remaining
	}

	count, err := x.store.Count(ctx, x.collection)
	if err != nil {
		return written, fmt.Errorf("count records: %w", err)
	}
	if count != len(chunks) {
		return written, fmt.Errorf("rebuild incomplete: store holds %d of %d records", count, len(chunks))
	}

	logger.Info("Rebuild complete: %d records", count)
	return written, nil
}

// flush writes the pending batch and resets it.
func (x *EmbeddingIndexer) flush(ctx context.Context, batch *driven.AddBatch) error {
	if err := x.store.Add(ctx, x.collection, *batch); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	*batch = driven.AddBatch{}
	return nil
}
