package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askpdf-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
)

// stubEmbedder implements driven.EmbeddingService for testing. Every text
// embeds to the same fixed vector.
type stubEmbedder struct {
	vector   []float32
	embedErr error
	pingErr  error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	return s.vector, nil
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = s.vector
	}
	return vectors, nil
}

func (s *stubEmbedder) Dimensions() int {
	return len(s.vector)
}

func (s *stubEmbedder) ModelName() string {
	return "stub-embed"
}

func (s *stubEmbedder) Ping(_ context.Context) error {
	return s.pingErr
}

func (s *stubEmbedder) Close() error {
	return nil
}

func makeChunks(n int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			SourcePDF:  "doc.pdf",
			PageNumber: 1,
			ChunkIndex: i,
			Text:       fmt.Sprintf("chunk %d text", i),
			WordCount:  3,
		}
	}
	return chunks
}

func TestRebuild_NilEmbedder(t *testing.T) {
	indexer := NewEmbeddingIndexer(memory.NewVectorStore(), nil, "test", 0, 0)

	_, err := indexer.Rebuild(context.Background(), makeChunks(1))

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestRebuild_NilStore(t *testing.T) {
	indexer := NewEmbeddingIndexer(nil, &stubEmbedder{vector: []float32{1, 0}}, "test", 0, 0)

	_, err := indexer.Rebuild(context.Background(), makeChunks(1))

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestRebuild_WritesAllChunks(t *testing.T) {
	store := memory.NewVectorStore()
	indexer := NewEmbeddingIndexer(store, &stubEmbedder{vector: []float32{1, 0}}, "test", 2, 3)
	ctx := context.Background()

	written, err := indexer.Rebuild(ctx, makeChunks(7))

	require.NoError(t, err)
	assert.Equal(t, 7, written)

	count, err := store.Count(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestRebuild_EmptyChunks(t *testing.T) {
	store := memory.NewVectorStore()
	indexer := NewEmbeddingIndexer(store, &stubEmbedder{vector: []float32{1, 0}}, "test", 0, 0)
	ctx := context.Background()

	written, err := indexer.Rebuild(ctx, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, written)

	count, err := store.Count(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRebuild_IsDestructive(t *testing.T) {
	store := memory.NewVectorStore()
	indexer := NewEmbeddingIndexer(store, &stubEmbedder{vector: []float32{1, 0}}, "test", 2, 2)
	ctx := context.Background()

	_, err := indexer.Rebuild(ctx, makeChunks(5))
	require.NoError(t, err)

	// A second rebuild with fewer chunks replaces, never accumulates.
	written, err := indexer.Rebuild(ctx, makeChunks(3))
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	count, err := store.Count(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRebuild_StableIDs(t *testing.T) {
	store := memory.NewVectorStore()
	indexer := NewEmbeddingIndexer(store, &stubEmbedder{vector: []float32{1, 0}}, "test", 2, 2)
	ctx := context.Background()

	_, err := indexer.Rebuild(ctx, makeChunks(3))
	require.NoError(t, err)

	results, err := store.Query(ctx, "test", []float32{1, 0}, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)

	ids := make(map[string]bool)
	for _, r := range results {
		ids[r.ID] = true
	}
	assert.True(t, ids["doc.pdf_1_0"])
	assert.True(t, ids["doc.pdf_1_1"])
	assert.True(t, ids["doc.pdf_1_2"])
}

func TestRebuild_EmbedErrorAborts(t *testing.T) {
	store := memory.NewVectorStore()
	embedErr := errors.New("backend down")
	indexer := NewEmbeddingIndexer(store, &stubEmbedder{vector: []float32{1, 0}, embedErr: embedErr}, "test", 2, 2)

	written, err := indexer.Rebuild(context.Background(), makeChunks(4))

	assert.ErrorIs(t, err, embedErr)
	assert.Equal(t, 0, written)
}
