// Package memory provides in-memory driven adapters for tests and
// development.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
	"github.com/custodia-labs/askpdf-cli/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// record is one stored embedding record.
type record struct {
	id        string
	document  string
	embedding []float32
	metadata  map[string]any
}

// VectorStore is an in-memory implementation of driven.VectorStore.
type VectorStore struct {
	mu          sync.RWMutex
	collections map[string][]record
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{collections: make(map[string][]record)}
}

// CreateCollection creates an empty collection.
func (s *VectorStore) CreateCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; !ok {
		s.collections[name] = nil
	}
	return nil
}

// DeleteCollection removes a collection and all its records.
func (s *VectorStore) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

// Add writes one aligned batch of records.
func (s *VectorStore) Add(_ context.Context, collection string, batch driven.AddBatch) error {
	n := len(batch.IDs)
	if len(batch.Documents) != n || len(batch.Embeddings) != n || len(batch.Metadatas) != n {
		return fmt.Errorf("%w: batch slices are not aligned", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.collections[collection]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, collection)
	}

	existing := make(map[string]bool, len(records))
	for _, r := range records {
		existing[r.id] = true
	}

	for i := 0; i < n; i++ {
		if existing[batch.IDs[i]] {
			return fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidInput, batch.IDs[i])
		}
		existing[batch.IDs[i]] = true
		records = append(records, record{
			id:        batch.IDs[i],
			document:  batch.Documents[i],
			embedding: batch.Embeddings[i],
			metadata:  batch.Metadatas[i],
		})
	}

	s.collections[collection] = records
	return nil
}

// Query returns the n nearest records by cosine distance, ascending.
func (s *VectorStore) Query(_ context.Context, collection string, embedding []float32, n int) ([]driven.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, collection)
	}

	results := make([]driven.QueryResult, 0, len(records))
	for _, r := range records {
		if len(r.embedding) != len(embedding) {
			continue
		}
		results = append(results, driven.QueryResult{
			ID:       r.id,
			Document: r.document,
			Metadata: r.metadata,
			Distance: cosineDistance(embedding, r.embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if n > 0 && len(results) > n {
		results = results[:n]
	}

	return results, nil
}

// Count returns the number of records in the collection.
func (s *VectorStore) Count(_ context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, ok := s.collections[collection]
	if !ok {
		return 0, nil
	}
	return len(records), nil
}

// Close releases resources.
func (s *VectorStore) Close() error {
	return nil
}

// cosineDistance computes 1 - cosine similarity.
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}
	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
