package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
)

// fakePageExtractor implements driven.PageExtractor for testing, keyed by
// file path.
type fakePageExtractor struct {
	pages      map[string][]string
	errPaths   map[string]error
	panicPaths map[string]bool
}

func (f *fakePageExtractor) ExtractPages(_ context.Context, path string) ([]string, error) {
	if f.panicPaths[path] {
		panic("corrupt document")
	}
	if err, ok := f.errPaths[path]; ok {
		return nil, err
	}
	return f.pages[path], nil
}

func selectionFor(path, name string) domain.Selection {
	return domain.Selection{
		Variant: domain.Variant{
			Path:     path,
			FileName: name,
			BaseName: name,
		},
		Description: "base file",
	}
}

func TestNewParallelExtractor_DerivesWorkerCount(t *testing.T) {
	extractor := NewParallelExtractor(&fakePageExtractor{}, NewChunker(), 0)

	assert.GreaterOrEqual(t, extractor.Workers(), 1)
	assert.LessOrEqual(t, extractor.Workers(), maxExtractWorkers)
}

func TestNewParallelExtractor_CapsWorkerCount(t *testing.T) {
	extractor := NewParallelExtractor(&fakePageExtractor{}, NewChunker(), 100)

	assert.Equal(t, maxExtractWorkers, extractor.Workers())
}

func TestNewParallelExtractor_HonoursExplicitWorkerCount(t *testing.T) {
	extractor := NewParallelExtractor(&fakePageExtractor{}, NewChunker(), 3)

	assert.Equal(t, 3, extractor.Workers())
}

func TestExtractAll_Empty(t *testing.T) {
	extractor := NewParallelExtractor(&fakePageExtractor{}, NewChunker(), 2)

	results := extractor.ExtractAll(context.Background(), nil)

	assert.Empty(t, results)
}

func TestExtractAll_AlignsResultsWithSelections(t *testing.T) {
	fake := &fakePageExtractor{
		pages: map[string][]string{
			"/staged/a.pdf": {pageOfWords(10)},
			"/staged/b.pdf": {pageOfWords(10), pageOfWords(10)},
		},
	}
	extractor := NewParallelExtractor(fake, NewChunker(WithChunkSize(5)), 2)
	selections := []domain.Selection{
		selectionFor("/staged/a.pdf", "a.pdf"),
		selectionFor("/staged/b.pdf", "b.pdf"),
	}

	results := extractor.ExtractAll(context.Background(), selections)

	require.Len(t, results, 2)
	assert.Len(t, results[0], 2)
	assert.Len(t, results[1], 4)
	assert.Equal(t, "a.pdf", results[0][0].SourcePDF)
	assert.Equal(t, "b.pdf", results[1][0].SourcePDF)
}

func TestExtractAll_ContainsDocumentFailures(t *testing.T) {
	fake := &fakePageExtractor{
		pages: map[string][]string{
			"/staged/good.pdf": {pageOfWords(10)},
		},
		errPaths: map[string]error{
			"/staged/bad.pdf": errors.New("unreadable"),
		},
	}
	extractor := NewParallelExtractor(fake, NewChunker(WithChunkSize(5)), 2)
	selections := []domain.Selection{
		selectionFor("/staged/bad.pdf", "bad.pdf"),
		selectionFor("/staged/good.pdf", "good.pdf"),
	}

	results := extractor.ExtractAll(context.Background(), selections)

	require.Len(t, results, 2)
	assert.Empty(t, results[0])
	assert.NotEmpty(t, results[1])
}

func TestExtractAll_ContainsPanics(t *testing.T) {
	fake := &fakePageExtractor{
		pages: map[string][]string{
			"/staged/good.pdf": {pageOfWords(10)},
		},
		panicPaths: map[string]bool{
			"/staged/evil.pdf": true,
		},
	}
	extractor := NewParallelExtractor(fake, NewChunker(WithChunkSize(5)), 2)
	selections := []domain.Selection{
		selectionFor("/staged/evil.pdf", "evil.pdf"),
		selectionFor("/staged/good.pdf", "good.pdf"),
	}

	results := extractor.ExtractAll(context.Background(), selections)

	require.Len(t, results, 2)
	assert.Empty(t, results[0])
	assert.NotEmpty(t, results[1])
}
