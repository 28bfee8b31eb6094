package services

import (
	"context"
	"runtime"
	"sync"

	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
	"github.com/custodia-labs/askpdf-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askpdf-cli/internal/logger"
)

// maxExtractWorkers caps the extraction pool regardless of core count.
const maxExtractWorkers = 8

// ParallelExtractor fans per-document extraction and chunking across a
// bounded worker pool. Workers are stateless; the only synchronisation
// point is the final merge, which preserves submission order so logs are
// reproducible across runs.
type ParallelExtractor struct {
	extractor driven.PageExtractor
	chunker   *Chunker
	workers   int
}

// NewParallelExtractor creates an extractor pool. A non-positive maxWorkers
// derives the pool size from the host core count, leaving two cores of
// headroom, capped at maxExtractWorkers.
func NewParallelExtractor(extractor driven.PageExtractor, chunker *Chunker, maxWorkers int) *ParallelExtractor {
	workers := maxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU() - 2
	}
	if workers > maxExtractWorkers {
		workers = maxExtractWorkers
	}
	if workers < 1 {
		workers = 1
	}

	return &ParallelExtractor{
		extractor: extractor,
		chunker:   chunker,
		workers:   workers,
	}
}

// Workers returns the pool size.
func (p *ParallelExtractor) Workers() int {
	return p.workers
}

// ExtractAll extracts and chunks every selected document. The returned
// slice is aligned with selections; a document whose extraction failed
// contributes an empty chunk list, never an error for the whole batch.
func (p *ParallelExtractor) ExtractAll(ctx context.Context, selections []domain.Selection) [][]domain.Chunk {
	results := make([][]domain.Chunk, len(selections))
	if len(selections) == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.extractOne(ctx, selections[i])
			}
		}()
	}

	for i := range selections {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// extractOne processes a single document with error containment. A panic or
// error inside extraction yields zero chunks for that document only.
func (p *ParallelExtractor) extractOne(ctx context.Context, sel domain.Selection) (chunks []domain.Chunk) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Extraction panic for %s: %v", sel.Variant.FileName, r)
			chunks = nil
		}
	}()

	pages, err := p.extractor.ExtractPages(ctx, sel.Variant.Path)
	if err != nil {
		logger.Warn("Extraction failed for %s: %v", sel.Variant.FileName, err)
		return nil
	}

	chunks = p.chunker.ChunkPages(sel.Variant.FileName, pages)
	logger.Debug("Extracted %s: %d pages, %d chunks", sel.Variant.FileName, len(pages), len(chunks))
	return chunks
}
