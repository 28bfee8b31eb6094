package services

import (
	"strings"

	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
)

// minChunkChars is the minimum trimmed chunk length. Shorter chunks come
// from near-empty pages or extraction artifacts and are discarded.
const minChunkChars = 50

// Chunker splits per-page text into fixed-size word windows with stable
// identity. Windows do not overlap; the chunk index is the window start
// divided by the chunk size, so re-chunking unchanged text reproduces the
// same IDs.
type Chunker struct {
	chunkSize int
}

// ChunkerOption configures the chunker.
type ChunkerOption func(*Chunker)

// WithChunkSize sets the window size in words.
func WithChunkSize(size int) ChunkerOption {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// NewChunker creates a chunker with the given options.
func NewChunker(opts ...ChunkerOption) *Chunker {
	c := &Chunker{chunkSize: domain.DefaultChunkSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChunkSize returns the configured window size in words.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// ChunkPages cuts one document's page texts into chunks, page-major then
// chunk-major. Pages is indexed from zero; page numbers are 1-based.
func (c *Chunker) ChunkPages(sourcePDF string, pages []string) []domain.Chunk {
	var chunks []domain.Chunk
	for pageIdx, pageText := range pages {
		chunks = append(chunks, c.chunkPage(sourcePDF, pageIdx+1, pageText)...)
	}
	return chunks
}

// chunkPage cuts one page into non-overlapping word windows.
func (c *Chunker) chunkPage(sourcePDF string, pageNumber int, text string) []domain.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []domain.Chunk
	for start := 0; start < len(words); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}

		joined := strings.Join(words[start:end], " ")
		if len(strings.TrimSpace(joined)) <= minChunkChars {
			continue
		}

		chunks = append(chunks, domain.Chunk{
			SourcePDF:  sourcePDF,
			PageNumber: pageNumber,
			ChunkIndex: start / c.chunkSize,
			Text:       joined,
			WordCount:  end - start,
		})
	}

	return chunks
}
