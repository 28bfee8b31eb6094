package domain

import (
	"fmt"
	"time"
)

// VersionKind classifies the suffix style of a document variant.
type VersionKind int

// Version kinds in ascending selection priority.
const (
	// VersionBase is an unversioned file (report.pdf).
	VersionBase VersionKind = iota

	// VersionLettered carries a single-uppercase-letter suffix (report_B.pdf).
	VersionLettered

	// VersionNumbered carries an integer suffix (report_2.pdf).
	VersionNumbered
)

// Priority returns the selection priority of the kind.
// Numbered variants beat lettered variants, which beat the base file.
func (k VersionKind) Priority() int {
	return int(k)
}

// String returns the string representation.
func (k VersionKind) String() string {
	switch k {
	case VersionNumbered:
		return "numbered"
	case VersionLettered:
		return "lettered"
	default:
		return "base"
	}
}

// Variant is one on-disk version of a logical document.
type Variant struct {
	// Path is the absolute or directory-relative file path.
	Path string

	// FileName is the bare file name including extension.
	FileName string

	// BaseName is the logical document name shared by all variants.
	BaseName string

	// Kind is the version suffix style.
	Kind VersionKind

	// Rank orders variants of the same kind. For lettered variants it is
	// the letter's offset from 'A'; for numbered variants the integer value;
	// for base variants -1.
	Rank int

	// ModTime is the file modification time, the final tie breaker.
	ModTime time.Time
}

// Selection is the chosen variant for one logical document.
type Selection struct {
	// Variant is the winning variant.
	Variant Variant

	// Description is a human-readable account of the chosen suffix,
	// e.g. "numbered revision 2" or "base file".
	Description string
}

// Chunk is a fixed-size window of one page's words.
// Chunks are the atomic unit of retrieval.
type Chunk struct {
	// SourcePDF is the file name of the selected document.
	SourcePDF string

	// PageNumber is the 1-based page the chunk was cut from.
	PageNumber int

	// ChunkIndex is the 0-based window index within the page.
	ChunkIndex int

	// Text is the chunk content (words re-joined with single spaces).
	Text string

	// WordCount is the number of words in Text.
	WordCount int
}

// ID returns the stable chunk identity key. The format is relied on by
// reproducibility tests and must not change across releases.
func (c Chunk) ID() string {
	return fmt.Sprintf("%s_%d_%d", c.SourcePDF, c.PageNumber, c.ChunkIndex)
}

// Metadata returns the chunk attributes persisted alongside its vector.
func (c Chunk) Metadata() map[string]any {
	return map[string]any{
		"source_pdf":  c.SourcePDF,
		"page_number": c.PageNumber,
		"chunk_index": c.ChunkIndex,
		"word_count":  c.WordCount,
	}
}
