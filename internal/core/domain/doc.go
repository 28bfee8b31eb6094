// Package domain defines the core business entities for askpdf.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Variant: One on-disk version of a logical PDF document
//   - Chunk: A fixed-size window of page words, the atomic retrieval unit
//   - SearchHit: A retrieved chunk with its similarity score
//   - StructuredAnalysis: The four-field parsed generative result
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
