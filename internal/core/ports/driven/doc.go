// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PageExtractor: Per-page text extraction from PDF files
//   - EmbeddingService: Text to normalised vector encoding
//   - VectorStore: Persistent collection of vectors + chunk metadata
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Generative analysis. Without it, queries return ranked
//     hits and context but no structured analysis.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
