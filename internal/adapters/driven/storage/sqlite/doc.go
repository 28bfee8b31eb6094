// Package sqlite provides a VectorStore adapter backed by SQLite.
//
// Embeddings are stored as little-endian float32 blobs alongside chunk text
// and JSON metadata. Queries are exact brute-force cosine-distance scans;
// corpus sizes here (thousands of chunks) do not justify an ANN index.
package sqlite
