package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
	"github.com/custodia-labs/askpdf-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-backed vector store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a vector store in the specified data directory.
// If dataDir is empty, defaults to ~/.askpdf/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".askpdf", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vectors.db")

	// WAL mode for better concurrency between query-time readers
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// migrate creates the schema if it does not exist.
func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS collections (
			name       TEXT PRIMARY KEY,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);
		CREATE TABLE IF NOT EXISTS records (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			document   TEXT NOT NULL,
			embedding  BLOB NOT NULL,
			metadata   TEXT NOT NULL,
			PRIMARY KEY (collection, id)
		);
	`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CreateCollection creates an empty collection.
func (s *Store) CreateCollection(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO collections (name) VALUES (?)`, name)
	if err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	return nil
}

// DeleteCollection removes a collection and all its records. Deleting a
// collection that does not exist is not an error.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE collection = ?`, name); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}

	return tx.Commit()
}

// Add writes one aligned batch of records in a single transaction.
func (s *Store) Add(ctx context.Context, collection string, batch driven.AddBatch) error {
	n := len(batch.IDs)
	if len(batch.Documents) != n || len(batch.Embeddings) != n || len(batch.Metadatas) != n {
		return fmt.Errorf("%w: batch slices are not aligned", domain.ErrInvalidInput)
	}
	if n == 0 {
		return nil
	}

	if ok, err := s.collectionExists(ctx, collection); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, collection)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (collection, id, document, embedding, metadata)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		metadataJSON, err := json.Marshal(batch.Metadatas[i])
		if err != nil {
			return fmt.Errorf("marshal metadata for %s: %w", batch.IDs[i], err)
		}
		blob := float32SliceToBytes(batch.Embeddings[i])
		if _, err := stmt.ExecContext(ctx, collection, batch.IDs[i], batch.Documents[i], blob, string(metadataJSON)); err != nil {
			return fmt.Errorf("insert record %s: %w", batch.IDs[i], err)
		}
	}

	return tx.Commit()
}

// Query scans the collection and returns the n nearest records by cosine
// distance, ascending.
func (s *Store) Query(ctx context.Context, collection string, embedding []float32, n int) ([]driven.QueryResult, error) {
	if ok, err := s.collectionExists(ctx, collection); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, collection)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document, embedding, metadata FROM records WHERE collection = ?`, collection)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var results []driven.QueryResult
	for rows.Next() {
		var (
			id, document, metadataJSON string
			blob                       []byte
		)
		if err := rows.Scan(&id, &document, &blob, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		stored := bytesToFloat32Slice(blob)
		if len(stored) != len(embedding) {
			continue
		}

		var metadata map[string]any
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata for %s: %w", id, err)
		}

		results = append(results, driven.QueryResult{
			ID:       id,
			Document: document,
			Metadata: metadata,
			Distance: cosineDistance(embedding, stored),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
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
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE collection = ?`, collection).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

// collectionExists reports whether the collection has been created.
func (s *Store) collectionExists(ctx context.Context, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM collections WHERE name = ?`, name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check collection %s: %w", name, err)
	}
	return true, nil
}

// cosineDistance computes 1 - cosine similarity. Vectors are expected to
// be L2-normalised, so the dot product alone gives the similarity; the
// norms are still computed to stay correct for unnormalised test vectors.
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

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
