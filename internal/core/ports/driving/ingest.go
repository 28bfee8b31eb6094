package driving

import "context"

// IngestService rebuilds the vector collection from the raw input directory.
type IngestService interface {
	// Ingest runs the full pipeline: version selection, staging, parallel
	// extraction/chunking, and the embedding rebuild. When force is false
	// and the staged file set is unchanged, the rebuild is skipped.
	Ingest(ctx context.Context, force bool) (*IngestStats, error)
}

// IngestStats summarises one ingestion run.
type IngestStats struct {
	// DocumentsSelected is the number of logical documents chosen by
	// version selection.
	DocumentsSelected int

	// DocumentsFailed is the number of documents whose extraction failed
	// and contributed zero chunks.
	DocumentsFailed int

	// ChunksIndexed is the number of records written to the store.
	ChunksIndexed int

	// Skipped is true when the staged corpus was unchanged and no rebuild
	// was performed.
	Skipped bool

	// ElapsedSeconds is the wall-clock run duration.
	ElapsedSeconds float64
}
