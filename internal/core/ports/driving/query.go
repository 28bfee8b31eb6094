package driving

import (
	"context"

	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
)

// QueryService answers natural-language questions against the indexed corpus.
type QueryService interface {
	// Query retrieves ranked chunks for the question, assembles a
	// token-budgeted context, and (when requested and possible) attaches a
	// structured generative analysis.
	Query(ctx context.Context, question string, opts domain.QueryOptions) (*domain.QueryResponse, error)

	// Count returns the number of records in the active collection.
	Count(ctx context.Context) (int, error)
}
