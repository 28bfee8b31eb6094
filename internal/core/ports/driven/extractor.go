package driven

import "context"

// PageExtractor extracts plain text from a document file, one string per
// page. Page order follows the document; empty pages yield empty strings.
type PageExtractor interface {
	// ExtractPages returns the text of each page of the file at path.
	ExtractPages(ctx context.Context, path string) ([]string, error)
}
