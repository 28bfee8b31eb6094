package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
	"github.com/custodia-labs/askpdf-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askpdf-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askpdf-cli/internal/logger"
)

// Ensure Orchestrator implements the driving ports.
var (
	_ driving.IngestService = (*Orchestrator)(nil)
	_ driving.QueryService  = (*Orchestrator)(nil)
)

// stagedManifest records the staged corpus fingerprint inside the staging
// directory so unchanged corpora skip redundant rebuilds.
const stagedManifest = ".staged_manifest"

// analysisPromptTemplate is the fixed query-time prompt. The four labelled
// sections match what AnalysisParser extracts.
const analysisPromptTemplate = `You are analysing excerpts from a PDF document corpus to answer a question.

QUESTION: %s

CANDIDATE SOURCE FILES: %s

CONTEXT:
%s

Respond with exactly these four labelled sections and nothing else:
SUMMARY: a direct answer to the question based only on the context, in at most three sentences.
CONFIDENCE: a probability between 0.0 and 1.0 that the summary is correct.
BETTER_PROMPT: a rephrased question that would retrieve better context.
KEY_PDFS: a comma-separated list of the source file names most relevant to the answer.
`

// Orchestrator sequences the ingestion pipeline and the query-time flow.
// It owns transient per-request state only; the store and model handles are
// injected once at construction and shared across requests.
type Orchestrator struct {
	selector  *VersionSelector
	extractor *ParallelExtractor
	indexer   *EmbeddingIndexer
	retriever *Retriever
	parser    *AnalysisParser
	llm       driven.LLMService
	store     driven.VectorStore
	settings  domain.Settings
}

// NewOrchestrator wires the pipeline components. llm may be nil; queries
// then degrade to retrieval-only.
func NewOrchestrator(
	selector *VersionSelector,
	extractor *ParallelExtractor,
	indexer *EmbeddingIndexer,
	retriever *Retriever,
	parser *AnalysisParser,
	llm driven.LLMService,
	store driven.VectorStore,
	settings domain.Settings,
) *Orchestrator {
	return &Orchestrator{
		selector:  selector,
		extractor: extractor,
		indexer:   indexer,
		retriever: retriever,
		parser:    parser,
		llm:       llm,
		store:     store,
		settings:  settings,
	}
}

// Ingest runs the full rebuild pipeline.
func (o *Orchestrator) Ingest(ctx context.Context, force bool) (*driving.IngestStats, error) {
	start := time.Now()
	stats := &driving.IngestStats{}

	logger.Section("Ingestion")

	// 1. Pick the newest variant of each logical document.
	selections, err := o.selector.Select(o.settings.RawDir)
	if err != nil {
		return nil, fmt.Errorf("select versions: %w", err)
	}
	stats.DocumentsSelected = len(selections)
	logger.Info("Selected %d documents from %s", len(selections), o.settings.RawDir)

	if len(selections) == 0 {
		stats.ElapsedSeconds = time.Since(start).Seconds()
		logger.Info("Raw directory is empty, nothing to ingest")
		return stats, nil
	}

	// 2. Stage selected files, skipping the rebuild when nothing changed.
	changed, staged, err := o.stage(selections, force)
	if err != nil {
		return nil, fmt.Errorf("stage documents: %w", err)
	}
	if !changed && !force {
		stats.Skipped = true
		stats.ElapsedSeconds = time.Since(start).Seconds()
		logger.Info("Staged corpus unchanged, skipping rebuild (use --force to override)")
		return stats, nil
	}

	// 3. Extract and chunk in parallel, merging in submission order.
	perDocument := o.extractor.ExtractAll(ctx, staged)

	var chunks []domain.Chunk
	for i, docChunks := range perDocument {
		if len(docChunks) == 0 {
			stats.DocumentsFailed++
			logger.Warn("Document %s contributed no chunks", staged[i].Variant.FileName)
			continue
		}
		chunks = append(chunks, docChunks...)
	}
	if len(chunks) == 0 {
		return stats, domain.ErrEmptyCorpus
	}

	// 4. Rebuild the vector collection.
	written, err := o.indexer.Rebuild(ctx, chunks)
	stats.ChunksIndexed = written
	if err != nil {
		return stats, fmt.Errorf("rebuild index: %w", err)
	}

	stats.ElapsedSeconds = time.Since(start).Seconds()
	logger.Info("Ingestion complete: %d chunks from %d documents in %.1fs",
		written, stats.DocumentsSelected, stats.ElapsedSeconds)
	return stats, nil
}

// stage copies the selected variants into the staging directory and reports
// whether the staged corpus changed since the previous run. The returned
// selections point at the staged copies.
func (o *Orchestrator) stage(selections []domain.Selection, force bool) (bool, []domain.Selection, error) {
	if err := os.MkdirAll(o.settings.StagingDir, 0700); err != nil {
		return false, nil, fmt.Errorf("create staging directory: %w", err)
	}

	fingerprint := corpusFingerprint(selections)
	manifestPath := filepath.Join(o.settings.StagingDir, stagedManifest)

	if !force {
		previous, err := os.ReadFile(manifestPath)
		if err == nil && string(previous) == fingerprint {
			staged := retarget(selections, o.settings.StagingDir)
			return false, staged, nil
		}
	}

	for _, sel := range selections {
		dst := filepath.Join(o.settings.StagingDir, sel.Variant.FileName)
		if err := copyFile(sel.Variant.Path, dst); err != nil {
			return false, nil, fmt.Errorf("stage %s: %w", sel.Variant.FileName, err)
		}
		logger.Debug("Staged %s (%s)", sel.Variant.FileName, sel.Description)
	}

	if err := os.WriteFile(manifestPath, []byte(fingerprint), 0600); err != nil {
		return false, nil, fmt.Errorf("write staging manifest: %w", err)
	}

	return true, retarget(selections, o.settings.StagingDir), nil
}

// Query answers one question. Retrieval errors fail the request; analysis
// errors degrade into a low-confidence result instead.
func (o *Orchestrator) Query(ctx context.Context, question string, opts domain.QueryOptions) (*domain.QueryResponse, error) {
	start := time.Now()
	requestID := uuid.New().String()

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	if opts.TopK <= 0 {
		opts.TopK = o.settings.TopK
	}
	if opts.SimilarityCutoff == 0 {
		opts.SimilarityCutoff = o.settings.SimilarityCutoff
	}

	logger.Section("Query Execution")
	logger.Debug("Request %s: %q (top_k=%d cutoff=%.2f analysis=%t)",
		requestID, question, opts.TopK, opts.SimilarityCutoff, opts.IncludeAnalysis)

	retrieval, err := o.retriever.Retrieve(ctx, question, opts.TopK, opts.SimilarityCutoff)
	if err != nil {
		return nil, err
	}

	response := &domain.QueryResponse{
		Question:     question,
		Results:      retrieval.Hits,
		ContextUsed:  retrieval.Context,
		TotalResults: len(retrieval.Hits),
	}

	// Empty context: nothing to analyse, skip generation entirely.
	if opts.IncludeAnalysis && retrieval.Context != "" {
		response.Analysis = o.analyse(ctx, question, retrieval)
	}

	response.ProcessingTime = time.Since(start).Seconds()
	logger.Info("Request %s: %d results in %.3fs", requestID, response.TotalResults, response.ProcessingTime)
	return response, nil
}

// Count returns the number of records in the active collection.
func (o *Orchestrator) Count(ctx context.Context) (int, error) {
	if o.store == nil {
		return 0, domain.ErrStoreUnavailable
	}
	return o.store.Count(ctx, o.settings.Collection)
}

// analyse runs the generative step and parses its output. A generation
// failure is absorbed into a degraded analysis with a best-effort source
// list, never surfaced as a request error.
func (o *Orchestrator) analyse(ctx context.Context, question string, retrieval *RetrievalResult) *domain.StructuredAnalysis {
	sources := candidateSources(retrieval.Hits)

	if o.llm == nil {
		logger.Warn("Analysis skipped: %v", domain.ErrLLMUnavailable)
		return degradedAnalysis("Analysis unavailable: no generative model is configured.", sources)
	}

	prompt := fmt.Sprintf(analysisPromptTemplate, question, strings.Join(sources, ", "), retrieval.Context)

	raw, err := o.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:     o.settings.MaxNewTokens,
		Deterministic: true,
	})
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		return degradedAnalysis(fmt.Sprintf("Analysis unavailable: generation failed (%v).", err), sources)
	}

	analysis := o.parser.Parse(raw)
	return &analysis
}

// degradedAnalysis builds the generation-failure fallback result.
func degradedAnalysis(summary string, sources []string) *domain.StructuredAnalysis {
	if len(sources) > domain.MaxKeySourcePDFs {
		sources = sources[:domain.MaxKeySourcePDFs]
	}
	return &domain.StructuredAnalysis{
		Summary:               summary,
		ConfidenceProbability: domain.DefaultAnalysisFallbacks().ConfidenceOnError,
		SuggestedBetterPrompt: domain.DefaultAnalysisFallbacks().BetterPrompt,
		KeySourcePDFs:         sources,
	}
}

// candidateSources returns the deduplicated source file names of the hits,
// in ranked order.
func candidateSources(hits []domain.SearchHit) []string {
	seen := make(map[string]bool)
	var sources []string
	for _, hit := range hits {
		if hit.SourcePDF == "" || seen[hit.SourcePDF] {
			continue
		}
		seen[hit.SourcePDF] = true
		sources = append(sources, hit.SourcePDF)
	}
	return sources
}

// corpusFingerprint serialises the selected file set with modification
// times, the change signal for staging.
func corpusFingerprint(selections []domain.Selection) string {
	lines := make([]string, 0, len(selections))
	for _, sel := range selections {
		lines = append(lines, fmt.Sprintf("%s\t%d", sel.Variant.FileName, sel.Variant.ModTime.UnixNano()))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

// retarget points selections at their staged copies.
func retarget(selections []domain.Selection, stagingDir string) []domain.Selection {
	staged := make([]domain.Selection, len(selections))
	for i, sel := range selections {
		sel.Variant.Path = filepath.Join(stagingDir, sel.Variant.FileName)
		staged[i] = sel
	}
	return staged
}

// copyFile copies src to dst, truncating any existing file.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
