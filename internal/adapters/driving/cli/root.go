// Package cli implements the cobra command surface for askpdf.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askpdf-cli/internal/adapters/driven/config/file"
	embollama "github.com/custodia-labs/askpdf-cli/internal/adapters/driven/embedding/ollama"
	embopenai "github.com/custodia-labs/askpdf-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/askpdf-cli/internal/adapters/driven/embedding/ratelimit"
	"github.com/custodia-labs/askpdf-cli/internal/adapters/driven/extractor/pdf"
	llmollama "github.com/custodia-labs/askpdf-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/custodia-labs/askpdf-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/askpdf-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
	"github.com/custodia-labs/askpdf-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askpdf-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askpdf-cli/internal/core/services"
	"github.com/custodia-labs/askpdf-cli/internal/logger"
)

// version is set via SetVersion from the build.
var version = "dev"

// Global flags.
var (
	configPath  string
	verboseMode bool
)

// Wired services, built lazily by initServices.
var (
	settings      *domain.Settings
	embedder      driven.EmbeddingService
	ingestService driving.IngestService
	queryService  driving.QueryService
	closers       []io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "askpdf",
	Short: "Question answering over a local PDF corpus",
	Long: `askpdf ingests a directory of PDF documents into a local vector store
and answers natural-language questions with retrieval-augmented analysis.

Ingestion picks the newest variant of each document, chunks page text,
and rebuilds the vector collection wholesale. Queries embed the question,
retrieve the most similar chunks, and optionally run a generative model
to produce a structured analysis.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseMode)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default ~/.askpdf/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "enable verbose logging")
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices loads settings and wires the pipeline once per invocation.
// Model and store handles are constructed here and injected into services;
// nothing looks them up globally.
func initServices() error {
	if ingestService != nil {
		return nil
	}

	path := configPath
	if path == "" {
		var err error
		path, err = file.DefaultPath()
		if err != nil {
			return err
		}
	}

	loaded, err := file.Load(path)
	if err != nil {
		return err
	}
	settings = loaded
	logger.Debug("Settings loaded from %s", path)

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}
	closers = append(closers, store)

	embedder, err = buildEmbedder(settings)
	if err != nil {
		return err
	}
	closers = append(closers, embedder)

	// A missing LLM degrades queries to retrieval-only, never an error.
	llm := buildLLM(settings)
	if llm != nil {
		closers = append(closers, llm)
	}

	chunker := services.NewChunker(services.WithChunkSize(settings.ChunkSize))
	extractor := services.NewParallelExtractor(pdf.New(), chunker, settings.MaxWorkers)
	indexer := services.NewEmbeddingIndexer(store, embedder, settings.Collection, settings.EmbedBatchSize, settings.WriteBatchSize)
	retriever := services.NewRetriever(store, embedder, settings.Collection, settings.MaxContextTokens)

	orchestrator := services.NewOrchestrator(
		services.NewVersionSelector(),
		extractor,
		indexer,
		retriever,
		services.NewAnalysisParser(),
		llm,
		store,
		*settings,
	)

	ingestService = orchestrator
	queryService = orchestrator
	return nil
}

// buildEmbedder constructs the configured embedding backend, wrapped with
// the optional rate limiter.
func buildEmbedder(s *domain.Settings) (driven.EmbeddingService, error) {
	var (
		embedder driven.EmbeddingService
		err      error
	)

	switch s.EmbeddingProvider {
	case domain.ProviderOpenAI:
		embedder, err = embopenai.NewEmbeddingService(embopenai.Config{
			APIKey: s.OpenAIAPIKey,
			Model:  s.EmbeddingModel,
		})
		if err != nil {
			return nil, fmt.Errorf("configure embedding service: %w", err)
		}
	case domain.ProviderOllama:
		embedder = embollama.NewEmbeddingService(embollama.Config{
			BaseURL: s.OllamaBaseURL,
			Model:   s.EmbeddingModel,
		})
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, s.EmbeddingProvider)
	}

	return ratelimit.Wrap(embedder, s.EmbedRequestsPerSecond), nil
}

// buildLLM constructs the configured generative backend, or nil when it
// cannot be configured.
func buildLLM(s *domain.Settings) driven.LLMService {
	switch s.LLMProvider {
	case domain.ProviderOpenAI:
		llm, err := llmopenai.NewLLMService(llmopenai.LLMConfig{
			APIKey: s.OpenAIAPIKey,
			Model:  s.LLMModel,
		})
		if err != nil {
			logger.Warn("LLM unavailable: %v", err)
			return nil
		}
		return llm
	case domain.ProviderOllama:
		return llmollama.NewLLMService(llmollama.LLMConfig{
			BaseURL: s.OllamaBaseURL,
			Model:   s.LLMModel,
		})
	default:
		logger.Warn("Unknown LLM provider %q, analysis disabled", s.LLMProvider)
		return nil
	}
}

// closeServices tears down the handles built by initServices.
func closeServices() {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Warn("Close failed: %v", err)
		}
	}
	closers = nil
	embedder = nil
	ingestService = nil
	queryService = nil
}

// pingEmbedder verifies the embedding backend before a long run.
func pingEmbedder(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return embedder.Ping(pingCtx)
}
