package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
)

var (
	queryTopK       int
	queryCutoff     float64
	queryNoAnalysis bool
	queryJSON       bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question over the indexed corpus",
	Long: `Embeds the question, retrieves the most similar chunks from the vector
store and, unless disabled, asks the generative model for a structured
analysis of the retrieved context.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "maximum number of results (default from settings)")
	queryCmd.Flags().Float64Var(&queryCutoff, "cutoff", 0, "minimum similarity score (default from settings)")
	queryCmd.Flags().BoolVar(&queryNoAnalysis, "no-analysis", false, "skip the generative analysis stage")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the response as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}

	ctx := context.Background()
	opts := domain.QueryOptions{
		TopK:            queryTopK,
		IncludeAnalysis: !queryNoAnalysis,
	}
	if cmd.Flags().Changed("cutoff") {
		opts.SimilarityCutoff = queryCutoff
	}

	response, err := queryService.Query(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, response)
	}

	return outputQueryText(cmd, response)
}

func outputQueryJSON(cmd *cobra.Command, response *domain.QueryResponse) error {
	data, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryText(cmd *cobra.Command, response *domain.QueryResponse) error {
	if len(response.Results) == 0 {
		cmd.Println("No matching passages found.")
		return nil
	}

	cmd.Printf("Results (%d passages, %.2fs):\n", response.TotalResults, response.ProcessingTime)
	cmd.Println()
	for i := range response.Results {
		hit := &response.Results[i]
		cmd.Printf("  [%d] %s, page %d (%.4f)\n", i+1, hit.SourcePDF, hit.PageNumber, hit.SimilarityScore)
		cmd.Printf("      %s\n", snippet(hit.Document, 160))
		cmd.Println()
	}

	if response.Analysis != nil {
		a := response.Analysis
		cmd.Println("Analysis:")
		cmd.Printf("  Summary:    %s\n", a.Summary)
		cmd.Printf("  Confidence: %.2f\n", a.ConfidenceProbability)
		cmd.Printf("  Try next:   %s\n", a.SuggestedBetterPrompt)
		if len(a.KeySourcePDFs) > 0 {
			cmd.Printf("  Key files:  %v\n", a.KeySourcePDFs)
		}
	}

	return nil
}

// snippet truncates text to at most n runes for one-line display.
func snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
