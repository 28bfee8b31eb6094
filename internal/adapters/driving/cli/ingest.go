package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestForce bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest the PDF corpus into the vector store",
	Long: `Selects the newest variant of each PDF in the raw directory, extracts
and chunks page text, and rebuilds the vector collection from scratch.
When the staged corpus is unchanged since the last run the rebuild is
skipped unless --force is given.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "rebuild even when the corpus is unchanged")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}

	ctx := context.Background()

	if err := pingEmbedder(ctx); err != nil {
		return fmt.Errorf("embedding backend unreachable: %w", err)
	}

	stats, err := ingestService.Ingest(ctx, ingestForce)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if stats.Skipped {
		cmd.Println("Corpus unchanged, nothing to do. Use --force to rebuild anyway.")
		return nil
	}

	cmd.Printf("Ingested %d documents (%d chunks) in %.1fs\n",
		stats.DocumentsSelected-stats.DocumentsFailed, stats.ChunksIndexed, stats.ElapsedSeconds)
	if stats.DocumentsFailed > 0 {
		cmd.Printf("Warning: %d documents yielded no text\n", stats.DocumentsFailed)
	}

	return nil
}
