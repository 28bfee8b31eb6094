package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the index and configuration",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}

	count, err := queryService.Count(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	cmd.Println("askpdf status:")
	cmd.Printf("  Collection:     %s (%d chunks)\n", settings.Collection, count)
	cmd.Printf("  Raw directory:  %s\n", settings.RawDir)
	cmd.Printf("  Data directory: %s\n", settings.DataDir)
	cmd.Printf("  Embedding:      %s (%s)\n", settings.EmbeddingProvider, settings.EmbeddingModel)
	cmd.Printf("  LLM:            %s (%s)\n", settings.LLMProvider, settings.LLMModel)

	return nil
}
