package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/askpdf-cli/internal/logger"
)

// watchDebounce coalesces bursts of filesystem events into one rebuild.
const watchDebounce = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the raw directory and re-ingest on changes",
	Long: `Watches the raw PDF directory and runs a full ingest whenever files
change. Events are debounced so a batch copy triggers one rebuild.
Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}

	ctx := context.Background()

	if err := pingEmbedder(ctx); err != nil {
		return fmt.Errorf("embedding backend unreachable: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(settings.RawDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", settings.RawDir, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	cmd.Printf("Watching %s (Ctrl-C to stop)...\n", settings.RawDir)

	var debounce *time.Timer
	var rebuildCh <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("Change detected: %s", event)
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			rebuildCh = debounce.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-rebuildCh:
			rebuildCh = nil
			cmd.Println("Corpus changed, re-ingesting...")
			stats, err := ingestService.Ingest(ctx, false)
			if err != nil {
				logger.Error("Ingest failed: %v", err)
				continue
			}
			if stats.Skipped {
				cmd.Println("Corpus unchanged after settling, skipped.")
				continue
			}
			cmd.Printf("Ingested %d documents (%d chunks) in %.1fs\n",
				stats.DocumentsSelected-stats.DocumentsFailed, stats.ChunksIndexed, stats.ElapsedSeconds)

		case <-sigCh:
			cmd.Println("\nStopping watch.")
			return nil
		}
	}
}
