package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [folder]",
	Short: "Watch a folder and process documents as they appear",
	Long: `Watches a folder (including subfolders) for new or modified documents
and runs each through the extraction pipeline as it arrives. Runs until
interrupted with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if fileScanner == nil || processOrchestrator == nil {
		return errors.New("watch service not configured")
	}

	root := args[0]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return watchLoop(ctx, cmd, root)
}

// watchLoop processes files as the scanner reports them, until the
// context is cancelled. Shared by 'watch' and 'process --watch'.
func watchLoop(ctx context.Context, cmd *cobra.Command, root string) error {
	if fileScanner == nil || processOrchestrator == nil {
		return errors.New("watch service not configured")
	}

	records, err := fileScanner.Watch(ctx, root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}

	cmd.Printf("Watching %s for documents (Ctrl-C to stop)...\n", root)

	for record := range records {
		cmd.Printf("Processing %s (%s)...\n", record.Path, record.Status)
		if err := processOrchestrator.ProcessFile(ctx, record.Path); err != nil {
			cmd.Printf("  failed: %v\n", err)
			continue
		}
		cmd.Println("  done")
	}

	cmd.Println("Watch stopped.")
	return nil
}
