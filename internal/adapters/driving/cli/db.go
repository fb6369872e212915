package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the project database",
	Long:  `Inspect, back up, or wipe the local SQLite database.`,
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database statistics",
	RunE:  runDBStatus,
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup [dest]",
	Short: "Write a consistent copy of the database to dest",
	Args:  cobra.ExactArgs(1),
	RunE:  runDBBackup,
}

var dbWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all projects and scan state",
	Long: `Deletes every project record and the processed-files log. Extracted
snippet data cannot be recovered; take a backup first.`,
	RunE: runDBWipe,
}

// wipeConfirmed is a flag for the wipe command.
var wipeConfirmed bool

func init() {
	dbWipeCmd.Flags().BoolVar(&wipeConfirmed, "yes", false, "Confirm the wipe without prompting")

	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbBackupCmd)
	dbCmd.AddCommand(dbWipeCmd)
	rootCmd.AddCommand(dbCmd)
}

func runDBStatus(cmd *cobra.Command, _ []string) error {
	if storeAdmin == nil {
		return errors.New("database not configured")
	}

	ctx := context.Background()

	projects, scanned, err := storeAdmin.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get database stats: %w", err)
	}

	cmd.Println("Database Status")
	cmd.Println("===============")
	cmd.Printf("  Projects:        %d\n", projects)
	cmd.Printf("  Files processed: %d\n", scanned)
	return nil
}

func runDBBackup(cmd *cobra.Command, args []string) error {
	if storeAdmin == nil {
		return errors.New("database not configured")
	}

	dest := args[0]
	ctx := context.Background()

	if err := storeAdmin.Backup(ctx, dest); err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	cmd.Printf("Database backed up to %s\n", dest)
	return nil
}

func runDBWipe(cmd *cobra.Command, _ []string) error {
	if projectStore == nil || scanStateStore == nil {
		return errors.New("database not configured")
	}

	if !wipeConfirmed {
		return errors.New("refusing to wipe without --yes")
	}

	ctx := context.Background()

	if err := projectStore.Wipe(ctx); err != nil {
		return fmt.Errorf("wipe projects: %w", err)
	}
	if err := scanStateStore.Clear(ctx); err != nil {
		return fmt.Errorf("clear scan state: %w", err)
	}

	cmd.Println("Database wiped.")
	return nil
}
