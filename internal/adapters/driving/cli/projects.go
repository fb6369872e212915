package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Inspect and export extracted projects",
	Long:  `List discovered projects, show their aggregated snippet data, or export everything.`,
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all discovered projects",
	RunE:  runProjectsList,
}

var projectsShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a project's aggregated snippet data",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsShow,
}

var projectsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all projects as CSV or JSON",
	RunE:  runProjectsExport,
}

// Flags for the export command.
var (
	exportFormat string
	exportOutput string
)

func init() {
	projectsExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Export format: csv or json")
	projectsExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsShowCmd)
	projectsCmd.AddCommand(projectsExportCmd)
	rootCmd.AddCommand(projectsCmd)
}

func runProjectsList(cmd *cobra.Command, _ []string) error {
	if projectReader == nil || projectStore == nil {
		return errors.New("project service not configured")
	}

	ctx := context.Background()

	projects, err := projectStore.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if len(projects) == 0 {
		cmd.Println("No projects discovered yet. Run 'prospect process <folder>' first.")
		return nil
	}

	for i := range projects {
		p := &projects[i]
		cmd.Printf("  %s\n", p.Name)
		cmd.Printf("    Category: %s", p.Category)
		if p.SubCategory != "" {
			cmd.Printf(" / %s", p.SubCategory)
		}
		cmd.Println()
		cmd.Printf("    Scope:    %s\n", p.Scope)
		cmd.Printf("    Updated:  %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d projects\n", len(projects))
	return nil
}

func runProjectsShow(cmd *cobra.Command, args []string) error {
	if projectReader == nil {
		return errors.New("project service not configured")
	}

	name := args[0]
	ctx := context.Background()

	data, err := projectReader.Data(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no project named %q", name)
		}
		return fmt.Errorf("failed to get project data: %w", err)
	}

	cmd.Println(data)
	return nil
}

func runProjectsExport(cmd *cobra.Command, _ []string) error {
	if projectReader == nil {
		return errors.New("project service not configured")
	}

	ctx := context.Background()

	out := cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOutput, err)
		}
		defer f.Close()
		out = f
	}

	if err := projectReader.Export(ctx, exportFormat, out); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if exportOutput != "" {
		cmd.Printf("Exported projects to %s\n", exportOutput)
	}
	return nil
}
