package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driving"
)

// Ensure ProjectService implements the interface.
var _ driving.ProjectReader = (*ProjectService)(nil)

// ProjectService provides read access to extracted project data.
type ProjectService struct {
	projects driven.ProjectStore
}

// NewProjectService creates a new project reader.
func NewProjectService(projects driven.ProjectStore) *ProjectService {
	return &ProjectService{projects: projects}
}

// Names returns all project names, sorted.
func (s *ProjectService) Names(ctx context.Context) ([]string, error) {
	return s.projects.ListProjectNames(ctx)
}

// Data returns the aggregated data blob for a project.
func (s *ProjectService) Data(ctx context.Context, name string) (string, error) {
	return s.projects.GetProjectData(ctx, name)
}

// exportedProject is the serialised shape of a project for export.
type exportedProject struct {
	Name           string `json:"project_name"`
	Category       string `json:"category"`
	SubCategory    string `json:"sub_category"`
	Scope          string `json:"project_scope"`
	AggregatedData string `json:"aggregated_data"`
}

// Export writes all projects in the requested format to w.
// Supported formats are "csv" and "json".
func (s *ProjectService) Export(ctx context.Context, format string, w io.Writer) error {
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}

	exported := make([]exportedProject, 0, len(projects))
	for _, p := range projects {
		exported = append(exported, exportedProject{
			Name:           p.Name,
			Category:       p.Category,
			SubCategory:    p.SubCategory,
			Scope:          p.Scope,
			AggregatedData: p.AggregatedData,
		})
	}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(exported)

	case "csv":
		cw := csv.NewWriter(w)
		header := []string{"project_name", "category", "sub_category", "project_scope", "aggregated_data"}
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		for _, p := range exported {
			row := []string{p.Name, p.Category, p.SubCategory, p.Scope, p.AggregatedData}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
		cw.Flush()
		return cw.Error()

	default:
		return fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidInput, format)
	}
}
