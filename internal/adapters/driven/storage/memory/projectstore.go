// Package memory provides in-memory implementations of driven port
// interfaces, used for tests and ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
)

// Ensure ProjectStore implements the interface.
var _ driven.ProjectStore = (*ProjectStore)(nil)

// ProjectStore is an in-memory implementation of driven.ProjectStore.
type ProjectStore struct {
	mu       sync.RWMutex
	projects map[string]*domain.Project
	nextID   int64
}

// NewProjectStore creates an empty in-memory project store.
func NewProjectStore() *ProjectStore {
	return &ProjectStore{
		projects: make(map[string]*domain.Project),
		nextID:   1,
	}
}

// AppendToProjectData finds a project by its normalised name, or creates
// it, then concatenates text onto its aggregated data.
func (s *ProjectStore) AppendToProjectData(_ context.Context, name, text string) (int64, error) {
	normalised := domain.NormaliseName(name)
	if normalised == "" {
		return 0, fmt.Errorf("%w: empty project name", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p, ok := s.projects[normalised]
	if !ok {
		p = &domain.Project{
			ID:        s.nextID,
			Name:      normalised,
			CreatedAt: now,
		}
		s.nextID++
		s.projects[normalised] = p
	}

	p.AggregatedData += text
	p.UpdatedAt = now
	return p.ID, nil
}

// UpdateCategorisation overwrites the classification fields.
func (s *ProjectStore) UpdateCategorisation(_ context.Context, projectID int64, c domain.Classification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.projects {
		if p.ID == projectID {
			p.Category = c.Category
			p.SubCategory = c.SubCategory
			p.Scope = c.Scope
			p.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrNotFound
}

// GetProject retrieves a project by normalised name.
func (s *ProjectStore) GetProject(_ context.Context, name string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[domain.NormaliseName(name)]
	if !ok {
		return nil, domain.ErrNotFound
	}

	clone := *p
	return &clone, nil
}

// GetProjectData retrieves only the aggregated data blob.
func (s *ProjectStore) GetProjectData(_ context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[domain.NormaliseName(name)]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p.AggregatedData, nil
}

// ListProjectNames returns all project names, sorted.
func (s *ProjectStore) ListProjectNames(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.projects))
	for name := range s.projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ListProjects returns all projects, ordered by name.
func (s *ProjectStore) ListProjects(ctx context.Context) ([]domain.Project, error) {
	names, err := s.ListProjectNames(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]domain.Project, 0, len(names))
	for _, name := range names {
		projects = append(projects, *s.projects[name])
	}
	return projects, nil
}

// Wipe removes every project.
func (s *ProjectStore) Wipe(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = make(map[string]*domain.Project)
	s.nextID = 1
	return nil
}

// Ensure ScanStateStore implements the interface.
var _ driven.ScanStateStore = (*ScanStateStore)(nil)

// ScanStateStore is an in-memory implementation of driven.ScanStateStore.
type ScanStateStore struct {
	mu        sync.RWMutex
	processed map[string]int64
}

// NewScanStateStore creates an empty in-memory scan state store.
func NewScanStateStore() *ScanStateStore {
	return &ScanStateStore{processed: make(map[string]int64)}
}

// LastProcessed returns the recorded processing time for a path.
func (s *ScanStateStore) LastProcessed(_ context.Context, path string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	processedAt, ok := s.processed[path]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return processedAt, nil
}

// MarkProcessed records that a path was processed at the given Unix time.
func (s *ScanStateStore) MarkProcessed(_ context.Context, path string, processedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processed[path] = processedAt
	return nil
}

// Clear removes all scan state.
func (s *ScanStateStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processed = make(map[string]int64)
	return nil
}
