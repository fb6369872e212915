package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/equinox-labs/prospect-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/equinox-labs/prospect-cli/internal/core/domain"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// project and scan state store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.prospect/data/projects.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".prospect", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "projects.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ProjectStore returns a ProjectStore interface backed by this store.
func (s *Store) ProjectStore() driven.ProjectStore {
	return &projectStore{store: s}
}

// ScanStateStore returns a ScanStateStore interface backed by this store.
func (s *Store) ScanStateStore() driven.ScanStateStore {
	return &scanStateStore{store: s}
}

// Backup copies the database file to destPath using SQLite's VACUUM INTO,
// which produces a consistent snapshot even while the database is open.
func (s *Store) Backup(ctx context.Context, destPath string) error {
	if _, err := os.Stat(destPath); err == nil {
		return fmt.Errorf("backup target already exists: %s", destPath)
	}

	_, err := s.db.ExecContext(ctx, "VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Stats reports row counts for the status command.
func (s *Store) Stats(ctx context.Context) (projects, scanned int, err error) {
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects").Scan(&projects); err != nil {
		return 0, 0, fmt.Errorf("counting projects: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM scan_state").Scan(&scanned); err != nil {
		return 0, 0, fmt.Errorf("counting scan state: %w", err)
	}
	return projects, scanned, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Project Store ====================

// projectStore implements driven.ProjectStore.
type projectStore struct {
	store *Store
}

var _ driven.ProjectStore = (*projectStore)(nil)

// AppendToProjectData finds a project by its normalised name, or creates
// it if it doesn't exist, then concatenates text onto its aggregated
// data. The aggregated data is never rewritten, only grown.
func (s *projectStore) AppendToProjectData(ctx context.Context, name, text string) (int64, error) {
	normalised := domain.NormaliseName(name)
	if normalised == "" {
		return 0, fmt.Errorf("%w: empty project name", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var id int64
	err = tx.QueryRowContext(ctx,
		"SELECT project_id FROM projects WHERE project_name = ?", normalised).Scan(&id)

	switch {
	case err == sql.ErrNoRows:
		result, err := tx.ExecContext(ctx, `
			INSERT INTO projects (project_name, aggregated_data, created_at, updated_at)
			VALUES (?, ?, ?, ?)
		`, normalised, text, now, now)
		if err != nil {
			return 0, fmt.Errorf("creating project: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("reading new project id: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("looking up project: %w", err)
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE projects
			SET aggregated_data = aggregated_data || ?, updated_at = ?
			WHERE project_id = ?
		`, text, now, id)
		if err != nil {
			return 0, fmt.Errorf("appending project data: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return id, nil
}

// UpdateCategorisation overwrites the classification fields on an
// existing project.
func (s *projectStore) UpdateCategorisation(ctx context.Context, projectID int64, c domain.Classification) error {
	result, err := s.store.db.ExecContext(ctx, `
		UPDATE projects
		SET category = ?, sub_category = ?, project_scope = ?, updated_at = ?
		WHERE project_id = ?
	`, c.Category, c.SubCategory, c.Scope, time.Now().UTC(), projectID)
	if err != nil {
		return fmt.Errorf("updating categorisation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetProject retrieves a project by normalised name.
func (s *projectStore) GetProject(ctx context.Context, name string) (*domain.Project, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT project_id, project_name, category, sub_category, project_scope,
			aggregated_data, created_at, updated_at
		FROM projects WHERE project_name = ?
	`, domain.NormaliseName(name))

	var p domain.Project
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.SubCategory, &p.Scope,
		&p.AggregatedData, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	return &p, nil
}

// GetProjectData retrieves only the aggregated data blob for a project.
func (s *projectStore) GetProjectData(ctx context.Context, name string) (string, error) {
	var data string
	err := s.store.db.QueryRowContext(ctx,
		"SELECT aggregated_data FROM projects WHERE project_name = ?",
		domain.NormaliseName(name)).Scan(&data)
	if err == sql.ErrNoRows {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying project data: %w", err)
	}
	return data, nil
}

// ListProjectNames returns all project names, sorted.
func (s *projectStore) ListProjectNames(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT project_name FROM projects ORDER BY project_name")
	if err != nil {
		return nil, fmt.Errorf("querying project names: %w", err)
	}
	defer rows.Close()

	var names []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning project name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project names: %w", err)
	}

	return names, nil
}

// ListProjects returns all projects, ordered by name.
func (s *projectStore) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT project_id, project_name, category, sub_category, project_scope,
			aggregated_data, created_at, updated_at
		FROM projects ORDER BY project_name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project //nolint:prealloc // size unknown from query
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.SubCategory, &p.Scope,
			&p.AggregatedData, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}

	return projects, nil
}

// Wipe removes every project row.
func (s *projectStore) Wipe(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM projects"); err != nil {
		return fmt.Errorf("wiping projects: %w", err)
	}
	return nil
}

// ==================== Scan State Store ====================

// scanStateStore implements driven.ScanStateStore.
type scanStateStore struct {
	store *Store
}

var _ driven.ScanStateStore = (*scanStateStore)(nil)

// LastProcessed returns the recorded processing time for a path.
func (s *scanStateStore) LastProcessed(ctx context.Context, path string) (int64, error) {
	var processedAt int64
	err := s.store.db.QueryRowContext(ctx,
		"SELECT processed_at FROM scan_state WHERE path = ?", path).Scan(&processedAt)
	if err == sql.ErrNoRows {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("querying scan state: %w", err)
	}
	return processedAt, nil
}

// MarkProcessed records that a path was processed at the given Unix time.
func (s *scanStateStore) MarkProcessed(ctx context.Context, path string, processedAt int64) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO scan_state (path, processed_at)
		VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET processed_at = excluded.processed_at
	`, path, processedAt)
	if err != nil {
		return fmt.Errorf("marking processed: %w", err)
	}
	return nil
}

// Clear removes all scan state.
func (s *scanStateStore) Clear(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM scan_state"); err != nil {
		return fmt.Errorf("clearing scan state: %w", err)
	}
	return nil
}
