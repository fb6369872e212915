// Package filesystem discovers candidate documents on local disk.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Scanner = (*Connector)(nil)

// channelBuffer sizes the discovery channels so the walk can run ahead
// of slow consumers.
const channelBuffer = 16

// Connector walks a directory tree for supported document types and
// classifies each file against the scan state store.
type Connector struct {
	state driven.ScanStateStore

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a filesystem connector. The scan state store records when
// each file was last processed so unchanged files can be skipped.
func New(state driven.ScanStateStore) *Connector {
	return &Connector{state: state}
}

// Scan walks root and streams supported files. Both channels are closed
// when the walk finishes or the context is cancelled.
func (c *Connector) Scan(ctx context.Context, root string, force bool) (<-chan domain.FileRecord, <-chan error) {
	files := make(chan domain.FileRecord, channelBuffer)
	errs := make(chan error, 1)

	go func() {
		defer close(files)
		defer close(errs)

		if err := validateRoot(root); err != nil {
			errs <- err
			return
		}

		walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			if d.IsDir() {
				if isHidden(d.Name()) && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if isHidden(d.Name()) {
				return nil
			}

			ext := strings.ToLower(filepath.Ext(path))
			if !domain.SupportedExtensions[ext] {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return err
			}

			record := domain.FileRecord{
				Path:    path,
				Ext:     ext,
				Status:  c.classify(ctx, path, info.ModTime().Unix()),
				ModTime: info.ModTime(),
			}
			if record.Status == domain.FileSkipped && !force {
				return nil
			}

			select {
			case files <- record:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})

		if walkErr != nil && walkErr != ctx.Err() {
			errs <- fmt.Errorf("scan %s: %w", root, walkErr)
		}
	}()

	return files, errs
}

// classify compares the file's modification time against the last
// processed timestamp from the scan state store.
func (c *Connector) classify(ctx context.Context, path string, modTime int64) domain.FileStatus {
	if c.state == nil {
		return domain.FileNew
	}

	last, err := c.state.LastProcessed(ctx, path)
	if err != nil || last == 0 {
		return domain.FileNew
	}
	if modTime > last {
		return domain.FileUpdated
	}
	return domain.FileSkipped
}

// Watch listens for files created or modified under root. Subdirectories
// present at start are watched too; new subdirectories are added as they
// appear. The returned channel closes when the context is cancelled.
func (c *Connector) Watch(ctx context.Context, root string) (<-chan domain.FileRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("connector is closed")
	}
	if err := validateRoot(root); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// Watch root and all non-hidden subdirectories.
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if isHidden(d.Name()) && path != root {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}

	c.watcher = watcher
	files := make(chan domain.FileRecord, channelBuffer)

	go func() {
		defer close(files)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				record := c.handleFsEvent(ctx, watcher, event)
				if record == nil {
					continue
				}
				select {
				case files <- *record:
				case <-ctx.Done():
					return
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return files, nil
}

// handleFsEvent converts a filesystem event into a file record, or nil
// when the event is not of interest.
func (c *Connector) handleFsEvent(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event) *domain.FileRecord {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return nil
	}
	if isHidden(filepath.Base(event.Name)) {
		return nil
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return nil
	}
	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 {
			watcher.Add(event.Name)
		}
		return nil
	}

	ext := strings.ToLower(filepath.Ext(event.Name))
	if !domain.SupportedExtensions[ext] {
		return nil
	}

	status := c.classify(ctx, event.Name, info.ModTime().Unix())
	if status == domain.FileSkipped {
		return nil
	}

	return &domain.FileRecord{
		Path:    event.Name,
		Ext:     ext,
		Status:  status,
		ModTime: info.ModTime(),
	}
}

// Close stops any active watcher. Close is idempotent.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

// validateRoot checks that root exists and is a directory.
func validateRoot(root string) error {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", root)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", root)
	}
	return nil
}

// isHidden reports whether a file or directory name starts with a dot.
// "." and ".." are not considered hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}
