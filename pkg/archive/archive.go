// Package archive manages the draft file lifecycle: discovery in the
// intake directory and the move to the archive directory after a
// successful publish. Presence in the archive is the only durable
// success marker; there is no separate state store.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Manager moves files between the intake and archive directories.
type Manager struct {
	intakeDir  string
	archiveDir string
}

// NewManager validates the intake directory and ensures the archive
// directory exists. A missing intake directory is fatal for the run.
func NewManager(intakeDir, archiveDir string) (*Manager, error) {
	info, err := os.Stat(intakeDir)
	if err != nil {
		return nil, fmt.Errorf("intake directory %q not accessible: %w", intakeDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("intake path %q is not a directory", intakeDir)
	}
	if err := os.MkdirAll(archiveDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &Manager{intakeDir: intakeDir, archiveDir: archiveDir}, nil
}

// Discover returns the intake HTML files in name order. Files that
// failed to publish on a previous run naturally show up again here.
func (m *Manager) Discover() ([]string, error) {
	entries, err := os.ReadDir(m.intakeDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read intake directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".html") || strings.HasSuffix(name, ".htm") {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files, nil
}

// IntakePath returns the full path of an intake file.
func (m *Manager) IntakePath(name string) string {
	return filepath.Join(m.intakeDir, name)
}

// Archive moves a published draft out of the intake directory. Rename
// is tried first; a cross-filesystem move falls back to copy-and-remove.
func (m *Manager) Archive(name string) error {
	src := filepath.Join(m.intakeDir, name)
	dst := filepath.Join(m.archiveDir, name)

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to archive %q: %w", name, err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("failed to archive %q: %w", name, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("archived %q but failed to remove intake copy: %w", name, err)
	}
	return nil
}
