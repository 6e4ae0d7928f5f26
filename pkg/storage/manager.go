package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Manager owns the output directory of a run and hands out artifact names
// that never collide with an existing file
type Manager struct {
	outputDir string
	existing  map[string]bool
	mu        sync.Mutex
}

// NewManager creates a new storage manager
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manager := &Manager{
		outputDir: outputDir,
		existing:  make(map[string]bool),
	}

	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return manager, nil
}

// scanExistingFiles records the artifacts already present in the directory
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			m.existing[entry.Name()] = true
		}
	}

	return nil
}

// Exists checks if an artifact with the given file name is present
func (m *Manager) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.existsLocked(name)
}

func (m *Manager) existsLocked(name string) bool {
	if m.existing[name] {
		return true
	}
	if _, err := os.Stat(filepath.Join(m.outputDir, name)); err == nil {
		m.existing[name] = true
		return true
	}
	return false
}

// Reserve returns name, or name with a numeric suffix if it is taken, and
// marks the result as used.
func (m *Manager) Reserve(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 2; m.existsLocked(candidate); i++ {
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
	m.existing[candidate] = true
	return candidate
}

// Save writes r to name inside the output directory. The data is written to
// a temporary file, synced and renamed so a partial file is never visible.
func (m *Manager) Save(r io.Reader, name string) (string, error) {
	filename := filepath.Join(m.outputDir, name)

	out, err := os.CreateTemp(m.outputDir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := out.Name()

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to write artifact data: %w", err)
	}

	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to sync artifact: %w", err)
	}

	if err := out.Close(); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.existing[name] = true
	m.mu.Unlock()

	return filename, nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// Count returns the number of files known in the output directory
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.existing)
}
