package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"aozorascraper/pkg/records"
)

// LoadLanguage reads the persisted header language. A missing file means
// Japanese, the catalog's own language.
func LoadLanguage(path string) (records.Language, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return records.Japanese, nil
	}
	if err != nil {
		return records.Japanese, fmt.Errorf("failed to read language file: %w", err)
	}
	return records.ParseLanguage(strings.TrimSpace(string(data))), nil
}

// SaveLanguage persists lang for jobs started afterwards. The file is
// replaced atomically.
func SaveLanguage(path string, lang records.Language) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".language-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(string(lang) + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write language file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close language file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save language file: %w", err)
	}
	return nil
}
