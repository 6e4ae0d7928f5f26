package checkpoint

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"aozorascraper/pkg/logger"
)

// Run states recorded in a checkpoint
const (
	StateRunning   = "running"
	StateStopped   = "stopped"
	StateFailed    = "failed"
	StateCompleted = "completed"
)

const fileSuffix = ".checkpoint.json"

// Position is the last fully processed unit of a run
type Position struct {
	Group    string `json:"group,omitempty"`
	Page     int    `json:"page,omitempty"`
	AuthorID int    `json:"author_id,omitempty"`
}

// Checkpoint represents the state of the last run of one mode
type Checkpoint struct {
	Mode      string    `json:"mode"`
	Selection string    `json:"selection"`
	State     string    `json:"state"`
	Last      Position  `json:"last"`
	Success   int       `json:"success"`
	Fail      int       `json:"fail"`
	Artifacts []string  `json:"artifacts,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// Manager handles checkpoint operations for one mode
type Manager struct {
	checkpointPath string
	logger         logger.Logger
	mu             sync.Mutex
}

// NewManager creates a checkpoint manager for mode in the user data directory
func NewManager(mode string) (*Manager, error) {
	dataDir, err := getDataDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}
	return NewManagerIn(filepath.Join(dataDir, "checkpoints"), mode)
}

// NewManagerIn creates a checkpoint manager for mode under dir
func NewManagerIn(dir, mode string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	return &Manager{
		checkpointPath: filepath.Join(dir, mode+fileSuffix),
		logger:         logger.GetLogger(),
	}, nil
}

// Path returns the checkpoint file path
func (m *Manager) Path() string {
	return m.checkpointPath
}

// Create starts a fresh checkpoint, keeping a backup of the previous one
func (m *Manager) Create(mode, selection string) (*Checkpoint, error) {
	if err := m.BackupCheckpoint(); err != nil {
		m.logger.WithError(err).Warn("Failed to back up previous checkpoint")
	}

	now := time.Now()
	checkpoint := &Checkpoint{
		Mode:      mode,
		Selection: selection,
		State:     StateRunning,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}

	if err := m.Save(checkpoint); err != nil {
		return nil, fmt.Errorf("failed to save initial checkpoint: %w", err)
	}

	m.logger.InfoWithFields("Checkpoint created", map[string]interface{}{
		"mode": mode,
		"path": m.checkpointPath,
	})

	return checkpoint, nil
}

// Load loads an existing checkpoint. It returns nil when none exists.
func (m *Manager) Load() (*Checkpoint, error) {
	return load(m.checkpointPath)
}

func load(path string) (*Checkpoint, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open checkpoint file: %w", err)
	}
	defer file.Close()

	var checkpoint Checkpoint
	if err := json.NewDecoder(file).Decode(&checkpoint); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	return &checkpoint, nil
}

// Save saves the checkpoint to disk atomically
func (m *Manager) Save(checkpoint *Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	checkpoint.UpdatedAt = time.Now()

	file, err := os.CreateTemp(filepath.Dir(m.checkpointPath), ".checkpoint-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint file: %w", err)
	}
	tempPath := file.Name()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(checkpoint); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync checkpoint file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}

	if err := os.Rename(tempPath, m.checkpointPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace checkpoint file: %w", err)
	}

	m.logger.DebugWithFields("Checkpoint saved", map[string]interface{}{
		"mode":    checkpoint.Mode,
		"state":   checkpoint.State,
		"success": checkpoint.Success,
		"fail":    checkpoint.Fail,
	})

	return nil
}

// Delete removes the checkpoint file
func (m *Manager) Delete() error {
	if err := os.Remove(m.checkpointPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}

	m.logger.Debug("Checkpoint deleted")
	return nil
}

// Exists checks if a checkpoint file exists
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.checkpointPath)
	return err == nil
}

// UpdateProgress records the last completed position and the running counts
func (m *Manager) UpdateProgress(checkpoint *Checkpoint, pos Position, success, fail int) error {
	checkpoint.Last = pos
	checkpoint.Success = success
	checkpoint.Fail = fail
	return m.Save(checkpoint)
}

// RecordArtifact appends a written artifact path
func (m *Manager) RecordArtifact(checkpoint *Checkpoint, path string) error {
	checkpoint.Artifacts = append(checkpoint.Artifacts, path)
	return m.Save(checkpoint)
}

// Finish records the terminal state. A completed run leaves nothing to
// resume, so its checkpoint is removed.
func (m *Manager) Finish(checkpoint *Checkpoint, state string) error {
	if state == StateCompleted {
		return m.Delete()
	}
	checkpoint.State = state
	return m.Save(checkpoint)
}

// BackupCheckpoint creates a backup of the current checkpoint
func (m *Manager) BackupCheckpoint() error {
	if !m.Exists() {
		return nil
	}

	backupPath := m.checkpointPath + ".backup"

	src, err := os.Open(m.checkpointPath)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint for backup: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy checkpoint to backup: %w", err)
	}

	m.logger.Debug("Checkpoint backed up")
	return nil
}

// LoadAll reads every checkpoint in the user data directory, newest first
func LoadAll() ([]*Checkpoint, error) {
	dataDir, err := getDataDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}
	return LoadAllIn(filepath.Join(dataDir, "checkpoints"))
}

// LoadAllIn reads every checkpoint under dir, newest first
func LoadAllIn(dir string) ([]*Checkpoint, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read checkpoints directory: %w", err)
	}

	var out []*Checkpoint
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}
		cp, err := load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if cp != nil {
			out = append(out, cp)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// getDataDirectory returns the appropriate data directory for the current OS
func getDataDirectory() (string, error) {
	const app = "aozorascraper"
	var dataDir string

	switch runtime.GOOS {
	case "linux":
		// Use XDG_DATA_HOME if set, otherwise ~/.local/share
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			dataDir = filepath.Join(xdgDataHome, app)
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share", app)
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, "Library", "Application Support", app)
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		dataDir = filepath.Join(appData, app)
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dataDir, nil
}
