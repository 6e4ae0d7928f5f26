package checkpoint

import (
	"path/filepath"

	"aozorascraper/pkg/logger"
)

// Journal keeps the checkpoint of the running job up to date. Failures to
// write a checkpoint are logged and never interrupt the job.
type Journal struct {
	dir string
	log logger.Logger

	mgr *Manager
	cp  *Checkpoint
}

// NewJournal returns a Journal writing under dir, or under the user data
// directory when dir is empty.
func NewJournal(dir string, log logger.Logger) *Journal {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Journal{dir: dir, log: log}
}

// Start begins a checkpoint for a new job.
func (j *Journal) Start(mode, selection string) {
	var (
		mgr *Manager
		err error
	)
	if j.dir == "" {
		mgr, err = NewManager(mode)
	} else {
		mgr, err = NewManagerIn(j.dir, mode)
	}
	if err != nil {
		j.log.WithError(err).Warn("Checkpointing disabled")
		j.mgr, j.cp = nil, nil
		return
	}
	mgr.logger = j.log

	cp, err := mgr.Create(mode, selection)
	if err != nil {
		j.log.WithError(err).Warn("Checkpointing disabled")
		j.mgr, j.cp = nil, nil
		return
	}
	j.mgr, j.cp = mgr, cp
}

// Mark records a fully processed position.
func (j *Journal) Mark(pos Position, success, fail int) {
	if j.cp == nil {
		return
	}
	if err := j.mgr.UpdateProgress(j.cp, pos, success, fail); err != nil {
		j.log.WithError(err).Warn("Failed to update checkpoint")
	}
}

// Artifact records a written artifact.
func (j *Journal) Artifact(path string) {
	if j.cp == nil {
		return
	}
	if err := j.mgr.RecordArtifact(j.cp, filepath.Clean(path)); err != nil {
		j.log.WithError(err).Warn("Failed to update checkpoint")
	}
}

// Finish records the terminal state of the job.
func (j *Journal) Finish(state string) {
	if j.cp == nil {
		return
	}
	if err := j.mgr.Finish(j.cp, state); err != nil {
		j.log.WithError(err).Warn("Failed to finish checkpoint")
	}
	j.mgr, j.cp = nil, nil
}
