package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"aozorascraper/pkg/browser"
	"aozorascraper/pkg/cancel"
	"aozorascraper/pkg/catalog"
	"aozorascraper/pkg/checkpoint"
	"aozorascraper/pkg/config"
	errs "aozorascraper/pkg/errors"
	"aozorascraper/pkg/logger"
	"aozorascraper/pkg/metrics"
	"aozorascraper/pkg/progress"
	"aozorascraper/pkg/ratelimit"
	"aozorascraper/pkg/records"
	"aozorascraper/pkg/sink"
)

// State of the orchestrator or the outcome of one job
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// checkpointState maps a terminal state to its checkpoint name
func (s State) checkpointState() string {
	switch s {
	case StateCompleted:
		return checkpoint.StateCompleted
	case StateCancelled:
		return checkpoint.StateStopped
	}
	return checkpoint.StateFailed
}

// Job is one run command
type Job struct {
	Mode records.Mode
	// Selection is "all" or one group key; used by download, book and title
	Selection string
	// IDs is the author ID range; used by author
	IDs catalog.Range
	// Language of the artifact headers; Japanese when empty
	Language records.Language
}

// Label names the selection of the job in logs, checkpoints and artifacts
func (j Job) Label() string {
	if j.Mode == records.ModeAuthor {
		return j.IDs.String()
	}
	if j.Selection == "" {
		return catalog.All
	}
	return j.Selection
}

// Result summarizes a finished job
type Result struct {
	State     State
	Success   int
	Fail      int
	Artifacts []string
	Err       error
}

// Orchestrator runs scrape jobs against one browser at a time
type Orchestrator struct {
	cfg      *config.Config
	launcher browser.Launcher
	writer   *sink.Writer
	reporter progress.Reporter
	limiter  ratelimit.Limiter
	journal  *checkpoint.Journal
	metrics  *metrics.Metrics
	logger   logger.Logger
	cancel   *cancel.Controller

	mu    sync.Mutex
	state State
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithReporter sets the progress receiver
func WithReporter(r progress.Reporter) Option {
	return func(o *Orchestrator) { o.reporter = r }
}

// WithLimiter replaces the limiter built from the pacing configuration
func WithLimiter(l ratelimit.Limiter) Option {
	return func(o *Orchestrator) { o.limiter = l }
}

// WithJournal records the position of every job in a checkpoint
func WithJournal(j *checkpoint.Journal) Option {
	return func(o *Orchestrator) { o.journal = j }
}

// WithMetrics records job counters
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithController shares a cancellation flag with the caller
func WithController(c *cancel.Controller) Option {
	return func(o *Orchestrator) { o.cancel = c }
}

// New creates an idle Orchestrator
func New(cfg *config.Config, l browser.Launcher, w *sink.Writer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		launcher: l,
		writer:   w,
		reporter: progress.Nop{},
		cancel:   cancel.New(),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.limiter == nil {
		o.limiter = ratelimit.New(cfg.Pacing.RequestsPerMinute, cfg.Pacing.BurstSize)
	}
	if o.logger == nil {
		o.logger = logger.GetLogger()
	}
	return o
}

// State returns the current state
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// RequestCancel stops the running job at its next leaf
func (o *Orchestrator) RequestCancel() {
	o.cancel.RequestCancel()
	o.logger.Info("Cancellation requested")
}

func (o *Orchestrator) acquire() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateRunning {
		return false
	}
	o.state = StateRunning
	return true
}

func (o *Orchestrator) release() {
	o.mu.Lock()
	o.state = StateIdle
	o.mu.Unlock()
}

// plan resolves the job into the groups it visits
func (o *Orchestrator) plan(job Job) ([]catalog.Group, error) {
	switch job.Mode {
	case records.ModeAuthor:
		if job.IDs.Start < 1 || job.IDs.End < job.IDs.Start {
			return nil, errs.Config("author range", fmt.Errorf("invalid range %s", job.IDs))
		}
		return nil, nil
	case records.ModeDownload, records.ModeBook, records.ModeTitle:
		groups, err := catalog.Select(job.Selection)
		if err != nil {
			return nil, errs.Config("select groups", err)
		}
		return groups, nil
	}
	return nil, errs.Config("select mode", fmt.Errorf("unknown mode %q", job.Mode))
}

// Run executes job and blocks until it reaches a terminal state. It returns
// ErrBusy while another job is running. The returned error is non-nil only
// when the job failed.
func (o *Orchestrator) Run(ctx context.Context, job Job) (*Result, error) {
	groups, err := o.plan(job)
	if err != nil {
		return nil, err
	}
	if job.Language == "" {
		job.Language = records.Japanese
	}
	if !o.acquire() {
		return nil, errs.ErrBusy
	}
	defer o.release()

	o.cancel.Reset()
	log := o.logger.WithFields(map[string]interface{}{
		"mode":      string(job.Mode),
		"selection": job.Label(),
	})
	logger.LogJobTransition(log, string(job.Mode), job.Label(), StateIdle.String(), StateRunning.String())
	o.metrics.JobStarted()
	if o.journal != nil {
		o.journal.Start(string(job.Mode), job.Label())
	}

	r := &run{
		o:      o,
		ctx:    ctx,
		job:    job,
		groups: groups,
		cols:   records.ColumnsFor(job.Mode),
		log:    log,
	}

	res := r.execute()

	logger.LogJobTransition(log, string(job.Mode), job.Label(), StateRunning.String(), res.State.String())
	o.metrics.JobFinished(string(job.Mode), res.State.String())
	if o.journal != nil {
		o.journal.Finish(res.State.checkpointState())
	}

	switch res.State {
	case StateCompleted:
		o.reporter.Completed()
	case StateCancelled:
		o.reporter.Stopped()
	default:
		o.reporter.Failed(res.Err)
	}
	return res, res.Err
}

// execute opens the session, traverses and settles the outcome
func (r *run) execute() *Result {
	res := &Result{}

	session, err := r.o.launcher.Open(r.ctx)
	if err != nil {
		r.log.WithError(err).Error("Failed to open browser session")
		res.State, res.Err = StateFailed, err
		return res
	}
	r.session = session
	defer func() {
		if err := session.Close(); err != nil {
			r.log.WithError(err).Warn("Failed to close browser session")
		}
	}()

	err = r.safeTraverse()
	res.Success, res.Fail = r.success, r.fail

	switch {
	case err == nil:
		res.State = StateCompleted
	case errors.Is(err, errs.ErrCancelled):
		res.State = StateCancelled
	default:
		r.log.WithError(err).Error("Scrape aborted")
		res.State, res.Err = StateFailed, err
		res.Artifacts = r.artifacts
		return res
	}

	// the open buffer is flushed on both completion and cancellation
	if err := r.flushOpen(); err != nil {
		res.State, res.Err = StateFailed, err
	}
	res.Artifacts = r.artifacts
	return res
}

func (r *run) safeTraverse() (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("scrape panicked: %v", p)
		}
	}()
	return r.traverse()
}
