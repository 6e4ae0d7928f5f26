package progress

import (
	"sync"

	"aozorascraper/pkg/logger"
)

// Log writes events to a structured logger. Counts are logged at debug level
// every Every updates so long runs do not flood the log.
type Log struct {
	log   logger.Logger
	every int

	mu      sync.Mutex
	total   int
	updates int
	target  string
}

// NewLog returns a Log reporter. every <= 0 logs every count update.
func NewLog(log logger.Logger, every int) *Log {
	if every <= 0 {
		every = 1
	}
	return &Log{log: log, every: every}
}

func (l *Log) Total(n int) {
	l.mu.Lock()
	l.total = n
	l.mu.Unlock()
	l.log.WithField("total", n).Debug("Expected leaf count")
}

func (l *Log) Status(status, target string) {
	l.mu.Lock()
	l.target = target
	l.mu.Unlock()
	if status != "" {
		l.log.WithField("target", target).Info(status)
	}
}

func (l *Log) Counts(success, fail int) {
	l.mu.Lock()
	l.updates++
	due := l.updates%l.every == 0
	total, target := l.total, l.target
	l.mu.Unlock()
	if due {
		logger.LogScrapeProgress(l.log, target, success, fail, total)
	}
}

func (l *Log) Completed() { l.log.Info("Scrape completed") }
func (l *Log) Stopped()   { l.log.Warn("Scrape stopped") }

func (l *Log) Failed(err error) {
	l.log.WithError(err).Error("Scrape failed")
}
