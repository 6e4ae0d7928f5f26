package logger

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// LogJobTransition logs a state change of a scrape job
func LogJobTransition(log Logger, mode, selection, from, to string) {
	log.InfoWithFields("Scrape job state changed", map[string]interface{}{
		"mode":      mode,
		"selection": selection,
		"from":      from,
		"to":        to,
	})
}

// LogLeafFailure logs one contained leaf failure. The job continues.
func LogLeafFailure(log Logger, fields map[string]interface{}, err error) {
	log.WithError(err).WarnWithFields("Leaf failed", fields)
}

// LogFlush logs a written artifact
func LogFlush(log Logger, path string, rows int, err error) {
	fields := map[string]interface{}{
		"path": path,
		"rows": rows,
	}
	if err != nil {
		log.WithError(err).ErrorWithFields("Flush failed", fields)
		return
	}
	log.InfoWithFields("Artifact written", fields)
}

// LogScrapeProgress logs scraping progress
func LogScrapeProgress(log Logger, target string, success, fail, total int) {
	done := success + fail
	percentage := 0.0
	if total > 0 {
		percentage = float64(done) / float64(total) * 100
	}

	log.WithFields(map[string]interface{}{
		"target":     target,
		"success":    success,
		"fail":       fail,
		"total":      total,
		"percentage": fmt.Sprintf("%.1f%%", percentage),
	}).Debug("Scraping progress")
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing (useful for testing)
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { l := zerolog.Nop(); return &l }
