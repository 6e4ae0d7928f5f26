// Package logger provides the structured logging interface of the scraper.
//
// It wraps zerolog behind a small Logger interface so that the scrape engine
// can be tested against NewTestLogger or NewNopLogger.
//
// Basic Usage:
//
//	cfg := &config.LoggingConfig{Level: "info", Console: true}
//	if err := logger.Initialize(cfg); err != nil {
//	    return err
//	}
//
//	log := logger.GetLogger().WithFields(map[string]interface{}{
//	    "mode":  "title",
//	    "group": "あ",
//	})
//	log.Info("Group started")
//
// Console output is written to stderr. When a log file is configured the
// console switches to plain text and the file receives JSON lines.
package logger
