// Package scraper drives a browser session through the Aozora Bunko catalog.
//
// The Orchestrator runs one job at a time in one of four modes:
//
//   - download: open the card page of every listed title and save its archive
//   - book: read title, reading and category from every card page
//   - author: read the author table of every author ID in a range
//   - title: read every cell of the title list tables
//
// Traversal order is fixed: groups in catalog order, then pages, rows and
// columns ascending. Failures are contained at the level they occur. A
// failed leaf is counted and left empty, a failed page is skipped, and a
// group is abandoned after too many consecutive page failures. Only launch
// and flush failures end a job.
//
// Usage:
//
//	store, _ := storage.NewManager(cfg.Output.Directory)
//	enc, _ := sink.Encoding(cfg.Output.Encoding)
//	o := scraper.New(cfg, browser.NewRodLauncher(cfg.Browser, log),
//	    sink.NewWriter(store, enc, nil),
//	    scraper.WithReporter(progress.NewLog(log, 50)),
//	)
//
//	res, err := o.Run(ctx, scraper.Job{Mode: records.ModeTitle, Selection: "あ"})
//
// Cancellation:
//
// RequestCancel, or cancelling ctx, stops the job at the next leaf. Records
// collected so far are flushed and the reporter receives Stopped instead of
// Completed.
package scraper
