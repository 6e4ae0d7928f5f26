package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"aozorascraper/pkg/browser"
	"aozorascraper/pkg/cancel"
	"aozorascraper/pkg/checkpoint"
	"aozorascraper/pkg/config"
	"aozorascraper/pkg/logger"
	"aozorascraper/pkg/metrics"
	"aozorascraper/pkg/progress"
	"aozorascraper/pkg/scraper"
	"aozorascraper/pkg/sink"
	"aozorascraper/pkg/storage"
	"aozorascraper/pkg/ui"
	"aozorascraper/pkg/ui/tui"
)

// progressEvery is the number of leaves between progress log lines
const progressEvery = 50

// runJob wires the orchestrator for one job and runs it to the end
func runJob(cmd *cobra.Command, cfg *config.Config, job scraper.Job) error {
	interactive := useTUI && !quiet && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		// the monitor owns the terminal
		cfg.Logging.Console = false
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return err
	}
	log := logger.GetLogger().WithFields(map[string]interface{}{
		"mode":      string(job.Mode),
		"selection": job.Label(),
	})

	lang, err := config.LoadLanguage(cfg.LanguageFile)
	if err != nil {
		log.WithError(err).Warn("Falling back to Japanese headers")
	}
	job.Language = lang

	store, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		return err
	}
	enc, err := sink.Encoding(cfg.Output.Encoding)
	if err != nil {
		return err
	}
	writer := sink.NewWriter(store, enc, sink.NewClock(time.Now))

	ctx, abort := context.WithCancel(cmd.Context())
	defer abort()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		m.Serve(ctx, cfg.Metrics.Addr, log)
	}

	ctrl := cancel.New()
	title := string(job.Mode) + " " + job.Label()
	reporters := progress.Multi{progress.NewLog(log, progressEvery)}

	var (
		monitor ui.TUI
		events  *progress.Channel
	)
	switch {
	case interactive:
		events = progress.NewChannel(256)
		monitor = tui.NewTUI(title, ctrl.RequestCancel)
		reporters = append(reporters, events)
	case !quiet:
		reporters = append(reporters, ui.NewProgressDisplay(os.Stderr, title))
	}

	orch := scraper.New(cfg, browser.NewRodLauncher(cfg.Browser, log), writer,
		scraper.WithReporter(reporters),
		scraper.WithJournal(checkpoint.NewJournal("", log)),
		scraper.WithMetrics(m),
		scraper.WithLogger(log),
		scraper.WithController(ctrl),
	)

	go watchSignals(ctx, orch, abort)

	if !interactive {
		ui.PrintInfo("Job", title)
		ui.PrintInfo("Output", store.GetOutputDir())
	}

	type outcome struct {
		res *scraper.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := orch.Run(ctx, job)
		if res == nil && events != nil {
			// rejected before it started; release the monitor
			events.Failed(err)
		}
		done <- outcome{res, err}
	}()

	if interactive {
		monitor.Follow(events)
		go monitor.LogInfo("Writing to %s", store.GetOutputDir())
		if err := monitor.Start(); err != nil {
			log.WithError(err).Error("TUI failed")
		}
	}
	// the monitor may quit early; the job still flushes before it ends
	out := <-done
	if out.res == nil {
		return out.err
	}

	if notifications {
		ui.NewNotifier().JobFinished(title, *out.res)
	}

	if out.res.State == scraper.StateFailed {
		if out.err == nil {
			return errors.New("scrape failed")
		}
		return out.err
	}
	return nil
}

// watchSignals turns the first interrupt into a pause and the second into
// an abort.
func watchSignals(ctx context.Context, orch *scraper.Orchestrator, abort context.CancelFunc) {
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		ui.PrintWarning("Stopping after the current item, press Ctrl+C again to abort")
		orch.RequestCancel()
	case <-ctx.Done():
		return
	}

	select {
	case <-sigs:
		abort()
	case <-ctx.Done():
	}
}
