package scraper

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"aozorascraper/pkg/browser"
	"aozorascraper/pkg/catalog"
	"aozorascraper/pkg/checkpoint"
	errs "aozorascraper/pkg/errors"
	"aozorascraper/pkg/logger"
	"aozorascraper/pkg/records"
	"aozorascraper/pkg/selectors"
	"aozorascraper/pkg/sink"
)

// titleColumnCount is the number of cells read per title list row
const titleColumnCount = 6

var (
	errNoArchive = errors.New("card page has no zip archive")
	errNoAuthor  = errors.New("no author at this id")
)

// run is the state of one job. It is owned by the job's goroutine.
type run struct {
	o       *Orchestrator
	ctx     context.Context
	job     Job
	groups  []catalog.Group
	cols    records.Columns
	log     logger.Logger
	session browser.Session

	current   *sink.Sink
	artifacts []string

	success int
	fail    int
	total   int
}

func (r *run) perGroup() bool {
	return r.job.Mode == records.ModeBook || r.job.Mode == records.ModeTitle
}

// expected counts the leaves of a full traversal
func (r *run) expected() int {
	if r.job.Mode == records.ModeAuthor {
		return r.job.IDs.Len()
	}
	perPage := catalog.RowRange().Len()
	if r.job.Mode == records.ModeTitle {
		perPage *= titleColumnCount
	}
	n := 0
	for _, g := range r.groups {
		if !g.Skipped() {
			n += g.Pages * perPage
		}
	}
	return n
}

func (r *run) traverse() error {
	r.total = r.expected()
	if r.total > 0 {
		r.o.reporter.Total(r.total)
	}

	switch r.job.Mode {
	case records.ModeAuthor:
		r.open(r.job.Label())
		return r.traverseAuthors()
	case records.ModeDownload:
		// one artifact per job, even when nothing is traversed
		r.open(r.job.Label())
	}

	for _, g := range r.groups {
		if err := r.check(); err != nil {
			return err
		}
		if g.Skipped() {
			r.log.WithField("group", g.Key).Debug("Group below minimum size, skipped")
			continue
		}

		if r.perGroup() {
			r.open(g.Key)
		}

		if err := r.traverseGroup(g); err != nil {
			return err
		}

		if r.perGroup() {
			if err := r.flushOpen(); err != nil {
				return err
			}
		}
	}
	return nil
}

// traverseGroup visits every page of g. A page that cannot be loaded is
// skipped; the group is abandoned after too many consecutive page failures.
func (r *run) traverseGroup(g catalog.Group) error {
	limit := r.o.cfg.Pacing.MaxPageFailures
	failures := 0

	for _, page := range g.PageRange().Values() {
		if err := r.check(); err != nil {
			return err
		}

		url := catalog.BookListURL(r.o.cfg.Site.BookURL, g.Slug, page)
		err := r.navigate(url)
		if err == nil {
			err = r.pause(r.o.cfg.Pacing.PageSettle)
		}
		if err == nil {
			err = r.traversePage(g, page)
		}
		if errors.Is(err, errs.ErrCancelled) {
			return err
		}
		if err != nil {
			failures++
			r.log.WithError(err).WarnWithFields("Page skipped", map[string]interface{}{
				"group": g.Key,
				"page":  page,
				"url":   url,
			})
			if limit > 0 && failures >= limit {
				r.log.WarnWithFields("Group abandoned after consecutive page failures", map[string]interface{}{
					"group":    g.Key,
					"failures": failures,
				})
				return nil
			}
			continue
		}

		failures = 0
		r.mark(checkpoint.Position{Group: g.Key, Page: page})
	}
	return nil
}

func (r *run) traversePage(g catalog.Group, page int) error {
	for _, row := range catalog.RowRange().Values() {
		if err := r.check(); err != nil {
			return err
		}

		var (
			more bool
			err  error
		)
		switch r.job.Mode {
		case records.ModeDownload:
			more, err = r.downloadRow(g, page, row)
		case records.ModeBook:
			more, err = r.bookRow(g, page, row)
		case records.ModeTitle:
			more, err = r.titleRow(g, page, row)
		}
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}

// downloadRow opens the card page of one list row and saves its archive.
// It reports false when the row does not exist.
func (r *run) downloadRow(g catalog.Group, page, row int) (bool, error) {
	link := selectors.DownloadLink(row)
	if err := r.pause(r.o.cfg.Pacing.RowDelay); err != nil {
		return false, err
	}
	if !r.session.Exists(r.ctx, link) {
		return false, nil
	}

	fields := r.fields(g, page, row, 0, link)
	r.status(fmt.Sprintf("downloading Page.%d No.%d", page, row-1), g.Label())

	rec := records.New(r.cols)
	rec[records.KeyNo] = r.read(selectors.NoCell(row))
	rec[records.KeyTitle] = r.read(link)

	leafErr, err := r.throughCard(link, func() error {
		return r.fetchArchive(rec)
	})
	if errors.Is(err, errs.ErrCancelled) || errors.Is(leafErr, errs.ErrCancelled) {
		return false, errs.ErrCancelled
	}
	r.leaf(fields, leafErr)
	if leafErr == nil {
		r.current.Append(rec)
	}
	return err == nil, err
}

func (r *run) fetchArchive(rec records.Record) error {
	href, err := r.session.ReadProperty(r.ctx, selectors.ZipLink, browser.PropertyHref)
	if err != nil {
		return err
	}
	if !strings.Contains(href, ".zip") {
		return errs.Interaction("read archive link", selectors.ZipLink, errNoArchive)
	}
	rec[records.KeyArchiveURL] = href

	if err := r.pause(r.o.cfg.Pacing.PageSettle); err != nil {
		return err
	}
	if err := r.session.WaitForSelector(r.ctx, selectors.ZipLink, r.o.cfg.Browser.SelectorTimeout); err != nil {
		return err
	}
	if err := r.session.TriggerDownload(r.ctx, selectors.ZipLink); err != nil {
		return err
	}
	return r.pause(r.o.cfg.Pacing.DownloadSettle)
}

// cardCells are the values read from a book card page, in page order
var cardCells = []struct{ key, loc string }{
	{records.KeyTitle, selectors.BookTitle},
	{records.KeyTitleRuby, selectors.BookReading},
	{records.KeyCategory, selectors.Category},
}

// bookRow reads the card page of one list row.
func (r *run) bookRow(g catalog.Group, page, row int) (bool, error) {
	link := selectors.DownloadLink(row)
	if err := r.pause(r.o.cfg.Pacing.LeafDelay); err != nil {
		return false, err
	}
	if !r.session.Exists(r.ctx, link) {
		return false, nil
	}

	fields := r.fields(g, page, row, 0, link)
	r.status(fmt.Sprintf("Page.%d No.%d", page, row-1), g.Label())

	rec := records.New(r.cols)
	rec[records.KeyNo] = r.read(selectors.NoCell(row))

	opened := false
	leafErr, err := r.throughCard(link, func() error {
		opened = true
		var first error
		for _, c := range cardCells {
			v, err := r.session.ReadProperty(r.ctx, c.loc, browser.PropertyText)
			if err != nil {
				if first == nil {
					first = err
				}
				continue
			}
			rec[c.key] = v
		}
		return first
	})
	if errors.Is(err, errs.ErrCancelled) || errors.Is(leafErr, errs.ErrCancelled) {
		return false, errs.ErrCancelled
	}
	r.leaf(fields, leafErr)
	if opened {
		r.current.Append(rec)
	}
	return err == nil, err
}

// throughCard clicks link, runs visit on the card page and returns to the
// list. leafErr is the failure of the leaf; err means the list page is lost.
func (r *run) throughCard(link string, visit func() error) (leafErr, err error) {
	if err := r.limit(); err != nil {
		return nil, err
	}
	if err := r.pause(r.o.cfg.Pacing.PageSettle); err != nil {
		return nil, err
	}
	if err := r.session.Click(r.ctx, link); err != nil {
		return err, nil
	}
	if err := r.pause(r.o.cfg.Pacing.ClickSettle); err != nil {
		return nil, err
	}

	leafErr = visit()

	if err := r.session.GoBack(r.ctx); err != nil {
		return leafErr, err
	}
	return leafErr, nil
}

// titleRow reads every cell of one list row.
func (r *run) titleRow(g catalog.Group, page, row int) (bool, error) {
	if !r.session.Exists(r.ctx, selectors.TitleCell(row, 1)) {
		return false, nil
	}

	keys := r.cols.Keys()
	rec := records.New(r.cols)
	visited := 0
	for col := 1; col <= titleColumnCount; col++ {
		if err := r.check(); err != nil {
			if visited > 0 {
				r.current.Append(rec)
			}
			return false, err
		}

		loc := selectors.TitleCell(row, col)
		r.status(fmt.Sprintf("Page.%d No.%d", page, row-1), g.Label())
		if err := r.pause(r.o.cfg.Pacing.LeafDelay); err != nil {
			if visited > 0 {
				r.current.Append(rec)
			}
			return false, err
		}

		v, err := r.session.ReadProperty(r.ctx, loc, browser.PropertyText)
		r.leaf(r.fields(g, page, row, col, loc), err)
		if err == nil {
			rec[keys[col-1]] = v
		}
		visited++
	}
	r.current.Append(rec)
	return true, nil
}

// authorRows maps rows of the author table to record keys
var authorRows = []string{
	records.KeyAuthor,
	records.KeyAuthorRuby,
	records.KeyRoman,
	records.KeyBirth,
	records.KeyDeath,
	records.KeyBiography,
}

func (r *run) traverseAuthors() error {
	target := r.job.Label()
	for _, id := range r.job.IDs.Values() {
		if err := r.check(); err != nil {
			return err
		}

		url := catalog.AuthorURL(r.o.cfg.Site.AuthorURL, id)
		fields := map[string]interface{}{"mode": string(r.job.Mode), "id": id, "url": url}
		r.status(fmt.Sprintf("downloading Page.%d", id), target)

		if err := r.navigate(url); err != nil {
			if errors.Is(err, errs.ErrCancelled) {
				return err
			}
			r.leaf(fields, err)
			r.mark(checkpoint.Position{AuthorID: id})
			continue
		}
		if err := r.pause(r.o.cfg.Pacing.PageSettle); err != nil {
			return err
		}

		rec := records.New(r.cols)
		rec[records.KeyNo] = strconv.Itoa(id)

		var leafErr error
		for i, key := range authorRows {
			if err := r.pause(r.o.cfg.Pacing.LeafDelay); err != nil {
				return err
			}
			loc := selectors.AuthorCell(i + 1)
			v, err := r.session.ReadProperty(r.ctx, loc, browser.PropertyText)
			if err != nil {
				if leafErr == nil {
					leafErr = err
				}
				continue
			}
			rec[key] = v
		}

		switch {
		case leafErr == nil && rec[records.KeyAuthor] == "":
			r.leaf(fields, errs.Interaction("read author", selectors.AuthorCell(1), errNoAuthor))
		default:
			r.leaf(fields, leafErr)
			r.current.Append(rec)
		}
		r.mark(checkpoint.Position{AuthorID: id})
	}
	return nil
}

// check is the cancellation point of every loop
func (r *run) check() error {
	if err := r.o.cancel.Check(); err != nil {
		return err
	}
	if r.ctx.Err() != nil {
		return errs.ErrCancelled
	}
	return nil
}

func (r *run) pause(d time.Duration) error {
	if err := r.session.Wait(r.ctx, d); err != nil {
		if r.ctx.Err() != nil {
			return errs.ErrCancelled
		}
		return err
	}
	return nil
}

func (r *run) limit() error {
	if err := r.o.limiter.Wait(r.ctx); err != nil {
		return errs.ErrCancelled
	}
	return nil
}

func (r *run) navigate(url string) error {
	if err := r.limit(); err != nil {
		return err
	}
	start := time.Now()
	err := r.session.Navigate(r.ctx, url)
	r.o.metrics.ObservePageLoad(string(r.job.Mode), time.Since(start), err == nil)
	if err != nil && r.ctx.Err() != nil {
		return errs.ErrCancelled
	}
	return err
}

// read returns the text of loc; a failure leaves the value empty
func (r *run) read(loc string) string {
	v, err := r.session.ReadProperty(r.ctx, loc, browser.PropertyText)
	if err != nil {
		r.log.WithError(err).WithField("locator", loc).Debug("Optional read failed")
	}
	return v
}

func (r *run) fields(g catalog.Group, page, row, col int, loc string) map[string]interface{} {
	f := map[string]interface{}{
		"mode":    string(r.job.Mode),
		"group":   g.Key,
		"page":    page,
		"row":     row,
		"locator": loc,
	}
	if col > 0 {
		f["col"] = col
	}
	return f
}

func (r *run) status(status, target string) {
	r.o.reporter.Status(status, target)
}

// leaf accounts one visited leaf
func (r *run) leaf(fields map[string]interface{}, err error) {
	if err != nil {
		r.fail++
		logger.LogLeafFailure(r.log, fields, err)
	} else {
		r.success++
	}
	r.o.metrics.ObserveLeaf(string(r.job.Mode), err == nil)
	r.o.reporter.Counts(r.success, r.fail)
}

func (r *run) mark(pos checkpoint.Position) {
	if r.o.journal != nil {
		r.o.journal.Mark(pos, r.success, r.fail)
	}
}

func (r *run) open(label string) {
	r.current = r.o.writer.Open(sink.Artifact{
		Mode:     r.job.Mode,
		Label:    label,
		Columns:  r.cols,
		Language: r.job.Language,
	})
}

// flushOpen writes the open buffer once
func (r *run) flushOpen() error {
	if r.current == nil || r.current.Flushed() {
		return nil
	}
	path, err := r.current.Flush()
	logger.LogFlush(r.log, path, r.current.Len(), err)
	r.o.metrics.ObserveFlush(string(r.job.Mode), err == nil)
	if err != nil {
		return err
	}
	r.artifacts = append(r.artifacts, path)
	if r.o.journal != nil {
		r.o.journal.Artifact(path)
	}
	return nil
}
