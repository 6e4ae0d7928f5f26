package scraper

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"aozorascraper/pkg/browser"
	"aozorascraper/pkg/catalog"
	"aozorascraper/pkg/checkpoint"
	"aozorascraper/pkg/config"
	errs "aozorascraper/pkg/errors"
	"aozorascraper/pkg/logger"
	"aozorascraper/pkg/metrics"
	"aozorascraper/pkg/progress"
	"aozorascraper/pkg/ratelimit"
	"aozorascraper/pkg/records"
	"aozorascraper/pkg/selectors"
	"aozorascraper/pkg/sink"
	"aozorascraper/pkg/storage"
)

type fixture struct {
	cfg      *config.Config
	fake     *browser.Fake
	launcher *browser.FakeLauncher
	outDir   string
	events   *progress.Recorder
	o        *Orchestrator
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Site.BookURL = "https://aozora.test/index_pages/sakuhin"
	cfg.Site.AuthorURL = "https://aozora.test/index_pages/person"
	cfg.Pacing = config.PacingConfig{}

	outDir := filepath.Join(t.TempDir(), "out")
	store, err := storage.NewManager(outDir)
	require.NoError(t, err)

	fake := browser.NewFake()
	fx := &fixture{
		cfg:      cfg,
		fake:     fake,
		launcher: &browser.FakeLauncher{Session: fake},
		outDir:   outDir,
		events:   &progress.Recorder{},
	}

	base := []Option{
		WithReporter(fx.events),
		WithLimiter(ratelimit.Unlimited{}),
		WithLogger(logger.NewNopLogger()),
	}
	fx.o = New(cfg, fx.launcher, sink.NewWriter(store, unicode.UTF8, nil), append(base, opts...)...)
	return fx
}

func (fx *fixture) listURL(g catalog.Group, page int) string {
	return catalog.BookListURL(fx.cfg.Site.BookURL, g.Slug, page)
}

// addListPage registers one title list page with rows data rows and a card
// page behind every row.
func (fx *fixture) addListPage(g catalog.Group, page, rows int) {
	p := browser.FakePage{}
	for i := 0; i < rows; i++ {
		row := catalog.FirstPageRow + i
		no := strconv.Itoa((page-1)*50 + i + 1)
		card := fmt.Sprintf("https://aozora.test/cards/%s-%d-%d.html", g.Slug, page, row)

		p[selectors.NoCell(row)] = browser.FakeElement{browser.PropertyText: no}
		p[selectors.DownloadLink(row)] = browser.FakeElement{
			browser.PropertyText: "title " + no,
			browser.PropertyHref: card,
		}
		for col := 1; col <= titleColumnCount; col++ {
			p[selectors.TitleCell(row, col)] = browser.FakeElement{
				browser.PropertyText: fmt.Sprintf("%s/%d/%d/%d", g.Key, page, row, col),
			}
		}

		fx.fake.Pages[card] = browser.FakePage{
			selectors.ZipLink:     {browser.PropertyHref: strings.TrimSuffix(card, ".html") + ".zip"},
			selectors.BookTitle:   {browser.PropertyText: "title " + no},
			selectors.BookReading: {browser.PropertyText: "reading " + no},
			selectors.Category:    {browser.PropertyText: "NDC 913"},
		}
	}
	fx.fake.Pages[fx.listURL(g, page)] = p
}

func (fx *fixture) addAuthor(id int) {
	p := browser.FakePage{}
	values := []string{"author " + strconv.Itoa(id), "ruby", "Roman", "1900", "1950", "bio"}
	for i, v := range values {
		p[selectors.AuthorCell(i+1)] = browser.FakeElement{browser.PropertyText: v}
	}
	fx.fake.Pages[catalog.AuthorURL(fx.cfg.Site.AuthorURL, id)] = p
}

func group(t *testing.T, key string) catalog.Group {
	t.Helper()
	g, ok := catalog.Lookup(key)
	require.True(t, ok)
	return g
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

// cancelAfter requests cancellation once n leaves were counted
type cancelAfter struct {
	progress.Nop
	n int
	o *Orchestrator
}

func (c *cancelAfter) Counts(success, fail int) {
	if success+fail == c.n {
		c.o.RequestCancel()
	}
}

// cancelOnTotal requests cancellation before the first group starts
type cancelOnTotal struct {
	progress.Nop
	o *Orchestrator
}

func (c *cancelOnTotal) Total(int) { c.o.RequestCancel() }

func TestAuthorRangeWithNavigationFailure(t *testing.T) {
	fx := newFixture(t)
	fx.addAuthor(100)
	fx.addAuthor(102)
	fx.fake.NavErrors[catalog.AuthorURL(fx.cfg.Site.AuthorURL, 101)] = errors.New("net::ERR_TIMED_OUT")

	res, err := fx.o.Run(context.Background(), Job{
		Mode: records.ModeAuthor,
		IDs:  catalog.Range{Start: 100, End: 103},
	})
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, res.State)
	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 1, res.Fail)
	assert.Equal(t, []string{
		"https://aozora.test/index_pages/person100.html",
		"https://aozora.test/index_pages/person101.html",
		"https://aozora.test/index_pages/person102.html",
	}, fx.fake.Navigations())

	require.Len(t, res.Artifacts, 1)
	assert.True(t, strings.HasPrefix(filepath.Base(res.Artifacts[0]), "author_"))
	assert.True(t, strings.HasSuffix(res.Artifacts[0], "_100-103.csv"))

	rows := readCSV(t, res.Artifacts[0])
	require.Len(t, rows, 3)
	assert.Equal(t, records.AuthorColumns.Header(records.Japanese), rows[0])
	assert.Equal(t, []string{"100", "author 100", "ruby", "Roman", "1900", "1950", "bio"}, rows[1])
	assert.Equal(t, "102", rows[2][0])

	total, ok := fx.events.Last(progress.KindTotal)
	require.True(t, ok)
	assert.Equal(t, 3, total.Total)
	assert.Len(t, fx.events.Of(progress.KindCompleted), 1)
	assert.Empty(t, fx.events.Of(progress.KindStopped))
	assert.Equal(t, 1, fx.fake.Closed())
	assert.Equal(t, StateIdle, fx.o.State())
}

func TestAuthorMissingPageCountsAsFailure(t *testing.T) {
	fx := newFixture(t)
	fx.addAuthor(1)
	fx.fake.Pages[catalog.AuthorURL(fx.cfg.Site.AuthorURL, 2)] = browser.FakePage{}

	res, err := fx.o.Run(context.Background(), Job{
		Mode:     records.ModeAuthor,
		IDs:      catalog.Range{Start: 1, End: 3},
		Language: records.English,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 1, res.Fail)

	rows := readCSV(t, res.Artifacts[0])
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"No", "author", "authorruby", "roman", "birth", "bod", "about"}, rows[0])
}

func TestDownloadPausedAfterPageFive(t *testing.T) {
	fx := newFixture(t)
	g := group(t, "あ")
	require.Equal(t, 21, g.Pages)
	for page := 1; page <= g.Pages; page++ {
		fx.addListPage(g, page, 2)
	}
	pageSix := fx.listURL(g, 6)
	fx.fake.OnNavigate = func(url string) {
		if url == pageSix {
			fx.o.RequestCancel()
		}
	}

	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeDownload, Selection: "あ"})
	require.NoError(t, err)

	assert.Equal(t, StateCancelled, res.State)
	assert.Equal(t, 10, res.Success)
	assert.Equal(t, 0, res.Fail)
	assert.Len(t, fx.fake.Downloads(), 10)
	assert.Len(t, fx.fake.Navigations(), 6)

	require.Len(t, res.Artifacts, 1)
	assert.True(t, strings.HasSuffix(res.Artifacts[0], "_あ.csv"))
	rows := readCSV(t, res.Artifacts[0])
	require.Len(t, rows, 11)
	assert.Equal(t, []string{"No", "作品名", "ファイルURL"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "https://aozora.test/cards/a-1-2.zip", rows[1][2])
	assert.Equal(t, "https://aozora.test/cards/a-5-3.zip", rows[10][2])

	assert.Len(t, fx.events.Of(progress.KindStopped), 1)
	assert.Empty(t, fx.events.Of(progress.KindCompleted))
	total, _ := fx.events.Last(progress.KindTotal)
	assert.Equal(t, 21*50, total.Total)
	status, _ := fx.events.Last(progress.KindStatus)
	assert.Equal(t, "downloading Page.5 No.2", status.Status)
	assert.Equal(t, "あ 行", status.Target)
}

func TestDownloadRejectsCardWithoutArchive(t *testing.T) {
	fx := newFixture(t)
	g := group(t, "ぬ")
	fx.addListPage(g, 1, 3)
	fx.fake.Pages["https://aozora.test/cards/nu-1-3.html"][selectors.ZipLink] = browser.FakeElement{
		browser.PropertyHref: "https://aozora.test/cards/nu-1-3.html",
	}

	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeDownload, Selection: "ぬ"})
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, res.State)
	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 1, res.Fail)
	assert.Len(t, fx.fake.Downloads(), 2)
	assert.Len(t, readCSV(t, res.Artifacts[0]), 3)
}

func TestZeroSizeGroupIsSkipped(t *testing.T) {
	fx := newFixture(t)

	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeTitle, Selection: "を"})
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, res.State)
	assert.Zero(t, fx.fake.Lookups())
	assert.Empty(t, fx.fake.Navigations())
	assert.Empty(t, fx.events.Of(progress.KindTotal))
	assert.Empty(t, fx.events.Of(progress.KindStatus))
	assert.Empty(t, fx.events.Of(progress.KindCounts))
	assert.Empty(t, res.Artifacts)
}

func TestDownloadCancelledBeforeFirstPageStillWritesArtifact(t *testing.T) {
	stop := &cancelOnTotal{}
	fx := newFixture(t)
	fx.o.reporter = progress.Multi{fx.events, stop}
	stop.o = fx.o
	fx.addListPage(group(t, "あ"), 1, 2)

	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeDownload, Selection: "あ"})
	require.NoError(t, err)

	assert.Equal(t, StateCancelled, res.State)
	assert.Empty(t, fx.fake.Navigations())
	require.Len(t, res.Artifacts, 1)
	assert.True(t, strings.HasSuffix(res.Artifacts[0], "_あ.csv"))
	assert.Equal(t, [][]string{{"No", "作品名", "ファイルURL"}}, readCSV(t, res.Artifacts[0]))
}

func TestDownloadOfSkippedGroupWritesHeaderOnly(t *testing.T) {
	fx := newFixture(t)

	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeDownload, Selection: "を"})
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, res.State)
	assert.Empty(t, fx.fake.Navigations())
	require.Len(t, res.Artifacts, 1)
	assert.True(t, strings.HasSuffix(res.Artifacts[0], "_を.csv"))
	assert.Equal(t, [][]string{{"No", "作品名", "ファイルURL"}}, readCSV(t, res.Artifacts[0]))
}

func TestTitleSmallGroupIsProcessed(t *testing.T) {
	fx := newFixture(t)
	g := group(t, "ぬ")
	require.Equal(t, catalog.MinPartitionSize, g.Pages)
	fx.addListPage(g, 1, 2)

	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeTitle, Selection: "ぬ"})
	require.NoError(t, err)
	assert.Equal(t, 12, res.Success)

	require.Len(t, res.Artifacts, 1)
	assert.True(t, strings.HasPrefix(filepath.Base(res.Artifacts[0]), "title_"))
	assert.True(t, strings.HasSuffix(res.Artifacts[0], "_ぬ.csv"))
	rows := readCSV(t, res.Artifacts[0])
	require.Len(t, rows, 3)
	assert.Equal(t, records.TitleColumns.Header(records.Japanese), rows[0])
	assert.Equal(t, []string{"ぬ/1/2/1", "ぬ/1/2/2", "ぬ/1/2/3", "ぬ/1/2/4", "ぬ/1/2/5", "ぬ/1/2/6"}, rows[1])
}

func TestLeafAccounting(t *testing.T) {
	fx := newFixture(t)
	g := group(t, "ぬ")
	fx.addListPage(g, 1, 3)
	fx.fake.ReadErrors[selectors.TitleCell(3, 4)] = errors.New("node detached")

	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeTitle, Selection: "ぬ"})
	require.NoError(t, err)

	assert.Equal(t, 17, res.Success)
	assert.Equal(t, 1, res.Fail)
	assert.Len(t, fx.events.Of(progress.KindCounts), res.Success+res.Fail)

	rows := readCSV(t, res.Artifacts[0])
	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.Len(t, row, len(records.TitleColumns))
	}
	assert.Equal(t, "", rows[2][3])
	assert.Equal(t, "ぬ/1/3/5", rows[2][4])
}

func TestPageFailureSkipsOnlyThatPage(t *testing.T) {
	fx := newFixture(t)
	g := group(t, "う")
	for page := 1; page <= g.Pages; page++ {
		fx.addListPage(g, page, 1)
	}
	fx.fake.NavErrors[fx.listURL(g, 2)] = errors.New("net::ERR_CONNECTION_RESET")

	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeTitle, Selection: "う"})
	require.NoError(t, err)
	assert.Len(t, fx.fake.Navigations(), g.Pages)
	assert.Equal(t, (g.Pages-1)*titleColumnCount, res.Success)
	assert.Zero(t, res.Fail)
	assert.Len(t, readCSV(t, res.Artifacts[0]), g.Pages)
}

func TestPageFailuresNeverAbandonGroupByDefault(t *testing.T) {
	fx := newFixture(t)
	g := group(t, "い")
	require.Zero(t, fx.cfg.Pacing.MaxPageFailures)

	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeBook, Selection: "い"})
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, res.State)
	assert.Len(t, fx.fake.Navigations(), g.Pages)
	assert.Zero(t, res.Success)
}

func TestGroupAbandonedAfterConsecutivePageFailures(t *testing.T) {
	fx := newFixture(t)
	fx.cfg.Pacing.MaxPageFailures = 3

	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeBook, Selection: "い"})
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, res.State)
	assert.Len(t, fx.fake.Navigations(), fx.cfg.Pacing.MaxPageFailures)

	require.Len(t, res.Artifacts, 1)
	rows := readCSV(t, res.Artifacts[0])
	assert.Equal(t, [][]string{records.BookColumns.Header(records.Japanese)}, rows)
}

func TestBookReadsCardPages(t *testing.T) {
	fx := newFixture(t)
	g := group(t, "ね")
	fx.addListPage(g, 1, 2)
	fx.addListPage(g, 2, 1)

	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeBook, Selection: "ね"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Success)

	rows := readCSV(t, res.Artifacts[0])
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"1", "title 1", "reading 1", "NDC 913"}, rows[1])
	assert.Equal(t, "51", rows[3][0])
}

func TestCancelInsideGroupFlushesOnce(t *testing.T) {
	stop := &cancelAfter{n: 3}
	fx := newFixture(t)
	fx.o.reporter = progress.Multi{fx.events, stop}
	stop.o = fx.o

	g := group(t, "い")
	for page := 1; page <= g.Pages; page++ {
		fx.addListPage(g, page, 2)
	}

	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeBook, Selection: "い"})
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, res.State)
	assert.Equal(t, 3, res.Success)

	require.Len(t, res.Artifacts, 1)
	assert.Len(t, readCSV(t, res.Artifacts[0]), 4)

	entries, err := os.ReadDir(fx.outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestContextCancellationStopsJob(t *testing.T) {
	fx := newFixture(t)
	for id := 1; id <= 5; id++ {
		fx.addAuthor(id)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fx.fake.OnNavigate = func(url string) {
		if strings.HasSuffix(url, "person3.html") {
			cancel()
		}
	}

	res, err := fx.o.Run(ctx, Job{Mode: records.ModeAuthor, IDs: catalog.Range{Start: 1, End: 6}})
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, res.State)
	assert.Equal(t, 2, res.Success+res.Fail)
	assert.Len(t, readCSV(t, res.Artifacts[0]), 3)
}

func TestRerunWritesNewArtifact(t *testing.T) {
	fx := newFixture(t)
	fx.addAuthor(7)
	job := Job{Mode: records.ModeAuthor, IDs: catalog.Range{Start: 7, End: 8}}

	first, err := fx.o.Run(context.Background(), job)
	require.NoError(t, err)
	second, err := fx.o.Run(context.Background(), job)
	require.NoError(t, err)

	require.Len(t, first.Artifacts, 1)
	require.Len(t, second.Artifacts, 1)
	assert.NotEqual(t, first.Artifacts[0], second.Artifacts[0])
	assert.FileExists(t, first.Artifacts[0])
	assert.FileExists(t, second.Artifacts[0])
}

func TestCancelFlagResetForNewJob(t *testing.T) {
	fx := newFixture(t)
	fx.addAuthor(1)

	fx.o.RequestCancel()
	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeAuthor, IDs: catalog.Range{Start: 1, End: 2}})
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, res.State)
	assert.Equal(t, 1, res.Success)
}

func TestLaunchFailure(t *testing.T) {
	fx := newFixture(t)
	fx.launcher.Err = errs.Launch("find browser", errors.New("no browser"))

	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeTitle, Selection: "ぬ"})
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeLaunch))
	assert.Equal(t, StateFailed, res.State)
	assert.Empty(t, res.Artifacts)

	failed, ok := fx.events.Last(progress.KindFailed)
	require.True(t, ok)
	assert.Equal(t, err, failed.Err)
	assert.Equal(t, StateIdle, fx.o.State())
}

func TestPanicFailsWithoutFlush(t *testing.T) {
	fx := newFixture(t)
	fx.addAuthor(1)
	fx.fake.OnNavigate = func(string) { panic("renderer crashed") }

	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeAuthor, IDs: catalog.Range{Start: 1, End: 2}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "renderer crashed")
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, 1, fx.fake.Closed())

	entries, err := os.ReadDir(fx.outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFlushFailureIsFatal(t *testing.T) {
	fx := newFixture(t)
	fx.addAuthor(1)
	require.NoError(t, os.RemoveAll(fx.outDir))
	require.NoError(t, os.WriteFile(fx.outDir, []byte("not a directory"), 0o644))

	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeAuthor, IDs: catalog.Range{Start: 1, End: 2}})
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeFlush))
	assert.Equal(t, StateFailed, res.State)
	assert.Len(t, fx.events.Of(progress.KindFailed), 1)
	assert.Empty(t, fx.events.Of(progress.KindCompleted))
}

func TestInvalidJobs(t *testing.T) {
	fx := newFixture(t)
	tests := []struct {
		name string
		job  Job
	}{
		{"unknown group", Job{Mode: records.ModeTitle, Selection: "xyz"}},
		{"inverted range", Job{Mode: records.ModeAuthor, IDs: catalog.Range{Start: 10, End: 5}}},
		{"zero start", Job{Mode: records.ModeAuthor, IDs: catalog.Range{Start: 0, End: 5}}},
		{"unknown mode", Job{Mode: records.Mode("poetry")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.o.Run(context.Background(), tt.job)
			require.Error(t, err)
			assert.True(t, errs.IsType(err, errs.ErrorTypeConfig))
		})
	}
	assert.Zero(t, fx.launcher.Opened())
}

// blockingLauncher holds Open until released
type blockingLauncher struct {
	session browser.Session
	opened  chan struct{}
	release chan struct{}
	once    sync.Once
}

func (l *blockingLauncher) Open(ctx context.Context) (browser.Session, error) {
	l.once.Do(func() { close(l.opened) })
	<-l.release
	return l.session, nil
}

func TestBusyWhileRunning(t *testing.T) {
	fx := newFixture(t)
	fx.addAuthor(1)
	bl := &blockingLauncher{session: fx.fake, opened: make(chan struct{}), release: make(chan struct{})}
	fx.o.launcher = bl

	job := Job{Mode: records.ModeAuthor, IDs: catalog.Range{Start: 1, End: 2}}
	done := make(chan error, 1)
	go func() {
		_, err := fx.o.Run(context.Background(), job)
		done <- err
	}()

	select {
	case <-bl.opened:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not start")
	}
	assert.Equal(t, StateRunning, fx.o.State())

	_, err := fx.o.Run(context.Background(), job)
	assert.ErrorIs(t, err, errs.ErrBusy)

	close(bl.release)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, fx.o.State())
}

func TestJournalAndMetrics(t *testing.T) {
	cpDir := t.TempDir()
	m := metrics.New()
	stop := &cancelAfter{n: 2}
	fx := newFixture(t,
		WithJournal(checkpoint.NewJournal(cpDir, logger.NewNopLogger())),
		WithMetrics(m),
	)
	fx.o.reporter = progress.Multi{fx.events, stop}
	stop.o = fx.o

	for id := 1; id <= 4; id++ {
		fx.addAuthor(id)
	}
	fx.fake.NavErrors[catalog.AuthorURL(fx.cfg.Site.AuthorURL, 2)] = errors.New("timeout")

	res, err := fx.o.Run(context.Background(), Job{Mode: records.ModeAuthor, IDs: catalog.Range{Start: 1, End: 5}})
	require.NoError(t, err)
	require.Equal(t, StateCancelled, res.State)

	mgr, err := checkpoint.NewManagerIn(cpDir, string(records.ModeAuthor))
	require.NoError(t, err)
	cp, err := mgr.Load()
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, checkpoint.StateStopped, cp.State)
	assert.Equal(t, "1-5", cp.Selection)
	assert.Equal(t, 2, cp.Last.AuthorID)
	assert.Equal(t, 1, cp.Success)
	assert.Equal(t, 1, cp.Fail)
	assert.Equal(t, res.Artifacts, cp.Artifacts)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LeavesTotal.WithLabelValues("author", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LeavesTotal.WithLabelValues("author", "fail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FlushesTotal.WithLabelValues("author", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobsTotal.WithLabelValues("author", "cancelled")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.JobRunning))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "cancelled", StateCancelled.String())
	assert.Equal(t, "state(9)", State(9).String())
	assert.Equal(t, checkpoint.StateStopped, StateCancelled.checkpointState())
	assert.Equal(t, "100-103", Job{Mode: records.ModeAuthor, IDs: catalog.Range{Start: 100, End: 103}}.Label())
	assert.Equal(t, catalog.All, Job{Mode: records.ModeTitle}.Label())
}
