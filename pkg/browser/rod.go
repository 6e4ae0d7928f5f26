package browser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"aozorascraper/pkg/config"
	errs "aozorascraper/pkg/errors"
	"aozorascraper/pkg/logger"
)

// Viewport of every opened tab
const (
	ViewportWidth  = 1920
	ViewportHeight = 1000
)

// RodLauncher starts a local Chrome through go-rod.
type RodLauncher struct {
	cfg        config.BrowserConfig
	agents     *AgentPool
	candidates []string
	log        logger.Logger
}

// NewRodLauncher builds a launcher from the browser configuration.
func NewRodLauncher(cfg config.BrowserConfig, log logger.Logger) *RodLauncher {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &RodLauncher{
		cfg:        cfg,
		agents:     NewAgentPool(cfg.UserAgents, 0),
		candidates: ChromeCandidates(),
		log:        log,
	}
}

// Open launches the browser, opens one tab with a rotated user agent and a
// fixed viewport, and allows downloads into the configured directory.
func (l *RodLauncher) Open(ctx context.Context) (Session, error) {
	bin, err := FindChrome(l.cfg.Bin, l.candidates)
	if err != nil {
		return nil, err
	}

	lc := launcher.New().
		Context(ctx).
		Bin(bin).
		Headless(l.cfg.Headless).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage").
		Set("no-first-run").
		Set("no-default-browser-check").
		Leakless(false)

	controlURL, err := lc.Launch()
	if err != nil {
		return nil, errs.Launch("launch browser", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		lc.Kill()
		return nil, errs.Launch("connect browser", err)
	}

	s := &rodSession{
		browser:     b,
		launcher:    lc,
		navTimeout:  l.cfg.NavigationTimeout,
		downloadDir: l.cfg.DownloadDir,
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		s.Close()
		return nil, errs.Launch("open page", err)
	}
	s.page = page

	agent := l.agents.Next()
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: agent}); err != nil {
		s.Close()
		return nil, errs.Launch("set user agent", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  ViewportWidth,
		Height: ViewportHeight,
	}); err != nil {
		s.Close()
		return nil, errs.Launch("set viewport", err)
	}

	if s.downloadDir != "" {
		if err := os.MkdirAll(s.downloadDir, 0o755); err != nil {
			s.Close()
			return nil, errs.Launch("create download dir", err)
		}
		if err := (proto.BrowserSetDownloadBehavior{
			Behavior:      proto.BrowserSetDownloadBehaviorBehaviorAllow,
			DownloadPath:  s.downloadDir,
			EventsEnabled: true,
		}).Call(b); err != nil {
			s.Close()
			return nil, errs.Launch("allow downloads", err)
		}
	}

	l.log.WithFields(map[string]interface{}{
		"bin":      bin,
		"headless": l.cfg.Headless,
		"agent":    agent,
	}).Info("Browser session opened")

	return s, nil
}

type rodSession struct {
	browser     *rod.Browser
	launcher    *launcher.Launcher
	page        *rod.Page
	navTimeout  time.Duration
	downloadDir string
	closeOnce   sync.Once
	closeErr    error
}

func (s *rodSession) scoped(ctx context.Context) (*rod.Page, func()) {
	return s.scopedFor(ctx, s.navTimeout)
}

// scopedFor bounds the page by ctx and d. The returned func releases the
// timeout timer and must always be called.
func (s *rodSession) scopedFor(ctx context.Context, d time.Duration) (*rod.Page, func()) {
	p := s.page.Context(ctx)
	if d > 0 {
		p = p.Timeout(d)
		return p, func() { p.CancelTimeout() }
	}
	return p, func() {}
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	p, done := s.scoped(ctx)
	defer done()
	if err := p.Navigate(url); err != nil {
		return errs.Navigation(url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return errs.Navigation(url, err)
	}
	return nil
}

func (s *rodSession) Exists(ctx context.Context, locator string) bool {
	ok, _, err := s.page.Context(ctx).Has(locator)
	return err == nil && ok
}

func (s *rodSession) ReadProperty(ctx context.Context, locator, property string) (string, error) {
	ok, el, err := s.page.Context(ctx).Has(locator)
	if err != nil {
		return "", errs.Interaction("read "+property, locator, err)
	}
	if !ok {
		return "", nil
	}
	v, err := el.Property(property)
	if err != nil {
		return "", errs.Interaction("read "+property, locator, err)
	}
	if v.Nil() {
		return "", nil
	}
	return strings.TrimSpace(v.Str()), nil
}

func (s *rodSession) Click(ctx context.Context, locator string) error {
	p, done := s.scoped(ctx)
	defer done()
	ok, el, err := p.Has(locator)
	if err != nil {
		return errs.Interaction("click", locator, err)
	}
	if !ok {
		return errs.Interaction("click", locator, errNotFound)
	}
	wait := p.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return errs.Interaction("click", locator, err)
	}
	wait()
	return nil
}

func (s *rodSession) TriggerDownload(ctx context.Context, locator string) error {
	p, done := s.scoped(ctx)
	defer done()
	ok, el, err := p.Has(locator)
	if err != nil {
		return errs.Interaction("download", locator, err)
	}
	if !ok {
		return errs.Interaction("download", locator, errNotFound)
	}
	wait := s.browser.Context(p.GetContext()).WaitDownload(s.downloadDir)
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return errs.Interaction("download", locator, err)
	}
	info := wait()
	if info == nil {
		return errs.Interaction("download", locator, errNoDownload)
	}
	// rod stores the file under its GUID
	if s.downloadDir != "" && info.SuggestedFilename != "" {
		from := filepath.Join(s.downloadDir, info.GUID)
		to := filepath.Join(s.downloadDir, filepath.Base(info.SuggestedFilename))
		if err := os.Rename(from, to); err != nil {
			return errs.Interaction("download", locator, err)
		}
	}
	return nil
}

func (s *rodSession) GoBack(ctx context.Context) error {
	p, done := s.scoped(ctx)
	defer done()
	if err := p.NavigateBack(); err != nil {
		return errs.Navigation("history:back", err)
	}
	if err := p.WaitLoad(); err != nil {
		return errs.Navigation("history:back", err)
	}
	return nil
}

func (s *rodSession) Wait(ctx context.Context, d time.Duration) error {
	return Sleep(ctx, d)
}

func (s *rodSession) WaitForSelector(ctx context.Context, locator string, timeout time.Duration) error {
	p, done := s.scopedFor(ctx, timeout)
	defer done()
	if _, err := p.Element(locator); err != nil {
		return errs.Interaction("wait", locator, err)
	}
	return nil
}

func (s *rodSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.browser.Close()
		s.launcher.Kill()
	})
	return s.closeErr
}
