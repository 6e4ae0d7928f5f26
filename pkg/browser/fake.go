package browser

import (
	"context"
	"sync"
	"time"

	errs "aozorascraper/pkg/errors"
)

// FakeElement maps DOM property names to values. A "href" makes the element
// clickable: Click moves to the page registered under that URL.
type FakeElement map[string]string

// FakePage maps locators to elements.
type FakePage map[string]FakeElement

// Fake is an in-memory Session scripted per URL. It is used by tests of the
// packages that drive a browser and never starts a process.
type Fake struct {
	Pages map[string]FakePage
	// NavErrors fails Navigate for the given URLs
	NavErrors map[string]error
	// ReadErrors fails ReadProperty for the given locators on every page
	ReadErrors map[string]error
	// OnNavigate runs after each Navigate, successful or not
	OnNavigate func(url string)

	mu          sync.Mutex
	current     string
	history     []string
	navigations []string
	lookups     int
	downloads   []string
	waited      time.Duration
	closed      int
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{
		Pages:      make(map[string]FakePage),
		NavErrors:  make(map[string]error),
		ReadErrors: make(map[string]error),
	}
}

func (f *Fake) element(locator string) (FakeElement, bool) {
	page, ok := f.Pages[f.current]
	if !ok {
		return nil, false
	}
	el, ok := page[locator]
	return el, ok
}

func (f *Fake) Navigate(ctx context.Context, url string) error {
	f.mu.Lock()
	f.navigations = append(f.navigations, url)
	err := f.NavErrors[url]
	if err == nil {
		if _, ok := f.Pages[url]; !ok {
			err = errNotFound
		}
	}
	if err == nil {
		f.current = url
		f.history = f.history[:0]
	}
	hook := f.OnNavigate
	f.mu.Unlock()

	if hook != nil {
		hook(url)
	}
	if err != nil {
		return errs.Navigation(url, err)
	}
	return ctx.Err()
}

func (f *Fake) Exists(_ context.Context, locator string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	_, ok := f.element(locator)
	return ok
}

func (f *Fake) ReadProperty(_ context.Context, locator, property string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if err := f.ReadErrors[locator]; err != nil {
		return "", errs.Interaction("read "+property, locator, err)
	}
	el, ok := f.element(locator)
	if !ok {
		return "", nil
	}
	return el[property], nil
}

func (f *Fake) Click(_ context.Context, locator string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	el, ok := f.element(locator)
	if !ok {
		return errs.Interaction("click", locator, errNotFound)
	}
	if target := el[PropertyHref]; target != "" {
		if _, ok := f.Pages[target]; !ok {
			return errs.Interaction("click", locator, errNotFound)
		}
		f.history = append(f.history, f.current)
		f.current = target
	}
	return nil
}

func (f *Fake) TriggerDownload(_ context.Context, locator string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	el, ok := f.element(locator)
	if !ok {
		return errs.Interaction("download", locator, errNotFound)
	}
	f.downloads = append(f.downloads, el[PropertyHref])
	return nil
}

func (f *Fake) GoBack(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.history) == 0 {
		return errs.Navigation("history:back", errNotFound)
	}
	f.current = f.history[len(f.history)-1]
	f.history = f.history[:len(f.history)-1]
	return nil
}

func (f *Fake) Wait(ctx context.Context, d time.Duration) error {
	f.mu.Lock()
	f.waited += d
	f.mu.Unlock()
	return ctx.Err()
}

func (f *Fake) WaitForSelector(_ context.Context, locator string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if _, ok := f.element(locator); !ok {
		return errs.Interaction("wait", locator, errNotFound)
	}
	return nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

// Navigations returns every URL passed to Navigate, in order.
func (f *Fake) Navigations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.navigations...)
}

// Lookups counts locator resolutions of any kind.
func (f *Fake) Lookups() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}

// Downloads returns the href of every triggered download.
func (f *Fake) Downloads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.downloads...)
}

// Waited is the sum of all requested pauses.
func (f *Fake) Waited() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.waited
}

// Closed counts Close calls.
func (f *Fake) Closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// FakeLauncher hands out one prepared session.
type FakeLauncher struct {
	Session Session
	Err     error

	mu     sync.Mutex
	opened int
}

func (l *FakeLauncher) Open(ctx context.Context) (Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opened++
	if l.Err != nil {
		return nil, l.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Launch("open session", err)
	}
	return l.Session, nil
}

// Opened counts Open calls.
func (l *FakeLauncher) Opened() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opened
}
