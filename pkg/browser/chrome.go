package browser

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	errs "aozorascraper/pkg/errors"
)

// ChromeCandidates lists the well-known install locations, in lookup order.
func ChromeCandidates() []string {
	paths := []string{
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	}
	if profile := os.Getenv("USERPROFILE"); profile != "" {
		paths = append(paths, filepath.Join(profile, "AppData", "Local", "Google", "Chrome", "Application", "chrome.exe"))
	}
	return append(paths,
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/snap/bin/chromium",
	)
}

// FindChrome returns the configured binary if set, else the first existing
// candidate, else whatever rod's launcher can find on PATH.
func FindChrome(configured string, candidates []string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", errs.Launch("find browser", err)
		}
		return configured, nil
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	if p, ok := launcher.LookPath(); ok {
		return p, nil
	}
	return "", errs.Launch("find browser", errNoBrowser)
}

var (
	errNoBrowser  = errors.New("no compatible browser found in the known install locations")
	errNotFound   = errors.New("element not found")
	errNoDownload = errors.New("download did not start")
)

// DefaultUserAgents is the rotation pool of desktop user agents.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.1 Safari/605.1.15",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_1) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.1 Safari/605.1.15",
}

// AgentPool draws user agents at random from a fixed list.
type AgentPool struct {
	agents []string
	mu     sync.Mutex
	rnd    *rand.Rand
}

// NewAgentPool returns a pool over agents, or over DefaultUserAgents when
// agents is empty. A zero seed uses the current time.
func NewAgentPool(agents []string, seed int64) *AgentPool {
	if len(agents) == 0 {
		agents = DefaultUserAgents
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &AgentPool{agents: agents, rnd: rand.New(rand.NewSource(seed))}
}

// Next returns one agent from the pool.
func (p *AgentPool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.agents[p.rnd.Intn(len(p.agents))]
}
