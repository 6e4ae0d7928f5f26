package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const appName = "aozorascraper"

// Config holds all configuration options for the catalog scraper
type Config struct {
	// Catalog location and author ID bounds
	Site SiteConfig `yaml:"site" json:"site"`

	// Headless browser settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Politeness delays and containment limits
	Pacing PacingConfig `yaml:"pacing" json:"pacing"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Prometheus endpoint
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`

	// File holding the header language, "japanese" or "english"
	LanguageFile string `yaml:"language_file" json:"language_file"`
}

// SiteConfig holds the catalog URLs
type SiteConfig struct {
	BookURL     string `yaml:"book_url" json:"book_url"`
	AuthorURL   string `yaml:"author_url" json:"author_url"`
	AuthorStart int    `yaml:"author_start" json:"author_start"`
	AuthorEnd   int    `yaml:"author_end" json:"author_end"`
}

// BrowserConfig holds headless browser settings
type BrowserConfig struct {
	Bin               string        `yaml:"bin" json:"bin"`
	Headless          bool          `yaml:"headless" json:"headless"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" json:"navigation_timeout"`
	SelectorTimeout   time.Duration `yaml:"selector_timeout" json:"selector_timeout"`
	DownloadDir       string        `yaml:"download_dir" json:"download_dir"`
	UserAgents        []string      `yaml:"user_agents" json:"user_agents"`
}

// PacingConfig holds the fixed waits between browser interactions
type PacingConfig struct {
	PageSettle        time.Duration `yaml:"page_settle" json:"page_settle"`
	LeafDelay         time.Duration `yaml:"leaf_delay" json:"leaf_delay"`
	RowDelay          time.Duration `yaml:"row_delay" json:"row_delay"`
	ClickSettle       time.Duration `yaml:"click_settle" json:"click_settle"`
	DownloadSettle    time.Duration `yaml:"download_settle" json:"download_settle"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int           `yaml:"burst_size" json:"burst_size"`
	MaxPageFailures   int           `yaml:"max_page_failures" json:"max_page_failures"`
}

// OutputConfig holds artifact settings
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
	Encoding  string `yaml:"encoding" json:"encoding"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	File    string `yaml:"file" json:"file"`
	Console bool   `yaml:"console" json:"console"`
}

// MetricsConfig holds the Prometheus listener address; empty disables it
type MetricsConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// Supported artifact encodings
const (
	EncodingShiftJIS = "shift_jis"
	EncodingUTF8     = "utf-8"
)

// DefaultDir returns the per-user configuration directory of the application.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, appName)
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			BookURL:     "https://www.aozora.gr.jp/index_pages/sakuhin",
			AuthorURL:   "https://www.aozora.gr.jp/index_pages/person",
			AuthorStart: 1,
			AuthorEnd:   2450,
		},
		Browser: BrowserConfig{
			Headless:          true,
			NavigationTimeout: 30 * time.Second,
			SelectorTimeout:   3 * time.Second,
			DownloadDir:       "./output/download",
		},
		Pacing: PacingConfig{
			PageSettle:        time.Second,
			LeafDelay:         500 * time.Millisecond,
			RowDelay:          2 * time.Second,
			ClickSettle:       2 * time.Second,
			DownloadSettle:    3 * time.Second,
			RequestsPerMinute: 60,
			BurstSize:         5,
			MaxPageFailures:   0,
		},
		Output: OutputConfig{
			Directory: "./output",
			Encoding:  EncodingShiftJIS,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
		LanguageFile: filepath.Join(DefaultDir(), "language.txt"),
	}
}

// LoadFromEnv loads configuration from AOZORA_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	setString("AOZORA_BOOK_URL", &c.Site.BookURL)
	setString("AOZORA_AUTHOR_URL", &c.Site.AuthorURL)
	setInt("AOZORA_AUTHOR_END", &c.Site.AuthorEnd)
	setString("AOZORA_CHROME_BIN", &c.Browser.Bin)
	setString("AOZORA_DOWNLOAD_DIR", &c.Browser.DownloadDir)
	if v := os.Getenv("AOZORA_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("AOZORA_HEADLESS: %w", err))
		} else {
			c.Browser.Headless = b
		}
	}
	setInt("AOZORA_REQUESTS_PER_MINUTE", &c.Pacing.RequestsPerMinute)
	setString("AOZORA_OUTPUT_DIR", &c.Output.Directory)
	setString("AOZORA_ENCODING", &c.Output.Encoding)
	setString("AOZORA_LOG_LEVEL", &c.Logging.Level)
	setString("AOZORA_LOG_FILE", &c.Logging.File)
	setString("AOZORA_METRICS_ADDR", &c.Metrics.Addr)
	setString("AOZORA_LANGUAGE_FILE", &c.LanguageFile)

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".aozorascraper.yaml",
		".aozorascraper.yml",
		filepath.Join(DefaultDir(), "config.yaml"),
		filepath.Join(DefaultDir(), "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	for name, raw := range map[string]string{"book url": c.Site.BookURL, "author url": c.Site.AuthorURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute URL: %q", name, raw))
		}
	}
	if c.Site.AuthorEnd < c.Site.AuthorStart {
		errs = append(errs, errors.New("author end must not be before author start"))
	}

	if c.Browser.NavigationTimeout <= 0 {
		errs = append(errs, errors.New("navigation timeout must be positive"))
	}
	if c.Browser.SelectorTimeout <= 0 {
		errs = append(errs, errors.New("selector timeout must be positive"))
	}
	if c.Browser.DownloadDir == "" {
		errs = append(errs, errors.New("download directory is required"))
	}

	for name, d := range map[string]time.Duration{
		"page settle":     c.Pacing.PageSettle,
		"leaf delay":      c.Pacing.LeafDelay,
		"row delay":       c.Pacing.RowDelay,
		"click settle":    c.Pacing.ClickSettle,
		"download settle": c.Pacing.DownloadSettle,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s cannot be negative", name))
		}
	}
	if c.Pacing.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.Pacing.BurstSize <= 0 {
		errs = append(errs, errors.New("burst size must be positive"))
	}
	if c.Pacing.MaxPageFailures < 0 {
		errs = append(errs, errors.New("max page failures cannot be negative"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	switch strings.ToLower(c.Output.Encoding) {
	case EncodingShiftJIS, EncodingUTF8:
	default:
		errs = append(errs, fmt.Errorf("unsupported output encoding %q", c.Output.Encoding))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if c.LanguageFile == "" {
		errs = append(errs, errors.New("language file path is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only flags the user actually set should be present in the map.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Browser.Headless = headless
	}
	if bin, ok := flags["chrome"].(string); ok && bin != "" {
		c.Browser.Bin = bin
	}
	if addr, ok := flags["metrics-addr"].(string); ok && addr != "" {
		c.Metrics.Addr = addr
	}
	if enc, ok := flags["encoding"].(string); ok && enc != "" {
		c.Output.Encoding = enc
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(DefaultDir(), ".env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
