package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"aozorascraper/pkg/records"
)

// isolate points the user config dir and working directory at a temp dir so
// no real config or .env file leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	oldDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldDir) })

	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://www.aozora.gr.jp/index_pages/sakuhin", cfg.Site.BookURL)
	assert.Equal(t, "https://www.aozora.gr.jp/index_pages/person", cfg.Site.AuthorURL)
	assert.Equal(t, 1, cfg.Site.AuthorStart)
	assert.Equal(t, 2450, cfg.Site.AuthorEnd)

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 3*time.Second, cfg.Browser.SelectorTimeout)

	assert.Equal(t, time.Second, cfg.Pacing.PageSettle)
	assert.Equal(t, 500*time.Millisecond, cfg.Pacing.LeafDelay)
	assert.Equal(t, 2*time.Second, cfg.Pacing.RowDelay)
	assert.Equal(t, 3*time.Second, cfg.Pacing.DownloadSettle)
	assert.Zero(t, cfg.Pacing.MaxPageFailures)

	assert.Equal(t, EncodingShiftJIS, cfg.Output.Encoding)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "language.txt", filepath.Base(cfg.LanguageFile))

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("AOZORA_BOOK_URL", "http://localhost:8080/sakuhin")
	t.Setenv("AOZORA_AUTHOR_END", "120")
	t.Setenv("AOZORA_HEADLESS", "false")
	t.Setenv("AOZORA_OUTPUT_DIR", "/env/output")
	t.Setenv("AOZORA_ENCODING", "utf-8")
	t.Setenv("AOZORA_LOG_LEVEL", "debug")
	t.Setenv("AOZORA_METRICS_ADDR", ":9100")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "http://localhost:8080/sakuhin", cfg.Site.BookURL)
	assert.Equal(t, 120, cfg.Site.AuthorEnd)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "/env/output", cfg.Output.Directory)
	assert.Equal(t, EncodingUTF8, cfg.Output.Encoding)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestLoadFromEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("AOZORA_REQUESTS_PER_MINUTE", "fast")
	t.Setenv("AOZORA_HEADLESS", "maybe")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AOZORA_REQUESTS_PER_MINUTE")
	assert.Contains(t, err.Error(), "AOZORA_HEADLESS")
	assert.Equal(t, 60, cfg.Pacing.RequestsPerMinute)
}

func TestLoadFromFile(t *testing.T) {
	t.Run("valid yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
site:
  author_end: 300
browser:
  selector_timeout: 5s
  user_agents:
    - test-agent
pacing:
  leaf_delay: 10ms
output:
  directory: /file/output
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg := DefaultConfig()
		require.NoError(t, cfg.LoadFromFile(path))

		assert.Equal(t, 300, cfg.Site.AuthorEnd)
		assert.Equal(t, 5*time.Second, cfg.Browser.SelectorTimeout)
		assert.Equal(t, []string{"test-agent"}, cfg.Browser.UserAgents)
		assert.Equal(t, 10*time.Millisecond, cfg.Pacing.LeafDelay)
		assert.Equal(t, "/file/output", cfg.Output.Directory)
		// untouched keys keep defaults
		assert.Equal(t, time.Second, cfg.Pacing.PageSettle)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("site: [unclosed"), 0644))

		err := DefaultConfig().LoadFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("missing explicit file", func(t *testing.T) {
		err := DefaultConfig().LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("no file in default locations", func(t *testing.T) {
		isolate(t)
		assert.NoError(t, DefaultConfig().LoadFromFile(""))
	})
}

func TestFindConfigFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".aozorascraper.yaml", []byte("{}"), 0644))

	assert.Equal(t, ".aozorascraper.yaml", DefaultConfig().findConfigFile())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"relative book url", func(c *Config) { c.Site.BookURL = "sakuhin" }, "book url must be an absolute URL"},
		{"inverted author bound", func(c *Config) { c.Site.AuthorEnd = 0 }, "author end must not be before author start"},
		{"zero navigation timeout", func(c *Config) { c.Browser.NavigationTimeout = 0 }, "navigation timeout must be positive"},
		{"negative leaf delay", func(c *Config) { c.Pacing.LeafDelay = -time.Second }, "leaf delay cannot be negative"},
		{"zero rpm", func(c *Config) { c.Pacing.RequestsPerMinute = 0 }, "requests per minute must be positive"},
		{"negative page failures", func(c *Config) { c.Pacing.MaxPageFailures = -1 }, "max page failures cannot be negative"},
		{"bad encoding", func(c *Config) { c.Output.Encoding = "latin1" }, "unsupported output encoding"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level"},
		{"no language file", func(c *Config) { c.LanguageFile = "" }, "language file path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("collects every problem", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Output.Directory = ""
		cfg.Pacing.BurstSize = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "output directory is required")
		assert.Contains(t, err.Error(), "burst size must be positive")
	})
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"output":       "/flag/output",
		"log-level":    "warn",
		"headless":     false,
		"chrome":       "/opt/chrome",
		"metrics-addr": ":2112",
		"encoding":     "utf-8",
	})

	assert.Equal(t, "/flag/output", cfg.Output.Directory)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "/opt/chrome", cfg.Browser.Bin)
	assert.Equal(t, ":2112", cfg.Metrics.Addr)
	assert.Equal(t, EncodingUTF8, cfg.Output.Encoding)

	// absent or wrongly typed flags are ignored
	cfg = DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{"headless": "no", "output": ""})
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "./output", cfg.Output.Directory)
}

func TestLoad(t *testing.T) {
	t.Run("precedence order", func(t *testing.T) {
		dir := isolate(t)
		configPath := filepath.Join(dir, "config.yaml")
		content := `
output:
  directory: /file/output
logging:
  level: error
metrics:
  addr: ":1111"
`
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
		t.Setenv("AOZORA_OUTPUT_DIR", "/env/output")
		t.Setenv("AOZORA_LOG_LEVEL", "warn")

		cfg, err := Load(configPath, map[string]interface{}{"log-level": "debug"})
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Logging.Level)         // flag
		assert.Equal(t, "/env/output", cfg.Output.Directory) // env
		assert.Equal(t, ":1111", cfg.Metrics.Addr)          // file
		assert.Equal(t, 2450, cfg.Site.AuthorEnd)           // default
	})

	t.Run("validation failure", func(t *testing.T) {
		isolate(t)
		cfg, err := Load("", map[string]interface{}{"encoding": "ebcdic"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration validation failed")
		assert.Nil(t, cfg)
	})

	t.Run("loads .env file", func(t *testing.T) {
		isolate(t)
		os.Unsetenv("AOZORA_METRICS_ADDR")
		t.Cleanup(func() { os.Unsetenv("AOZORA_METRICS_ADDR") })
		require.NoError(t, os.WriteFile(".env", []byte("AOZORA_METRICS_ADDR=:9999\n"), 0644))

		cfg, err := Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, ":9999", cfg.Metrics.Addr)
	})
}

func TestConfigSerialization(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Site.AuthorEnd = 777

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, 777, decoded.Site.AuthorEnd)
	assert.Equal(t, cfg.Pacing.RowDelay, decoded.Pacing.RowDelay)
}

func TestLanguageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "language.txt")

	lang, err := LoadLanguage(path)
	require.NoError(t, err)
	assert.Equal(t, records.Japanese, lang)

	require.NoError(t, SaveLanguage(path, records.English))
	lang, err = LoadLanguage(path)
	require.NoError(t, err)
	assert.Equal(t, records.English, lang)

	require.NoError(t, os.WriteFile(path, []byte("  japanese \n"), 0644))
	lang, err = LoadLanguage(path)
	require.NoError(t, err)
	assert.Equal(t, records.Japanese, lang)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
