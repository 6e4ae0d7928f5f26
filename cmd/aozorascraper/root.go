package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"aozorascraper/pkg/config"
	"aozorascraper/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile    string
	logLevel      string
	outputDir     string
	encodingName  string
	chromePath    string
	metricsAddr   string
	headless      bool
	useTUI        bool
	notifications bool
	quiet         bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aozorascraper",
	Short: "Collect the Aozora Bunko catalog with a headless browser",
	Long: `Aozora Scraper walks the Aozora Bunko title and author index with a
headless Chrome and writes what it reads to CSV files.

Modes:
  download  fetch the zip archive of every work in the title index
  book      read the title, reading and category of every work
  title     read the six columns of every title list row
  author    read the profile page of every author ID in a range

A running job can be stopped with Ctrl+C (or p in the terminal UI). The
records read so far are saved before the command exits; a second Ctrl+C
aborts immediately.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			ui.Output = os.Stderr
			return
		}
		// Don't show logo for certain commands
		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "completion" {
			ui.PrintLogo()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is "+config.DefaultDir()+"/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory for CSV files")
	rootCmd.PersistentFlags().StringVar(&encodingName, "encoding", "", "CSV encoding (shift_jis, utf-8)")
	rootCmd.PersistentFlags().StringVar(&chromePath, "chrome", "", "path of the Chrome executable")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", true, "run the browser without a window")
	rootCmd.PersistentFlags().BoolVar(&useTUI, "tui", true, "use the interactive terminal UI when attached to a terminal")
	rootCmd.PersistentFlags().BoolVar(&notifications, "notifications", true, "enable desktop notifications")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress the logo and progress output")

	// Version template
	rootCmd.SetVersionTemplate(`Aozora Scraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// commandFlags collects the global flags the user actually set
func commandFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	set := cmd.Flags()
	if set.Changed("output") {
		flags["output"] = outputDir
	}
	if set.Changed("log-level") {
		flags["log-level"] = logLevel
	}
	if set.Changed("headless") {
		flags["headless"] = headless
	}
	if set.Changed("chrome") {
		flags["chrome"] = chromePath
	}
	if set.Changed("metrics-addr") {
		flags["metrics-addr"] = metricsAddr
	}
	if set.Changed("encoding") {
		flags["encoding"] = encodingName
	}
	return flags
}

// loadConfig loads the configuration with the command line on top
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile, commandFlags(cmd))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
