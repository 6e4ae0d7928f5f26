package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"aozorascraper/pkg/browser"
	"aozorascraper/pkg/config"
	"aozorascraper/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage Aozora Scraper configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (AOZORA_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with the default values",
	Long: `Create a configuration file holding every option at its default value.

The file is created at ` + filepath.Join(config.DefaultDir(), "config.yaml") + `
unless a different path is specified with the --config flag.`,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and environment",
	Long: `Validate the configuration and check that the browser and the output
directory are usable.`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = filepath.Join(config.DefaultDir(), "config.yaml")
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit pacing and output settings if needed")
	fmt.Println("2. Run 'aozorascraper config validate' to check the setup")
	fmt.Println("3. Start with 'aozorascraper title あ'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	var warnings []string

	bin, err := browser.FindChrome(cfg.Browser.Bin, browser.ChromeCandidates())
	if err != nil {
		warnings = append(warnings, err.Error())
	}
	if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			return fmt.Errorf("cannot create log directory: %w", err)
		}
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Browser: %s\n", bin)
	fmt.Printf("  Output directory: %s (%s)\n", cfg.Output.Directory, cfg.Output.Encoding)
	fmt.Printf("  Rate limit: %d requests/minute\n", cfg.Pacing.RequestsPerMinute)
	fmt.Printf("  Max page failures: %d\n", cfg.Pacing.MaxPageFailures)
	fmt.Printf("  Author IDs: %d-%d\n", cfg.Site.AuthorStart, cfg.Site.AuthorEnd)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
	return nil
}
