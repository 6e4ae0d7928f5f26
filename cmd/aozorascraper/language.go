package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"aozorascraper/pkg/config"
	"aozorascraper/pkg/records"
	"aozorascraper/pkg/ui"
)

// languageCmd represents the language command
var languageCmd = &cobra.Command{
	Use:   "language [japanese|english]",
	Short: "Show or set the language of CSV headers",
	Long: `Show or set the language of the header row of CSV files. The setting is
kept in the language file and applies to jobs started afterwards.`,
	Example: `  aozorascraper language english`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			lang, err := config.LoadLanguage(cfg.LanguageFile)
			if err != nil {
				return err
			}
			ui.PrintInfo("Header language", string(lang))
			return nil
		}

		arg := strings.ToLower(strings.TrimSpace(args[0]))
		if arg != string(records.Japanese) && arg != string(records.English) {
			return fmt.Errorf("unknown language %q, expected japanese or english", args[0])
		}
		if err := config.SaveLanguage(cfg.LanguageFile, records.ParseLanguage(arg)); err != nil {
			return err
		}
		ui.PrintSuccess("Header language set to " + arg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languageCmd)
}
