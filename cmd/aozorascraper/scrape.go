package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"aozorascraper/pkg/catalog"
	"aozorascraper/pkg/records"
	"aozorascraper/pkg/scraper"
)

var (
	// Author command flags
	authorStart int
	authorEnd   int
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download [group]",
	Short: "Download the zip archive of every work in the title index",
	Long: `Download the zip archive of every work listed in the title index.

The group is one kana row key such as あ or か, or "all" (the default). Each
downloaded work is also listed in one CSV file with its number and title.`,
	Example: `  # Download every archive
  aozorascraper download

  # Only the works whose title starts in the か row
  aozorascraper download か`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGroupJob(cmd, records.ModeDownload, args)
	},
}

// bookCmd represents the book command
var bookCmd = &cobra.Command{
	Use:   "book [group]",
	Short: "Read the title, reading and category of every work",
	Long: `Open the card page of every work in the title index and read its title,
reading and NDC category. One CSV file is written per group.`,
	Example: `  aozorascraper book さ`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGroupJob(cmd, records.ModeBook, args)
	},
}

// titleCmd represents the title command
var titleCmd = &cobra.Command{
	Use:   "title [group]",
	Short: "Read the six columns of every title list row",
	Long: `Read number, title, character set, author, translator and second author
of every row of the title index. One CSV file is written per group.`,
	Example: `  aozorascraper title all`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGroupJob(cmd, records.ModeTitle, args)
	},
}

// authorCmd represents the author command
var authorCmd = &cobra.Command{
	Use:   "author",
	Short: "Read the profile of every author ID in a range",
	Long: `Open the person page of every author ID in [start, end) and read the name,
reading, romanization, dates and biography.

IDs without a person page are counted as failures and skipped.`,
	Example: `  # The first hundred authors
  aozorascraper author --start 1 --end 101`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		start, end := cfg.Site.AuthorStart, cfg.Site.AuthorEnd
		if cmd.Flags().Changed("start") {
			start = authorStart
		}
		if cmd.Flags().Changed("end") {
			end = authorEnd
		}
		ids, err := catalog.NewRange(start, end)
		if err != nil {
			return err
		}
		return runJob(cmd, cfg, scraper.Job{Mode: records.ModeAuthor, IDs: ids})
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd, bookCmd, titleCmd, authorCmd)

	authorCmd.Flags().IntVar(&authorStart, "start", 1, "first author ID")
	authorCmd.Flags().IntVar(&authorEnd, "end", catalog.MaxAuthors, "author ID to stop before")
}

// runGroupJob runs a mode that walks the title index
func runGroupJob(cmd *cobra.Command, mode records.Mode, args []string) error {
	selection := catalog.All
	if len(args) == 1 {
		selection = strings.TrimSpace(args[0])
	}
	if _, err := catalog.Select(selection); err != nil {
		return fmt.Errorf("%w (run 'aozorascraper groups' for the list)", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return runJob(cmd, cfg, scraper.Job{Mode: mode, Selection: selection})
}
