package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"aozorascraper/pkg/catalog"
	"aozorascraper/pkg/checkpoint"
	"aozorascraper/pkg/ui"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last run of every mode",
	Long: `Show the checkpoint of the last run of every mode: its state, the last
position that was fully processed, the counters and the files written.

Completed runs leave no checkpoint behind.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cps, err := checkpoint.LoadAll()
		if err != nil {
			return err
		}
		if len(cps) == 0 {
			ui.PrintInfo("Checkpoints", "none")
			return nil
		}
		renderStatus(os.Stdout, cps)
		return nil
	},
}

// groupsCmd represents the groups command
var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List the kana groups of the title index",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		renderGroups(os.Stdout, catalog.Groups())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd, groupsCmd)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func renderStatus(w io.Writer, cps []*checkpoint.Checkpoint) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Mode", "Selection", "State", "Last position", "OK", "Failed", "Updated", "Artifacts"})
	for _, cp := range cps {
		t.AppendRow(table.Row{
			cp.Mode,
			cp.Selection,
			stateLabel(cp.State),
			positionLabel(cp.Last),
			cp.Success,
			cp.Fail,
			cp.UpdatedAt.Local().Format("2006-01-02 15:04"),
			strings.Join(cp.Artifacts, "\n"),
		})
	}
	t.Render()
}

func renderGroups(w io.Writer, groups []catalog.Group) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Key", "Slug", "Pages", "Rows"})
	total := 0
	for _, g := range groups {
		rows := fmt.Sprint(g.Pages * catalog.RowRange().Len())
		if g.Skipped() {
			rows = "skipped"
		} else {
			total += g.Pages
		}
		t.AppendRow(table.Row{g.Key, g.Slug, g.Pages, rows})
	}
	t.AppendFooter(table.Row{"", "", total, ""})
	t.Render()
}

func stateLabel(state string) string {
	if state == checkpoint.StateRunning {
		return state + " (or interrupted)"
	}
	return state
}

func positionLabel(p checkpoint.Position) string {
	var parts []string
	if p.Group != "" {
		parts = append(parts, "group "+p.Group)
	}
	if p.Page > 0 {
		parts = append(parts, fmt.Sprintf("page %d", p.Page))
	}
	if p.AuthorID > 0 {
		parts = append(parts, fmt.Sprintf("author %d", p.AuthorID))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
