// Package selectors maps table coordinates of the catalog pages to CSS
// locators. It is the only place that knows the site's markup.
package selectors

import "fmt"

const (
	// ZipLink is the archive link on a book card page.
	ZipLink = "body > table.download > tbody > tr:nth-child(2) > td:nth-child(3) > a"
	// BookTitle is the title cell on a book card page.
	BookTitle = "body > table:nth-child(4) > tbody > tr:nth-child(1) > td:nth-child(2) > font"
	// BookReading is the title reading cell on a book card page.
	BookReading = "body > table:nth-child(4) > tbody > tr:nth-child(2) > td:nth-child(2)"
	// Category is the category cell on a book card page.
	Category = "body > table:nth-child(8) > tbody > tr:nth-child(1) > td:nth-child(2)"

	titleLinkColumn = 2
	authorNameRow   = 1
)

// TitleCell addresses one cell of a title list table. The title column is
// read through its anchor.
func TitleCell(row, col int) string {
	loc := fmt.Sprintf("body > center > table.list > tbody > tr:nth-child(%d) > td:nth-child(%d)", row, col)
	if col == titleLinkColumn {
		loc += " > a"
	}
	return loc
}

// AuthorCell addresses the value cell of one author table row. The name row
// wraps its value in a font element.
func AuthorCell(row int) string {
	loc := fmt.Sprintf("body > table > tbody > tr:nth-child(%d) > td:nth-child(2)", row)
	if row == authorNameRow {
		loc += " > font"
	}
	return loc
}

// DownloadLink addresses the card page link of one title list row.
func DownloadLink(row int) string {
	return fmt.Sprintf("body > center > table > tbody > tr:nth-child(%d) > td:nth-child(2) > a", row)
}

// NoCell addresses the running number of one title list row.
func NoCell(row int) string {
	return fmt.Sprintf("body > center > table > tbody > tr:nth-child(%d) > td:nth-child(1)", row)
}
