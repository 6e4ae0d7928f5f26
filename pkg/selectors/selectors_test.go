package selectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleCell(t *testing.T) {
	tests := []struct {
		row, col int
		want     string
	}{
		{2, 1, "body > center > table.list > tbody > tr:nth-child(2) > td:nth-child(1)"},
		{2, 2, "body > center > table.list > tbody > tr:nth-child(2) > td:nth-child(2) > a"},
		{51, 6, "body > center > table.list > tbody > tr:nth-child(51) > td:nth-child(6)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleCell(tt.row, tt.col))
	}
}

func TestAuthorCell(t *testing.T) {
	assert.Equal(t, "body > table > tbody > tr:nth-child(1) > td:nth-child(2) > font", AuthorCell(1))
	assert.Equal(t, "body > table > tbody > tr:nth-child(4) > td:nth-child(2)", AuthorCell(4))
}

func TestDownloadLink(t *testing.T) {
	assert.Equal(t, "body > center > table > tbody > tr:nth-child(7) > td:nth-child(2) > a", DownloadLink(7))
	assert.Equal(t, "body > center > table > tbody > tr:nth-child(7) > td:nth-child(1)", NoCell(7))
}

func TestDeterministic(t *testing.T) {
	assert.Equal(t, TitleCell(10, 3), TitleCell(10, 3))
	assert.NotEqual(t, TitleCell(10, 3), TitleCell(3, 10))
}
