package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupsOrderAndSizes(t *testing.T) {
	gs := Groups()
	require.Len(t, gs, 47)
	assert.Equal(t, "あ", gs[0].Key)
	assert.Equal(t, 21, gs[0].Pages)
	assert.Equal(t, "A", gs[len(gs)-1].Key)
	assert.Equal(t, 1, gs[len(gs)-1].Pages)

	seen := map[string]bool{}
	for _, g := range gs {
		assert.False(t, seen[g.Key], "duplicate key %s", g.Key)
		seen[g.Key] = true
		assert.NotEmpty(t, g.Slug)
		assert.GreaterOrEqual(t, g.Pages, 0)
	}
}

func TestGroupsReturnsCopy(t *testing.T) {
	gs := Groups()
	gs[0].Pages = 99
	assert.Equal(t, 21, Groups()[0].Pages)
}

func TestSkipped(t *testing.T) {
	wo, ok := Lookup("を")
	require.True(t, ok)
	assert.True(t, wo.Skipped())
	assert.Equal(t, 0, wo.PageRange().Len())

	nu, ok := Lookup("ぬ")
	require.True(t, ok)
	assert.False(t, nu.Skipped())
	assert.Equal(t, []int{1}, nu.PageRange().Values())
}

func TestSelect(t *testing.T) {
	all, err := Select("all")
	require.NoError(t, err)
	assert.Len(t, all, 47)

	one, err := Select("か")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "ka", one[0].Slug)

	bySlug, err := Select("zz")
	require.NoError(t, err)
	assert.Equal(t, "A", bySlug[0].Key)

	_, err = Select("x")
	assert.Error(t, err)
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "https://www.aozora.gr.jp/index_pages/sakuhin_a1.html", BookListURL("", "a", 1))
	assert.Equal(t, "http://local/list_ka12.html", BookListURL("http://local/list", "ka", 12))
	assert.Equal(t, "https://www.aozora.gr.jp/index_pages/person148.html", AuthorURL("", 148))
}

func TestRange(t *testing.T) {
	r, err := NewRange(100, 103)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 101, 102}, r.Values())
	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Contains(102))
	assert.False(t, r.Contains(103))
	assert.Equal(t, "100-103", r.String())

	empty, err := NewRange(5, 5)
	require.NoError(t, err)
	assert.Empty(t, empty.Values())

	_, err = NewRange(5, 4)
	assert.Error(t, err)
}

func TestRowRange(t *testing.T) {
	rows := RowRange().Values()
	assert.Equal(t, 2, rows[0])
	assert.Equal(t, 51, rows[len(rows)-1])
	assert.Len(t, rows, 50)
}
