package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Author ")
	require.NoError(t, err)
	assert.Equal(t, ModeAuthor, m)

	_, err = ParseMode("video")
	assert.Error(t, err)
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, Japanese, ParseLanguage("japanese"))
	assert.Equal(t, Japanese, ParseLanguage("Japanese\n"))
	assert.Equal(t, English, ParseLanguage("english"))
	assert.Equal(t, English, ParseLanguage("french"))
	assert.Equal(t, English, ParseLanguage(""))
}

func TestHeaders(t *testing.T) {
	assert.Equal(t,
		[]string{"No", "作家名", "作家名読み", "ローマ字表記", "生年", "没年", "人物について"},
		AuthorColumns.Header(Japanese))
	assert.Equal(t,
		[]string{"No", "title", "lettering", "author", "authorname", "translator"},
		TitleColumns.Header(English))
	assert.Equal(t, []string{"No", "bookname", "booknameruby", "category"}, BookColumns.Header(English))
}

func TestColumnsFor(t *testing.T) {
	for _, m := range []Mode{ModeDownload, ModeBook, ModeAuthor, ModeTitle} {
		cs := ColumnsFor(m)
		require.NotEmpty(t, cs, m)
		assert.Equal(t, KeyNo, cs[0].Key)
	}
	assert.Nil(t, ColumnsFor(Mode("x")))
}

func TestNewRecordHasEveryKey(t *testing.T) {
	r := New(TitleColumns)
	assert.Len(t, r, len(TitleColumns))
	for _, k := range TitleColumns.Keys() {
		v, ok := r[k]
		assert.True(t, ok, k)
		assert.Empty(t, v)
	}

	r[KeyTitle] = "吾輩は猫である"
	assert.Equal(t, []string{"", "吾輩は猫である", "", "", "", ""}, r.Row(TitleColumns))
}
