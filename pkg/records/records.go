// Package records defines the record shape written by each scrape mode.
package records

import (
	"fmt"
	"strings"
)

// Mode is one of the four traversals of the catalog
type Mode string

const (
	ModeDownload Mode = "download"
	ModeBook     Mode = "book"
	ModeAuthor   Mode = "author"
	ModeTitle    Mode = "title"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeDownload, ModeBook, ModeAuthor, ModeTitle:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// Language selects the header labels of an artifact
type Language string

const (
	Japanese Language = "japanese"
	English  Language = "english"
)

// ParseLanguage maps "japanese" to Japanese and anything else to English.
func ParseLanguage(s string) Language {
	if strings.EqualFold(strings.TrimSpace(s), string(Japanese)) {
		return Japanese
	}
	return English
}

// Column is one field of a record with its header labels
type Column struct {
	Key      string
	Japanese string
	English  string
}

// Label returns the header text for lang.
func (c Column) Label(lang Language) string {
	if lang == Japanese {
		return c.Japanese
	}
	return c.English
}

// Columns is an ordered, fixed header set
type Columns []Column

// Keys returns the logical field names in order.
func (cs Columns) Keys() []string {
	keys := make([]string, len(cs))
	for i, c := range cs {
		keys[i] = c.Key
	}
	return keys
}

// Header returns the header labels in order for lang.
func (cs Columns) Header(lang Language) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Label(lang)
	}
	return out
}

// Field keys shared by the schemas
const (
	KeyNo         = "no"
	KeyTitle      = "title"
	KeyTitleRuby  = "title_ruby"
	KeyCategory   = "category"
	KeyArchiveURL = "archive_url"
	KeyAuthor     = "author"
	KeyAuthorRuby = "author_ruby"
	KeyRoman      = "roman"
	KeyBirth      = "birth"
	KeyDeath      = "death"
	KeyBiography  = "biography"
	KeyLettering  = "lettering"
	KeyAuthorBase = "author_base"
	KeyTranslator = "translator"
)

var (
	DownloadColumns = Columns{
		{KeyNo, "No", "No"},
		{KeyTitle, "作品名", "title"},
		{KeyArchiveURL, "ファイルURL", "archiveurl"},
	}
	BookColumns = Columns{
		{KeyNo, "No", "No"},
		{KeyTitle, "作品名", "bookname"},
		{KeyTitleRuby, "作品名読み", "booknameruby"},
		{KeyCategory, "分類", "category"},
	}
	AuthorColumns = Columns{
		{KeyNo, "No", "No"},
		{KeyAuthor, "作家名", "author"},
		{KeyAuthorRuby, "作家名読み", "authorruby"},
		{KeyRoman, "ローマ字表記", "roman"},
		{KeyBirth, "生年", "birth"},
		{KeyDeath, "没年", "bod"},
		{KeyBiography, "人物について", "about"},
	}
	TitleColumns = Columns{
		{KeyNo, "No", "No"},
		{KeyTitle, "作品名", "title"},
		{KeyLettering, "文字遣い種別", "lettering"},
		{KeyAuthor, "著者名", "author"},
		{KeyAuthorBase, "著者基本名", "authorname"},
		{KeyTranslator, "翻訳者名等", "translator"},
	}
)

// ColumnsFor returns the schema of a mode.
func ColumnsFor(m Mode) Columns {
	switch m {
	case ModeDownload:
		return DownloadColumns
	case ModeBook:
		return BookColumns
	case ModeAuthor:
		return AuthorColumns
	case ModeTitle:
		return TitleColumns
	default:
		return nil
	}
}

// Record maps every column key of a schema to a value. Missing data is an
// empty string, never an absent key.
type Record map[string]string

// New returns a record with every key of cs present and empty.
func New(cs Columns) Record {
	r := make(Record, len(cs))
	for _, c := range cs {
		r[c.Key] = ""
	}
	return r
}

// Row returns the values of r in column order.
func (r Record) Row(cs Columns) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = r[c.Key]
	}
	return out
}
