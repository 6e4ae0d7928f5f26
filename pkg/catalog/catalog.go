// Package catalog describes the shape of the Aozora Bunko index: the ordered
// kana partitions of the title list, their page counts, and the URLs of list
// and author pages.
package catalog

import (
	"fmt"
	"strings"
)

const (
	// MinPartitionSize is the smallest page count a partition needs to be visited.
	MinPartitionSize = 1
	// FirstPageRow is the first data row of a list table; row 1 is the header.
	FirstPageRow = 2
	// MaxPageRow is the exclusive upper bound of list table rows.
	MaxPageRow = 52
	// MaxAuthors is the exclusive upper bound of author IDs.
	MaxAuthors = 2450

	// DefaultBookURL is the prefix of every title list page.
	DefaultBookURL = "https://www.aozora.gr.jp/index_pages/sakuhin"
	// DefaultAuthorURL is the prefix of every author page.
	DefaultAuthorURL = "https://www.aozora.gr.jp/index_pages/person"

	// All selects every partition.
	All = "all"
)

// Group is one partition of the title index
type Group struct {
	Key   string
	Slug  string
	Pages int
}

// Skipped reports whether the partition is too small to visit
func (g Group) Skipped() bool {
	return g.Pages < MinPartitionSize
}

// Label is the human readable partition name used in status messages.
func (g Group) Label() string {
	return g.Key + " 行"
}

// groups is the fixed enumeration in site order. を and ん have no list pages.
var groups = []Group{
	{"あ", "a", 21}, {"い", "i", 10}, {"う", "u", 7}, {"え", "e", 5}, {"お", "o", 14},
	{"か", "ka", 21}, {"き", "ki", 14}, {"く", "ku", 8}, {"け", "ke", 8}, {"こ", "ko", 17},
	{"さ", "sa", 11}, {"し", "si", 35}, {"す", "su", 5}, {"せ", "se", 19}, {"そ", "so", 6},
	{"た", "ta", 12}, {"ち", "ti", 8}, {"つ", "tu", 5}, {"て", "te", 8}, {"と", "to", 11},
	{"な", "na", 6}, {"に", "ni", 9}, {"ぬ", "nu", 1}, {"ね", "ne", 2}, {"の", "no", 3},
	{"は", "ha", 18}, {"ひ", "hi", 10}, {"ふ", "hu", 14}, {"へ", "he", 4}, {"ほ", "ho", 7},
	{"ま", "ma", 6}, {"み", "mi", 6}, {"む", "mu", 4}, {"め", "me", 3}, {"も", "mo", 4},
	{"や", "ya", 5}, {"ゆ", "yu", 6}, {"よ", "yo", 6},
	{"ら", "ra", 3}, {"り", "ri", 3}, {"る", "ru", 1}, {"れ", "re", 2}, {"ろ", "ro", 3},
	{"わ", "wa", 8}, {"を", "wo", 0}, {"ん", "nn", 0},
	{"A", "zz", 1},
}

// Groups returns a copy of the full enumeration in order.
func Groups() []Group {
	out := make([]Group, len(groups))
	copy(out, groups)
	return out
}

// Lookup finds a partition by key or slug
func Lookup(key string) (Group, bool) {
	for _, g := range groups {
		if g.Key == key || g.Slug == key {
			return g, true
		}
	}
	return Group{}, false
}

// Select resolves a group selector: "all" or one partition key.
// Partitions below the minimum size are kept in the result; callers skip them.
func Select(selector string) ([]Group, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" || strings.EqualFold(selector, All) {
		return Groups(), nil
	}
	g, ok := Lookup(selector)
	if !ok {
		return nil, fmt.Errorf("unknown group %q", selector)
	}
	return []Group{g}, nil
}

// PageRange returns the page range of the partition, 1..Pages inclusive.
func (g Group) PageRange() Range {
	if g.Skipped() {
		return Range{Start: MinPartitionSize, End: MinPartitionSize}
	}
	return Range{Start: MinPartitionSize, End: g.Pages + 1}
}

// RowRange is the data row range of every list page.
func RowRange() Range {
	return Range{Start: FirstPageRow, End: MaxPageRow}
}

// BookListURL builds the URL of one list page of a partition.
func BookListURL(base, slug string, page int) string {
	if base == "" {
		base = DefaultBookURL
	}
	return fmt.Sprintf("%s_%s%d.html", base, slug, page)
}

// AuthorURL builds the URL of one author page.
func AuthorURL(base string, id int) string {
	if base == "" {
		base = DefaultAuthorURL
	}
	return fmt.Sprintf("%s%d.html", base, id)
}
