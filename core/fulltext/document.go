// Package fulltext defines the indexed search model shared by the index
// engines: the per-verse IndexDocument, a small query AST, the planner
// that turns user text into a query, and the text analyzers.
//
// Engines live in subpackages (bleveidx, ftsidx). Both index the same
// documents with the same analyzer so a query returns the same verses
// regardless of the engine behind it.
package fulltext

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/FocuswithJustin/versefinder/core/corpus"
)

// Document field names.
const (
	FieldID      = "id"
	FieldContent = "content"
	FieldTags    = "tags"
	FieldText    = "text"
	FieldBook    = "book"
	FieldChapter = "chapter"
	FieldVerse   = "verse"
)

// tagSeparator joins the tags of a document.
const tagSeparator = ", "

// IndexDocument is one indexed verse.
type IndexDocument struct {
	// ID is "{book-no-spaces} {chapter}:{verse}".
	ID string `json:"id"`
	// Content is the verse text as stored in the corpus.
	Content string `json:"content"`
	// Tags is "{book-no-spaces}, {Testament}, AllBooks".
	Tags string `json:"tags"`
	// Ref addresses the verse with its full book name.
	Ref corpus.VerseRef `json:"ref"`
}

// DocumentID formats the index id of a verse.
func DocumentID(ref corpus.VerseRef) string {
	return fmt.Sprintf("%s %d:%d", corpus.CompactName(ref.Book), ref.Chapter, ref.Verse)
}

// DocumentTags formats the tag set of a verse in book.
func DocumentTags(book string, t corpus.Testament) string {
	return strings.Join([]string{corpus.CompactName(book), t.String(), corpus.TagAllBooks}, tagSeparator)
}

// SplitTags returns the individual tags of a joined tag string.
func SplitTags(tags string) []string {
	parts := strings.Split(tags, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// HasTag reports whether the joined tag string contains tag exactly.
func HasTag(tags, tag string) bool {
	return slices.Contains(SplitTags(tags), tag)
}

// Documents yields one IndexDocument per verse of c, in canonical order.
func Documents(c *corpus.Corpus) iter.Seq[IndexDocument] {
	return func(yield func(IndexDocument) bool) {
		bi := corpus.NewBookIndex(c)
		tags := make(map[string]string, c.BookCount())
		for _, book := range bi.Books() {
			t, _ := bi.Testament(book)
			tags[book] = DocumentTags(book, t)
		}
		for ref, text := range c.Verses() {
			doc := IndexDocument{
				ID:      DocumentID(ref),
				Content: text,
				Tags:    tags[ref.Book],
				Ref:     ref,
			}
			if !yield(doc) {
				return
			}
		}
	}
}

// BuildStats describes a finished index build. Engines persist it next to
// the index and return it from Manifest.
type BuildStats struct {
	Engine      string        `json:"engine"`
	Language    string        `json:"language"`
	Translation string        `json:"translation"`
	BuildID     string        `json:"build_id"`
	Fingerprint string        `json:"fingerprint"`
	Documents   int           `json:"documents"`
	Analyzer    string        `json:"analyzer"`
	BuiltAt     time.Time     `json:"built_at"`
	Duration    time.Duration `json:"duration"`
}
