// Package display renders verses, chapters, books and search pages in
// every loaded translation.
//
// The primary translation decides whether a reference exists. The
// secondary is shown alongside it and may be missing verses or whole
// chapters; those print a placeholder instead of failing.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/versefinder/core/corpus"
	"github.com/FocuswithJustin/versefinder/core/fulltext"
	"github.com/FocuswithJustin/versefinder/core/pager"
)

// Missing is printed in place of a verse a translation does not have.
const Missing = "(not present in this translation)"

// booksPerLine is the column count of the book list.
const booksPerLine = 4

// Renderer writes plain text for one Library.
type Renderer struct {
	w   io.Writer
	lib *corpus.Library
}

// New returns a Renderer writing to w.
func New(w io.Writer, lib *corpus.Library) *Renderer {
	return &Renderer{w: w, lib: lib}
}

// Books lists the Old and New Testament books.
func (r *Renderer) Books() {
	idx := r.lib.Index
	r.bookList("Old Testament", idx.OldTestament())
	fmt.Fprintln(r.w)
	r.bookList("New Testament", idx.NewTestament())
}

func (r *Renderer) bookList(title string, books []string) {
	fmt.Fprintf(r.w, "%s (%d books)\n", title, len(books))
	fmt.Fprintln(r.w, strings.Repeat("-", len(title)))
	for i := 0; i < len(books); i += booksPerLine {
		end := min(i+booksPerLine, len(books))
		var line strings.Builder
		for _, b := range books[i:end] {
			fmt.Fprintf(&line, "%-20s", b)
		}
		fmt.Fprintln(r.w, strings.TrimRight(line.String(), " "))
	}
}

// Verse prints one verse in each translation. A verse missing from the
// primary translation is an error; the secondary gets a placeholder.
func (r *Renderer) Verse(ref corpus.VerseRef) error {
	if _, err := r.lib.Primary.Lookup(ref); err != nil {
		return err
	}
	fmt.Fprintln(r.w, ref)
	r.verseLines(ref)
	return nil
}

func (r *Renderer) verseLines(ref corpus.VerseRef) {
	for _, c := range r.lib.Translations() {
		text, err := c.Lookup(ref)
		if err != nil {
			text = Missing
		}
		fmt.Fprintf(r.w, "  [%s] %s\n", c.Translation, text)
	}
}

// Chapter prints every verse of a chapter. The verse range is the longer
// of the two translations' chapters.
func (r *Renderer) Chapter(book string, chapter int) error {
	n, err := r.lib.Primary.VerseCount(book, chapter)
	if err != nil {
		return err
	}
	if r.lib.Secondary != nil {
		if m, err := r.lib.Secondary.VerseCount(book, chapter); err == nil {
			n = max(n, m)
		}
	}
	fmt.Fprintf(r.w, "%s %d\n", book, chapter)
	for v := 1; v <= n; v++ {
		fmt.Fprintf(r.w, "%d\n", v)
		r.verseLines(corpus.VerseRef{Book: book, Chapter: chapter, Verse: v})
	}
	return nil
}

// Book prints every chapter of a book, including chapters only the
// secondary translation has.
func (r *Renderer) Book(book string) error {
	n, err := r.lib.Primary.ChapterCount(book)
	if err != nil {
		return err
	}
	primary := n
	if r.lib.Secondary != nil {
		if m, err := r.lib.Secondary.ChapterCount(book); err == nil {
			n = max(n, m)
		}
	}
	for ch := 1; ch <= n; ch++ {
		if ch > 1 {
			fmt.Fprintln(r.w)
		}
		if ch <= primary {
			if err := r.Chapter(book, ch); err != nil {
				return err
			}
			continue
		}
		r.secondaryChapter(book, ch)
	}
	return nil
}

func (r *Renderer) secondaryChapter(book string, chapter int) {
	verses, err := r.lib.Secondary.Chapter(book, chapter)
	if err != nil {
		return
	}
	fmt.Fprintf(r.w, "%s %d\n", book, chapter)
	for i := range verses {
		fmt.Fprintf(r.w, "%d\n", i+1)
		r.verseLines(corpus.VerseRef{Book: book, Chapter: chapter, Verse: i + 1})
	}
}

// SearchPage prints one page of scan search matches.
func (r *Renderer) SearchPage(p pager.Page[corpus.VerseRef], total int) {
	r.pageHeader(p.Number, p.Start, p.End(), total)
	for _, ref := range p.Items {
		fmt.Fprintln(r.w, ref)
		r.verseLines(ref)
	}
	if p.Last {
		fmt.Fprintln(r.w, "-- end of results --")
	}
}

func (r *Renderer) pageHeader(number, start, end, total int) {
	if total >= 0 {
		fmt.Fprintf(r.w, "Page %d: matches %d-%d of %d\n", number, start+1, end, total)
		return
	}
	fmt.Fprintf(r.w, "Page %d: matches %d-%d\n", number, start+1, end)
}

// Hits prints one page of full-text hits. The indexed text is shown for
// the hit's own translation; the other translations are looked up.
func (r *Renderer) Hits(p pager.Page[fulltext.IndexDocument], total int, from *corpus.Corpus) {
	r.pageHeader(p.Number, p.Start, p.End(), total)
	for _, doc := range p.Items {
		fmt.Fprintln(r.w, doc.Ref)
		for _, c := range r.lib.Translations() {
			text := doc.Content
			if c != from {
				var err error
				if text, err = c.Lookup(doc.Ref); err != nil {
					text = Missing
				}
			}
			fmt.Fprintf(r.w, "  [%s] %s\n", c.Translation, text)
		}
	}
	if p.Last {
		fmt.Fprintln(r.w, "-- end of results --")
	}
}

// NoMatches prints the empty-result message.
func (r *Renderer) NoMatches(query string, scope corpus.Scope) {
	fmt.Fprintf(r.w, "No matches for %q in %s.\n", query, scope)
}
