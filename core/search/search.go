// Package search implements exact keyword search by scanning verse text.
//
// Search compiles the keyword as a case-insensitive regular expression and
// tests it against every verse in scope. Nothing is indexed or cached; each
// call rescans the corpus, so results always reflect in-place corrections.
package search

import (
	"regexp"

	"github.com/FocuswithJustin/versefinder/core/corpus"
	"github.com/FocuswithJustin/versefinder/core/errors"
)

// Result lists the matching verses of one chapter. Verses is never empty.
type Result struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verses  []int  `json:"verses"`
}

// Compile turns a keyword into the pattern Search uses. A pattern that
// does not compile is a *errors.QuerySyntaxError.
func Compile(keyword string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + keyword)
	if err != nil {
		return nil, &errors.QuerySyntaxError{Query: keyword, Message: "invalid pattern", Err: err}
	}
	return re, nil
}

// Search scans the books of scope, in the canonical order given by index,
// for verses matching keyword. Chapters without a match are left out, so an
// empty slice with a nil error means "no matches". An empty keyword matches
// every verse. A SingleBook scope naming an unknown book is an
// *errors.UnknownBookError.
func Search(c *corpus.Corpus, index *corpus.BookIndex, scope corpus.Scope, keyword string) ([]Result, error) {
	re, err := Compile(keyword)
	if err != nil {
		return nil, err
	}
	books, err := index.Resolve(scope)
	if err != nil {
		return nil, err
	}

	results := []Result{}
	for _, book := range books {
		chapters, err := c.ChapterCount(book)
		if err != nil {
			// Book is in the shared index but missing from this translation.
			continue
		}
		for ch := 1; ch <= chapters; ch++ {
			if r, ok := searchChapter(c, book, ch, re); ok {
				results = append(results, r)
			}
		}
	}
	return results, nil
}

// SearchChapter scans a single chapter. ok is false when nothing matched.
func SearchChapter(c *corpus.Corpus, book string, chapter int, keyword string) (Result, bool, error) {
	re, err := Compile(keyword)
	if err != nil {
		return Result{}, false, err
	}
	if _, err := c.Chapter(book, chapter); err != nil {
		return Result{}, false, err
	}
	r, ok := searchChapter(c, book, chapter, re)
	return r, ok, nil
}

func searchChapter(c *corpus.Corpus, book string, chapter int, re *regexp.Regexp) (Result, bool) {
	verses, err := c.Chapter(book, chapter)
	if err != nil {
		return Result{}, false
	}
	var matched []int
	for i, text := range verses {
		if re.MatchString(text) {
			matched = append(matched, i+1)
		}
	}
	if len(matched) == 0 {
		return Result{}, false
	}
	return Result{Book: book, Chapter: chapter, Verses: matched}, true
}

// Total counts matching verses across all results.
func Total(results []Result) int {
	n := 0
	for _, r := range results {
		n += len(r.Verses)
	}
	return n
}

// Flatten expands results into one VerseRef per matching verse, in order.
func Flatten(results []Result) []corpus.VerseRef {
	refs := make([]corpus.VerseRef, 0, Total(results))
	for _, r := range results {
		for _, v := range r.Verses {
			refs = append(refs, corpus.VerseRef{Book: r.Book, Chapter: r.Chapter, Verse: v})
		}
	}
	return refs
}
