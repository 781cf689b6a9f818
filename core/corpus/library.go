package corpus

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/versefinder/core/errors"
)

// Library holds the primary and secondary translations and the BookIndex
// shared by both. Translations are never merged and need not be verse-aligned.
type Library struct {
	Primary   *Corpus
	Secondary *Corpus
	Index     *BookIndex
}

// Divergence records a chapter count that differs between the translations.
type Divergence struct {
	Book              string
	PrimaryChapters   int
	SecondaryChapters int
}

func (d Divergence) String() string {
	return fmt.Sprintf("%s: %d chapters vs %d", d.Book, d.PrimaryChapters, d.SecondaryChapters)
}

// NewLibrary builds the BookIndex from primary and checks that secondary
// (which may be nil) lists the same books in the same order. A mismatch is a
// CorpusLoadError. Differing chapter counts are returned for the caller to report.
func NewLibrary(primary, secondary *Corpus) (*Library, []Divergence, error) {
	if primary == nil || primary.BookCount() == 0 {
		return nil, nil, errors.NewCorpusLoad("primary", "no books loaded", nil)
	}
	lib := &Library{Primary: primary, Secondary: secondary, Index: NewBookIndex(primary)}
	if secondary == nil {
		return lib, nil, nil
	}

	other := NewBookIndex(secondary)
	if !lib.Index.Equal(other) {
		return nil, nil, errors.NewCorpusLoad(secondary.Translation,
			fmt.Sprintf("book list differs from %s (%d vs %d books)",
				primary.Translation, secondary.BookCount(), primary.BookCount()), nil)
	}

	var diverged []Divergence
	for _, name := range lib.Index.books {
		p := lib.Index.chapters[name]
		s := other.chapters[name]
		if p != s {
			diverged = append(diverged, Divergence{Book: name, PrimaryChapters: p, SecondaryChapters: s})
		}
	}
	return lib, diverged, nil
}

// Translations returns the loaded corpora, primary first.
func (l *Library) Translations() []*Corpus {
	if l.Secondary == nil {
		return []*Corpus{l.Primary}
	}
	return []*Corpus{l.Primary, l.Secondary}
}

// Select finds a corpus by translation name or language tag (case-insensitive).
func (l *Library) Select(name string) (*Corpus, bool) {
	for _, c := range l.Translations() {
		if strings.EqualFold(c.Translation, name) || strings.EqualFold(c.Language, name) {
			return c, true
		}
	}
	return nil, false
}
