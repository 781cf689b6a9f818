// Package corpus provides the in-memory verse store for one translation of the Bible.
//
// A Corpus is organised book -> chapter -> verse. Chapters are stored as
// slices, so chapter and verse numbers are always 1..n with no gaps: the
// highest verse number of a chapter is its verse count.
//
// # Example
//
//	c := corpus.New("KJV", "en")
//	_ = c.AddBook("John", [][]string{{"In the beginning was the Word..."}})
//	text, err := c.VerseText("John", 1, 1)
package corpus

import (
	"fmt"
	"iter"
	"strings"

	"github.com/FocuswithJustin/versefinder/core/errors"
)

// VerseRef addresses one verse. Chapter and verse are 1-based.
type VerseRef struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
}

// String renders the reference as "Book C:V".
func (r VerseRef) String() string {
	return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.Verse)
}

// Book holds the chapters of one book. Chapters[c-1][v-1] is verse c:v.
type Book struct {
	Name     string
	Chapters [][]string
}

// Corpus is the verse text of exactly one translation.
type Corpus struct {
	// Translation is the display name of the translation (e.g., "KJV", "CUV").
	Translation string

	// Language is the language tag used to namespace the full-text index (e.g., "en", "zh-TW").
	Language string

	books  []*Book
	byName map[string]*Book
}

// New creates an empty corpus.
func New(translation, language string) *Corpus {
	return &Corpus{
		Translation: translation,
		Language:    language,
		byName:      make(map[string]*Book),
	}
}

// AddBook appends a book in canonical position after the books already added.
// Every chapter must contain at least one verse.
func (c *Corpus) AddBook(name string, chapters [][]string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewValidation("book", "name must not be empty")
	}
	if _, dup := c.byName[name]; dup {
		return errors.NewValidation("book", fmt.Sprintf("duplicate book %q", name))
	}
	if len(chapters) == 0 {
		return errors.NewValidation("book", fmt.Sprintf("%s has no chapters", name))
	}
	for i, ch := range chapters {
		if len(ch) == 0 {
			return errors.NewValidation("chapter", fmt.Sprintf("%s %d has no verses", name, i+1))
		}
	}
	b := &Book{Name: name, Chapters: chapters}
	c.books = append(c.books, b)
	c.byName[name] = b
	return nil
}

// Books returns the book names in canonical order.
func (c *Corpus) Books() []string {
	names := make([]string, len(c.books))
	for i, b := range c.books {
		names[i] = b.Name
	}
	return names
}

// BookCount returns the number of books.
func (c *Corpus) BookCount() int {
	return len(c.books)
}

// HasBook reports whether the book exists.
func (c *Corpus) HasBook(book string) bool {
	_, ok := c.byName[book]
	return ok
}

func (c *Corpus) book(name string) (*Book, error) {
	b, ok := c.byName[name]
	if !ok {
		return nil, errors.NewUnknownBook(name)
	}
	return b, nil
}

// ChapterCount returns the number of chapters in a book.
func (c *Corpus) ChapterCount(book string) (int, error) {
	b, err := c.book(book)
	if err != nil {
		return 0, err
	}
	return len(b.Chapters), nil
}

// Chapter returns the verses of a chapter; index v-1 holds verse v.
// The returned slice is shared with the corpus and must not be modified.
func (c *Corpus) Chapter(book string, chapter int) ([]string, error) {
	b, err := c.book(book)
	if err != nil {
		return nil, err
	}
	if chapter < 1 || chapter > len(b.Chapters) {
		return nil, errors.NewChapterOutOfRange(book, chapter, 0, len(b.Chapters))
	}
	return b.Chapters[chapter-1], nil
}

// VerseCount returns the number of verses in a chapter.
func (c *Corpus) VerseCount(book string, chapter int) (int, error) {
	verses, err := c.Chapter(book, chapter)
	if err != nil {
		return 0, err
	}
	return len(verses), nil
}

// VerseText returns the text of one verse. An unknown book yields
// *errors.UnknownBookError; a bad chapter or verse yields *errors.VerseNotFoundError.
func (c *Corpus) VerseText(book string, chapter, verse int) (string, error) {
	b, err := c.book(book)
	if err != nil {
		return "", err
	}
	if chapter < 1 || chapter > len(b.Chapters) {
		return "", errors.NewChapterOutOfRange(book, chapter, verse, len(b.Chapters))
	}
	verses := b.Chapters[chapter-1]
	if verse < 1 || verse > len(verses) {
		return "", errors.NewVerseOutOfRange(book, chapter, verse, len(verses))
	}
	return verses[verse-1], nil
}

// Lookup is VerseText for a VerseRef.
func (c *Corpus) Lookup(ref VerseRef) (string, error) {
	return c.VerseText(ref.Book, ref.Chapter, ref.Verse)
}

// MutateVerse replaces the text of an existing verse in place. The change is
// visible to the next read; persisting it is up to the caller. There is no
// locking: callers must not read the same verse concurrently.
func (c *Corpus) MutateVerse(book string, chapter, verse int, text string) error {
	if _, err := c.VerseText(book, chapter, verse); err != nil {
		return err
	}
	c.byName[book].Chapters[chapter-1][verse-1] = text
	return nil
}

// VerseTotal returns the number of verses in the corpus.
func (c *Corpus) VerseTotal() int {
	n := 0
	for _, b := range c.books {
		for _, ch := range b.Chapters {
			n += len(ch)
		}
	}
	return n
}

// Verses iterates every verse in canonical order.
func (c *Corpus) Verses() iter.Seq2[VerseRef, string] {
	return func(yield func(VerseRef, string) bool) {
		for _, b := range c.books {
			for ci, ch := range b.Chapters {
				for vi, text := range ch {
					if !yield(VerseRef{Book: b.Name, Chapter: ci + 1, Verse: vi + 1}, text) {
						return
					}
				}
			}
		}
	}
}
