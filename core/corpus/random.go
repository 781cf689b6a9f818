package corpus

import (
	"math/rand/v2"

	"github.com/FocuswithJustin/versefinder/core/errors"
)

// RandomVerse picks a verse by three independent uniform draws: a book (unless
// book is given), then a chapter of that book, then a verse of that chapter.
// Every book is equally likely regardless of its length. A nil rng uses the
// global source.
func RandomVerse(c *Corpus, rng *rand.Rand, book string) (VerseRef, string, error) {
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}

	var b *Book
	if book == "" {
		if len(c.books) == 0 {
			return VerseRef{}, "", errors.NewValidation("corpus", "corpus has no books")
		}
		b = c.books[intN(len(c.books))]
	} else {
		var err error
		if b, err = c.book(book); err != nil {
			return VerseRef{}, "", err
		}
	}

	ci := intN(len(b.Chapters))
	vi := intN(len(b.Chapters[ci]))
	ref := VerseRef{Book: b.Name, Chapter: ci + 1, Verse: vi + 1}
	return ref, b.Chapters[ci][vi], nil
}
