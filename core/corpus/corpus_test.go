package corpus

import (
	"fmt"
	"testing"

	"github.com/FocuswithJustin/versefinder/core/errors"
)

// johnChapter3 returns 36 verses with "God" only in verse 16.
func johnChapter3() []string {
	verses := make([]string, 36)
	for i := range verses {
		verses[i] = fmt.Sprintf("john three verse %d", i+1)
	}
	verses[15] = "For God so loved the world, that he gave his only begotten Son"
	return verses
}

func newTestCorpus(t *testing.T) *Corpus {
	t.Helper()
	c := New("KJV", "en")
	books := []struct {
		name     string
		chapters [][]string
	}{
		{"Genesis", [][]string{
			{"In the beginning God created the heaven and the earth.", "And the earth was without form, and void."},
			{"Thus the heavens and the earth were finished."},
		}},
		{"John", [][]string{
			{"In the beginning was the Word, and the Word was with God, and the Word was God."},
			{"And the third day there was a marriage in Cana of Galilee."},
			johnChapter3(),
		}},
		{"1 John", [][]string{{"That which was from the beginning, which we have heard."}}},
	}
	for _, b := range books {
		if err := c.AddBook(b.name, b.chapters); err != nil {
			t.Fatalf("AddBook(%q) failed: %v", b.name, err)
		}
	}
	return c
}

func TestCorpusChapterAndVerseCounts(t *testing.T) {
	c := newTestCorpus(t)

	tests := []struct {
		book     string
		chapters int
		verses   []int
	}{
		{"Genesis", 2, []int{2, 1}},
		{"John", 3, []int{1, 1, 36}},
		{"1 John", 1, []int{1}},
	}
	for _, tt := range tests {
		n, err := c.ChapterCount(tt.book)
		if err != nil {
			t.Fatalf("ChapterCount(%q) error: %v", tt.book, err)
		}
		if n != tt.chapters {
			t.Errorf("ChapterCount(%q) = %d, want %d", tt.book, n, tt.chapters)
		}
		for ch, want := range tt.verses {
			got, err := c.VerseCount(tt.book, ch+1)
			if err != nil {
				t.Fatalf("VerseCount(%q, %d) error: %v", tt.book, ch+1, err)
			}
			if got != want {
				t.Errorf("VerseCount(%q, %d) = %d, want %d", tt.book, ch+1, got, want)
			}
			// No gaps: the highest verse exists and the next does not.
			if _, err := c.VerseText(tt.book, ch+1, want); err != nil {
				t.Errorf("VerseText(%q, %d, %d) error: %v", tt.book, ch+1, want, err)
			}
			if _, err := c.VerseText(tt.book, ch+1, want+1); !errors.Is(err, errors.ErrVerseOutOfRange) {
				t.Errorf("VerseText(%q, %d, %d) error = %v, want ErrVerseOutOfRange", tt.book, ch+1, want+1, err)
			}
		}
	}
}

func TestVerseTextErrors(t *testing.T) {
	c := newTestCorpus(t)

	tests := []struct {
		name           string
		book           string
		chapter, verse int
		want           error
	}{
		{"unknown book", "Hezekiah", 1, 1, errors.ErrUnknownBook},
		{"chapter zero", "John", 0, 1, errors.ErrChapterOutOfRange},
		{"chapter too high", "John", 4, 1, errors.ErrChapterOutOfRange},
		{"verse zero", "John", 3, 0, errors.ErrVerseOutOfRange},
		{"verse too high", "John", 3, 37, errors.ErrVerseOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.VerseText(tt.book, tt.chapter, tt.verse)
			if !errors.Is(err, tt.want) {
				t.Errorf("VerseText() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := c.ChapterCount("Hezekiah"); !errors.Is(err, errors.ErrUnknownBook) {
		t.Errorf("ChapterCount(unknown) error = %v, want ErrUnknownBook", err)
	}
}

func TestVerseTextJohn316(t *testing.T) {
	c := newTestCorpus(t)
	text, err := c.Lookup(VerseRef{Book: "John", Chapter: 3, Verse: 16})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if text != "For God so loved the world, that he gave his only begotten Son" {
		t.Errorf("Lookup(John 3:16) = %q", text)
	}
}

func TestMutateVerse(t *testing.T) {
	c := newTestCorpus(t)

	if err := c.MutateVerse("John", 3, 16, "new text"); err != nil {
		t.Fatalf("MutateVerse failed: %v", err)
	}
	got, err := c.VerseText("John", 3, 16)
	if err != nil {
		t.Fatalf("VerseText failed: %v", err)
	}
	if got != "new text" {
		t.Errorf("VerseText after MutateVerse = %q, want %q", got, "new text")
	}

	if err := c.MutateVerse("John", 3, 99, "x"); !errors.Is(err, errors.ErrVerseOutOfRange) {
		t.Errorf("MutateVerse(out of range) error = %v", err)
	}
	if err := c.MutateVerse("Enoch", 1, 1, "x"); !errors.Is(err, errors.ErrUnknownBook) {
		t.Errorf("MutateVerse(unknown book) error = %v", err)
	}
	if n, _ := c.VerseCount("John", 3); n != 36 {
		t.Errorf("VerseCount changed to %d after failed mutation", n)
	}
}

func TestAddBookValidation(t *testing.T) {
	c := New("KJV", "en")
	if err := c.AddBook("", [][]string{{"x"}}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("empty name error = %v", err)
	}
	if err := c.AddBook("Jude", nil); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("no chapters error = %v", err)
	}
	if err := c.AddBook("Jude", [][]string{{}}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("empty chapter error = %v", err)
	}
	if err := c.AddBook("Jude", [][]string{{"x"}}); err != nil {
		t.Fatalf("AddBook failed: %v", err)
	}
	if err := c.AddBook("Jude", [][]string{{"y"}}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("duplicate error = %v", err)
	}
}

func TestVersesIteratesInCanonicalOrder(t *testing.T) {
	c := newTestCorpus(t)

	var refs []VerseRef
	for ref := range c.Verses() {
		refs = append(refs, ref)
	}
	if len(refs) != c.VerseTotal() {
		t.Fatalf("Verses() yielded %d, VerseTotal() = %d", len(refs), c.VerseTotal())
	}
	if refs[0] != (VerseRef{"Genesis", 1, 1}) {
		t.Errorf("first = %v", refs[0])
	}
	if refs[len(refs)-1] != (VerseRef{"1 John", 1, 1}) {
		t.Errorf("last = %v", refs[len(refs)-1])
	}
	if got := (VerseRef{"1 John", 5, 7}).String(); got != "1 John 5:7" {
		t.Errorf("String() = %q", got)
	}

	// Early break stops the walk.
	n := 0
	for range c.Verses() {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("break after 3, counted %d", n)
	}
}
