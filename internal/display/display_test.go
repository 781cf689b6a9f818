package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/FocuswithJustin/versefinder/core/corpus"
	"github.com/FocuswithJustin/versefinder/core/errors"
	"github.com/FocuswithJustin/versefinder/core/fulltext"
	"github.com/FocuswithJustin/versefinder/core/pager"
)

// testLibrary has two books. CUV lacks John 1:3 and has a third chapter of
// Jude that KJV does not.
func testLibrary(t *testing.T) *corpus.Library {
	t.Helper()
	kjv := corpus.New("KJV", "en")
	cuv := corpus.New("CUV", "zh-TW")
	add := func(c *corpus.Corpus, book string, chapters [][]string) {
		if err := c.AddBook(book, chapters); err != nil {
			t.Fatal(err)
		}
	}
	add(kjv, "John", [][]string{
		{"In the beginning was the Word", "The same was in the beginning with God.", "All things were made by him"},
		{"And the third day there was a marriage"},
	})
	add(kjv, "Jude", [][]string{{"Jude, the servant of Jesus Christ"}})
	add(cuv, "John", [][]string{
		{"太初有道", "這道太初與神同在。"},
		{"第三日，在加利利的迦拿有娶親的筵席"},
	})
	add(cuv, "Jude", [][]string{{"耶穌基督的僕人猶大"}, {"額外"}})

	lib, _, err := corpus.NewLibrary(kjv, cuv)
	if err != nil {
		t.Fatal(err)
	}
	return lib
}

func TestVerse(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, testLibrary(t))

	if err := r.Verse(corpus.VerseRef{Book: "John", Chapter: 1, Verse: 2}); err != nil {
		t.Fatal(err)
	}
	want := "John 1:2\n  [KJV] The same was in the beginning with God.\n  [CUV] 這道太初與神同在。\n"
	if buf.String() != want {
		t.Errorf("Verse() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestVerseMissingFromSecondary(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, testLibrary(t))

	if err := r.Verse(corpus.VerseRef{Book: "John", Chapter: 1, Verse: 3}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "[CUV] "+Missing) {
		t.Errorf("placeholder missing:\n%s", buf.String())
	}
}

func TestVerseMissingFromPrimary(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, testLibrary(t))

	err := r.Verse(corpus.VerseRef{Book: "John", Chapter: 1, Verse: 9})
	if !errors.Is(err, errors.ErrVerseOutOfRange) {
		t.Errorf("Verse() error = %v, want verse out of range", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written on error, got %q", buf.String())
	}
	err = r.Verse(corpus.VerseRef{Book: "Acts", Chapter: 1, Verse: 1})
	if !errors.Is(err, errors.ErrUnknownBook) {
		t.Errorf("Verse() error = %v, want unknown book", err)
	}
}

func TestChapter(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, testLibrary(t))

	if err := r.Chapter("John", 1); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "John 1\n1\n") {
		t.Errorf("Chapter() header = %q", out)
	}
	if got := strings.Count(out, "[KJV]"); got != 3 {
		t.Errorf("KJV lines = %d, want 3", got)
	}
	if got := strings.Count(out, Missing); got != 1 {
		t.Errorf("placeholders = %d, want 1", got)
	}

	if err := r.Chapter("John", 7); !errors.Is(err, errors.ErrChapterOutOfRange) {
		t.Errorf("Chapter(7) error = %v", err)
	}
}

func TestBookIncludesSecondaryOnlyChapters(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, testLibrary(t))

	if err := r.Book("Jude"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Jude 2\n1\n  [KJV] "+Missing+"\n  [CUV] 額外\n") {
		t.Errorf("Book() output:\n%s", out)
	}
	if err := r.Book("Acts"); !errors.Is(err, errors.ErrUnknownBook) {
		t.Errorf("Book(Acts) error = %v", err)
	}
}

func TestBooks(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, testLibrary(t)).Books()
	out := buf.String()
	if !strings.Contains(out, "Old Testament (2 books)") || !strings.Contains(out, "New Testament (0 books)") {
		t.Errorf("Books() output:\n%s", out)
	}
	if !strings.Contains(out, "John") || !strings.Contains(out, "Jude") {
		t.Errorf("Books() output:\n%s", out)
	}
}

func TestSearchPage(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, testLibrary(t))

	refs := []corpus.VerseRef{
		{Book: "John", Chapter: 1, Verse: 1},
		{Book: "John", Chapter: 1, Verse: 2},
		{Book: "John", Chapter: 1, Verse: 3},
	}
	p, err := pager.FromSlice(refs, 2)
	if err != nil {
		t.Fatal(err)
	}

	page, _ := p.Next()
	r.SearchPage(page, p.Total())
	if !strings.HasPrefix(buf.String(), "Page 1: matches 1-2 of 3\n") || strings.Contains(buf.String(), "end of results") {
		t.Errorf("first page:\n%s", buf.String())
	}

	buf.Reset()
	page, _ = p.Next()
	r.SearchPage(page, -1)
	out := buf.String()
	if !strings.HasPrefix(out, "Page 2: matches 3-3\n") || !strings.HasSuffix(out, "-- end of results --\n") {
		t.Errorf("last page:\n%s", out)
	}
}

func TestHits(t *testing.T) {
	var buf bytes.Buffer
	lib := testLibrary(t)
	r := New(&buf, lib)

	docs := []fulltext.IndexDocument{{
		ID:      "John 1:3",
		Content: "All things were made by him",
		Ref:     corpus.VerseRef{Book: "John", Chapter: 1, Verse: 3},
	}}
	p, err := pager.FromSlice(docs, 10)
	if err != nil {
		t.Fatal(err)
	}
	page, _ := p.Next()
	r.Hits(page, p.Total(), lib.Primary)

	want := "Page 1: matches 1-1 of 1\nJohn 1:3\n  [KJV] All things were made by him\n  [CUV] " + Missing + "\n-- end of results --\n"
	if buf.String() != want {
		t.Errorf("Hits() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestNoMatches(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, testLibrary(t)).NoMatches("grace", corpus.NewTestamentScope)
	if got := buf.String(); got != "No matches for \"grace\" in New Testament.\n" {
		t.Errorf("NoMatches() = %q", got)
	}
}
