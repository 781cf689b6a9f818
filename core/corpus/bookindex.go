package corpus

import (
	"strings"

	"github.com/FocuswithJustin/versefinder/core/errors"
)

// OldTestamentBookCount is the number of Old Testament books in the
// Protestant canon. The first OldTestamentBookCount books of a corpus, in
// canonical order, form the Old Testament; the rest form the New Testament.
const OldTestamentBookCount = 39

// Testament identifies one half of the canon.
type Testament int

const (
	OldTestament Testament = iota
	NewTestament
)

// String returns the tag name ("OldTestament" or "NewTestament").
func (t Testament) String() string {
	if t == NewTestament {
		return TagNewTestament
	}
	return TagOldTestament
}

// BookIndex is the metadata derived once from a loaded corpus: canonical
// book order, the OT/NT partition and chapter counts. It is read-only.
type BookIndex struct {
	books    []string
	position map[string]int
	chapters map[string]int
	folded   map[string]string
}

// NewBookIndex derives a BookIndex from c. Changes to the corpus's book list
// after this call are not reflected; reload and rebuild instead.
func NewBookIndex(c *Corpus) *BookIndex {
	bi := &BookIndex{
		books:    c.Books(),
		position: make(map[string]int, c.BookCount()),
		chapters: make(map[string]int, c.BookCount()),
		folded:   make(map[string]string, c.BookCount()),
	}
	for i, name := range bi.books {
		bi.position[name] = i
		bi.chapters[name] = len(c.byName[name].Chapters)
		bi.folded[foldBookName(name)] = name
	}
	return bi
}

// foldBookName lowercases and strips spaces so "1john" finds "1 John".
func foldBookName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ""))
}

// Books returns all book names in canonical order.
func (bi *BookIndex) Books() []string {
	return append([]string(nil), bi.books...)
}

// OldTestament returns the Old Testament books in canonical order.
func (bi *BookIndex) OldTestament() []string {
	n := min(OldTestamentBookCount, len(bi.books))
	return append([]string(nil), bi.books[:n]...)
}

// NewTestament returns the New Testament books in canonical order.
func (bi *BookIndex) NewTestament() []string {
	if len(bi.books) <= OldTestamentBookCount {
		return nil
	}
	return append([]string(nil), bi.books[OldTestamentBookCount:]...)
}

// Contains reports whether book is in the index.
func (bi *BookIndex) Contains(book string) bool {
	_, ok := bi.position[book]
	return ok
}

// Canonical resolves a user-typed book name case- and space-insensitively.
func (bi *BookIndex) Canonical(name string) (string, bool) {
	if bi.Contains(name) {
		return name, true
	}
	canon, ok := bi.folded[foldBookName(name)]
	return canon, ok
}

// ChapterCount returns the chapter count recorded for book.
func (bi *BookIndex) ChapterCount(book string) (int, error) {
	n, ok := bi.chapters[book]
	if !ok {
		return 0, errors.NewUnknownBook(book)
	}
	return n, nil
}

// Testament returns which testament book belongs to.
func (bi *BookIndex) Testament(book string) (Testament, error) {
	pos, ok := bi.position[book]
	if !ok {
		return OldTestament, errors.NewUnknownBook(book)
	}
	if pos < OldTestamentBookCount {
		return OldTestament, nil
	}
	return NewTestament, nil
}

// Resolve returns the books covered by scope in canonical order.
func (bi *BookIndex) Resolve(scope Scope) ([]string, error) {
	switch scope.Kind {
	case ScopeOldTestament:
		return bi.OldTestament(), nil
	case ScopeNewTestament:
		return bi.NewTestament(), nil
	case ScopeBook:
		if !bi.Contains(scope.Book) {
			return nil, errors.NewUnknownBook(scope.Book)
		}
		return []string{scope.Book}, nil
	default:
		return bi.Books(), nil
	}
}

// Equal reports whether two indexes list the same books in the same order.
func (bi *BookIndex) Equal(other *BookIndex) bool {
	if len(bi.books) != len(other.books) {
		return false
	}
	for i := range bi.books {
		if bi.books[i] != other.books[i] {
			return false
		}
	}
	return true
}
