package corpus

import "strings"

// Tags shared by scope resolution and the full-text index.
const (
	TagAllBooks     = "AllBooks"
	TagOldTestament = "OldTestament"
	TagNewTestament = "NewTestament"
)

// ScopeKind selects which books a search covers.
type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopeOldTestament
	ScopeNewTestament
	ScopeBook
)

// Scope is one of AllBooks, OldTestament, NewTestament or SingleBook(name).
type Scope struct {
	Kind ScopeKind
	Book string // only for ScopeBook
}

var (
	AllBooksScope     = Scope{Kind: ScopeAll}
	OldTestamentScope = Scope{Kind: ScopeOldTestament}
	NewTestamentScope = Scope{Kind: ScopeNewTestament}
)

// SingleBook scopes a search to one book.
func SingleBook(name string) Scope {
	return Scope{Kind: ScopeBook, Book: name}
}

// ParseScope accepts the menu letters o/n/a, the tag names, or a book name.
// An empty string means all books.
func ParseScope(s string) Scope {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a", "all", "allbooks":
		return AllBooksScope
	case "o", "ot", "old", "oldtestament":
		return OldTestamentScope
	case "n", "nt", "new", "newtestament":
		return NewTestamentScope
	}
	return SingleBook(strings.TrimSpace(s))
}

// Tag returns the full-text index tag for the scope.
func (s Scope) Tag() string {
	switch s.Kind {
	case ScopeOldTestament:
		return TagOldTestament
	case ScopeNewTestament:
		return TagNewTestament
	case ScopeBook:
		return CompactName(s.Book)
	default:
		return TagAllBooks
	}
}

func (s Scope) String() string {
	switch s.Kind {
	case ScopeOldTestament:
		return "Old Testament"
	case ScopeNewTestament:
		return "New Testament"
	case ScopeBook:
		return s.Book
	default:
		return "All books"
	}
}

// CompactName strips spaces from a book name ("1 John" -> "1John").
func CompactName(book string) string {
	return strings.ReplaceAll(book, " ", "")
}
