package corpus

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Reference is a possibly partial reference typed by a user: book only,
// book and chapter, or book, chapter and verse. Zero means "not given".
type Reference struct {
	Book    string
	Chapter int
	Verse   int
}

// Ref converts a full reference to a VerseRef.
func (r Reference) Ref() VerseRef {
	return VerseRef{Book: r.Book, Chapter: r.Chapter, Verse: r.Verse}
}

func (r Reference) String() string {
	switch {
	case r.Chapter == 0:
		return r.Book
	case r.Verse == 0:
		return fmt.Sprintf("%s %d", r.Book, r.Chapter)
	default:
		return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.Verse)
	}
}

// referenceGrammar parses "John", "John 3", "John 3:16", "1 John 5:7",
// "Song of Solomon 2.1".
//
//nolint:govet // participle grammar tags are not standard struct tags
type referenceGrammar struct {
	Prefix   string        `@Int?`
	Words    []string      `@Word+`
	Location *locationPart `@@?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type locationPart struct {
	Chapter int  `@Int`
	Verse   *int `( (":" | ".") @Int )?`
}

var referenceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Word", Pattern: `[A-Za-z][A-Za-z']*`},
	{Name: "Punct", Pattern: `[:.]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var referenceParser = participle.MustBuild[referenceGrammar](
	participle.Lexer(referenceLexer),
	participle.Elide("Whitespace"),
)

// ParseReference parses a human-typed reference. The book name is returned as
// typed (words joined by single spaces); resolve it with BookIndex.Canonical.
func ParseReference(s string) (Reference, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Reference{}, fmt.Errorf("empty reference")
	}

	parsed, err := referenceParser.ParseString("", s)
	if err != nil {
		return Reference{}, fmt.Errorf("invalid reference %q: %w", s, err)
	}

	book := strings.Join(parsed.Words, " ")
	if parsed.Prefix != "" {
		book = parsed.Prefix + " " + book
	}
	ref := Reference{Book: book}
	if parsed.Location != nil {
		ref.Chapter = parsed.Location.Chapter
		if parsed.Location.Verse != nil {
			ref.Verse = *parsed.Location.Verse
		}
	}
	return ref, nil
}
