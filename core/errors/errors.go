// Package errors provides the error taxonomy shared by the corpus, search and index packages.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal indicates an internal system error
	ErrInternal = errors.New("internal error")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")

	// ErrCorpusLoad indicates a corpus source could not be loaded
	ErrCorpusLoad = errors.New("corpus load failed")
	// ErrUnknownBook indicates a book name absent from the corpus
	ErrUnknownBook = errors.New("unknown book")
	// ErrChapterOutOfRange indicates a chapter number outside 1..chapterCount
	ErrChapterOutOfRange = errors.New("chapter out of range")
	// ErrVerseOutOfRange indicates a verse number outside 1..verseCount
	ErrVerseOutOfRange = errors.New("verse out of range")
	// ErrIndexNotFound indicates no full-text index exists for a language
	ErrIndexNotFound = errors.New("index not found")
	// ErrQuerySyntax indicates malformed query text
	ErrQuerySyntax = errors.New("query syntax error")
)

// CorpusLoadError reports a malformed or missing corpus source.
type CorpusLoadError struct {
	Source  string // Path or description of the source
	Message string // What was wrong with it
	Err     error  // Underlying error, if any
}

func (e *CorpusLoadError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Source != "" {
		return fmt.Sprintf("failed to load corpus %s: %s", e.Source, msg)
	}
	return fmt.Sprintf("failed to load corpus: %s", msg)
}

func (e *CorpusLoadError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrCorpusLoad, e.Err}
	}
	return []error{ErrCorpusLoad}
}

// UnknownBookError is returned when a book name is not in the corpus.
type UnknownBookError struct {
	Book string
}

func (e *UnknownBookError) Error() string {
	return fmt.Sprintf("unknown book: %q", e.Book)
}

func (e *UnknownBookError) Unwrap() []error {
	return []error{ErrUnknownBook, ErrNotFound}
}

// LookupFailure says which coordinate of a reference was out of range.
type LookupFailure int

const (
	// ChapterOutOfRange means the chapter does not exist in the book.
	ChapterOutOfRange LookupFailure = iota + 1
	// VerseOutOfRange means the chapter exists but the verse does not.
	VerseOutOfRange
)

func (f LookupFailure) String() string {
	switch f {
	case ChapterOutOfRange:
		return "chapter out of range"
	case VerseOutOfRange:
		return "verse out of range"
	default:
		return "out of range"
	}
}

// VerseNotFoundError is returned when the book exists but the chapter or
// verse does not. Limit is the highest valid value for the failing coordinate.
type VerseNotFoundError struct {
	Book    string
	Chapter int
	Verse   int
	Reason  LookupFailure
	Limit   int
}

func (e *VerseNotFoundError) Error() string {
	switch e.Reason {
	case ChapterOutOfRange:
		return fmt.Sprintf("%s has %d chapters, no chapter %d", e.Book, e.Limit, e.Chapter)
	case VerseOutOfRange:
		return fmt.Sprintf("%s %d has %d verses, no verse %d", e.Book, e.Chapter, e.Limit, e.Verse)
	}
	return fmt.Sprintf("verse not found: %s %d:%d", e.Book, e.Chapter, e.Verse)
}

func (e *VerseNotFoundError) Unwrap() []error {
	switch e.Reason {
	case ChapterOutOfRange:
		return []error{ErrChapterOutOfRange, ErrNotFound}
	case VerseOutOfRange:
		return []error{ErrVerseOutOfRange, ErrNotFound}
	}
	return []error{ErrNotFound}
}

// IndexNotFoundError is returned when a query targets a language that has
// never been indexed.
type IndexNotFoundError struct {
	Language string
	Path     string
}

func (e *IndexNotFoundError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("no index for language %q at %s; build it first", e.Language, e.Path)
	}
	return fmt.Sprintf("no index for language %q; build it first", e.Language)
}

func (e *IndexNotFoundError) Unwrap() []error {
	return []error{ErrIndexNotFound, ErrNotFound}
}

// QuerySyntaxError reports query text that cannot be turned into a query.
type QuerySyntaxError struct {
	Query   string
	Message string
	Err     error
}

func (e *QuerySyntaxError) Error() string {
	return fmt.Sprintf("invalid query %q: %s", e.Query, e.Message)
}

func (e *QuerySyntaxError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrQuerySyntax, ErrInvalidInput, e.Err}
	}
	return []error{ErrQuerySyntax, ErrInvalidInput}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation (may be redacted)
	Message string // Human-readable error message
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper functions for creating common errors

// NewCorpusLoad creates a CorpusLoadError
func NewCorpusLoad(source, message string, err error) *CorpusLoadError {
	return &CorpusLoadError{Source: source, Message: message, Err: err}
}

// NewUnknownBook creates an UnknownBookError
func NewUnknownBook(book string) *UnknownBookError {
	return &UnknownBookError{Book: book}
}

// NewChapterOutOfRange creates a VerseNotFoundError for a bad chapter
func NewChapterOutOfRange(book string, chapter, verse, chapters int) *VerseNotFoundError {
	return &VerseNotFoundError{Book: book, Chapter: chapter, Verse: verse, Reason: ChapterOutOfRange, Limit: chapters}
}

// NewVerseOutOfRange creates a VerseNotFoundError for a bad verse
func NewVerseOutOfRange(book string, chapter, verse, verses int) *VerseNotFoundError {
	return &VerseNotFoundError{Book: book, Chapter: chapter, Verse: verse, Reason: VerseOutOfRange, Limit: verses}
}

// NewIndexNotFound creates an IndexNotFoundError
func NewIndexNotFound(language, path string) *IndexNotFoundError {
	return &IndexNotFoundError{Language: language, Path: path}
}

// NewQuerySyntax creates a QuerySyntaxError
func NewQuerySyntax(query, message string) *QuerySyntaxError {
	return &QuerySyntaxError{Query: query, Message: message}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
