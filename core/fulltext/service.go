package fulltext

import (
	"context"
	"strings"

	"github.com/FocuswithJustin/versefinder/core/cas"
	"github.com/FocuswithJustin/versefinder/core/corpus"
	"github.com/FocuswithJustin/versefinder/core/errors"
)

// Engine is a persisted full-text index, one namespace per language.
//
// Build replaces any existing index for the language. Search never builds;
// it returns an *errors.IndexNotFoundError when nothing was built. A limit
// of zero or less returns every match. Concurrent searches are safe;
// building while searching the same language is not.
type Engine interface {
	Name() string
	Build(ctx context.Context, c *corpus.Corpus, lang string) (BuildStats, error)
	Search(ctx context.Context, lang string, q Query, limit int) ([]IndexDocument, error)
	Exists(lang string) bool
	Manifest(lang string) (BuildStats, error)
}

// Service plans user queries and runs them on an Engine.
type Service struct {
	engine Engine
}

// NewService returns a Service backed by engine.
func NewService(engine Engine) *Service {
	return &Service{engine: engine}
}

// Engine returns the backing engine.
func (s *Service) Engine() Engine { return s.engine }

// Build indexes c under its own language tag.
func (s *Service) Build(ctx context.Context, c *corpus.Corpus) (BuildStats, error) {
	lang := NormalizeLanguage(c.Language)
	if lang == "" {
		return BuildStats{}, errors.NewValidation("language", "corpus has no language tag")
	}
	return s.engine.Build(ctx, c, lang)
}

// Query plans text with the scope tag and searches the index for lang.
func (s *Service) Query(ctx context.Context, lang, text, tag string, limit int) ([]IndexDocument, error) {
	lang = NormalizeLanguage(lang)
	q, err := Plan(text, tag, IsSegmented(lang))
	if err != nil {
		return nil, err
	}
	return s.engine.Search(ctx, lang, q, limit)
}

// Stale reports whether the index for c's language was built from
// different verse text than c holds now. A missing index is an
// *errors.IndexNotFoundError.
func (s *Service) Stale(c *corpus.Corpus) (bool, error) {
	m, err := s.engine.Manifest(NormalizeLanguage(c.Language))
	if err != nil {
		return false, err
	}
	return m.Fingerprint != cas.Fingerprint(c), nil
}

// NormalizeLanguage lowercases a language tag for use as an index
// namespace.
func NormalizeLanguage(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

// ValidNamespace reports whether lang is safe to use as a file name.
func ValidNamespace(lang string) bool {
	if lang == "" || lang == "." || lang == ".." {
		return false
	}
	return !strings.ContainsAny(lang, `/\:`)
}
