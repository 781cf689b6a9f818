package fulltext

import (
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/cjk"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"

	"github.com/FocuswithJustin/versefinder/core/errors"
)

// Analyzer names.
const (
	// AnalyzerLatin splits on Unicode word boundaries and lowercases.
	// No stop words are removed, so phrases like "the world" stay intact.
	AnalyzerLatin = "verse_latin"
	// AnalyzerSegmented emits every CJK ideograph followed by the bigram it
	// starts, so single characters and longer words are both searchable.
	AnalyzerSegmented = "verse_cjk"
)

const (
	// filterUnigramBigram is cjk_bigram with unigram output enabled.
	filterUnigramBigram = "verse_cjk_bigram"
	// FilterSequential renumbers token positions in stream order.
	FilterSequential = "verse_sequential"
)

// sequentialFilter gives each token its own position. cjk_bigram puts a
// unigram and its bigram at the same position; renumbered, the analyzed
// stream of a substring is a contiguous run of the stream of the text, so
// phrase queries over the token list behave the same in Bleve and FTS5.
type sequentialFilter struct{}

func (sequentialFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	for i, tok := range input {
		tok.Position = i + 1
	}
	return input
}

func init() {
	err := registry.RegisterTokenFilter(FilterSequential,
		func(map[string]interface{}, *registry.Cache) (analysis.TokenFilter, error) {
			return sequentialFilter{}, nil
		})
	if err != nil {
		panic(err)
	}
}

// FieldTagLine stores the joined tag string for retrieval; FieldTags holds
// the individual tags for matching.
const FieldTagLine = "tagline"

var segmentedLanguages = map[string]bool{
	"zh":  true,
	"ja":  true,
	"ko":  true,
	"cmn": true,
	"yue": true,
	"lzh": true,
}

// IsSegmented reports whether text in lang is written without spaces
// between words and needs a segmenting analyzer. lang is a BCP 47 tag;
// only the primary subtag is considered.
func IsSegmented(lang string) bool {
	primary, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(lang)), "-")
	primary, _, _ = strings.Cut(primary, "_")
	return segmentedLanguages[primary]
}

// AnalyzerFor returns the content analyzer name for lang.
func AnalyzerFor(lang string) string {
	if IsSegmented(lang) {
		return AnalyzerSegmented
	}
	return AnalyzerLatin
}

// NewIndexMapping returns the Bleve mapping for a verse index in lang.
//
// content is analyzed with the language analyzer and keeps term vectors
// for phrase matching. tags is indexed per tag with the keyword analyzer.
// The remaining fields are stored only.
func NewIndexMapping(lang string) (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()
	err := im.AddCustomAnalyzer(AnalyzerLatin, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, errors.Wrap(err, "register latin analyzer")
	}
	err = im.AddCustomTokenFilter(filterUnigramBigram, map[string]interface{}{
		"type":           cjk.BigramName,
		"output_unigram": true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "register cjk bigram filter")
	}
	err = im.AddCustomAnalyzer(AnalyzerSegmented, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{cjk.WidthName, lowercase.Name, filterUnigramBigram, FilterSequential},
	})
	if err != nil {
		return nil, errors.Wrap(err, "register cjk analyzer")
	}
	name := AnalyzerFor(lang)

	content := bleve.NewTextFieldMapping()
	content.Analyzer = name
	content.IncludeInAll = false

	tags := bleve.NewTextFieldMapping()
	tags.Analyzer = keyword.Name
	tags.IncludeTermVectors = false
	tags.IncludeInAll = false

	stored := func() *mapping.FieldMapping {
		f := bleve.NewTextFieldMapping()
		f.Index = false
		f.Store = true
		f.IncludeTermVectors = false
		f.IncludeInAll = false
		f.DocValues = false
		return f
	}
	number := func() *mapping.FieldMapping {
		f := bleve.NewNumericFieldMapping()
		f.Index = false
		f.Store = true
		f.IncludeInAll = false
		f.DocValues = false
		return f
	}

	doc := bleve.NewDocumentStaticMapping()
	doc.AddFieldMappingsAt(FieldContent, content)
	doc.AddFieldMappingsAt(FieldTags, tags)
	doc.AddFieldMappingsAt(FieldTagLine, stored())
	doc.AddFieldMappingsAt(FieldText, stored())
	doc.AddFieldMappingsAt(FieldBook, stored())
	doc.AddFieldMappingsAt(FieldChapter, number())
	doc.AddFieldMappingsAt(FieldVerse, number())

	im.DefaultMapping = doc
	im.DefaultAnalyzer = name
	im.StoreDynamic = false
	im.IndexDynamic = false
	im.DocValuesDynamic = false
	return im, nil
}

// Analyzer tokenizes text the same way the content field is indexed.
type Analyzer struct {
	name     string
	analyzer analysis.Analyzer
}

// NewAnalyzer returns the content analyzer for lang.
func NewAnalyzer(lang string) (*Analyzer, error) {
	im, err := NewIndexMapping(lang)
	if err != nil {
		return nil, err
	}
	name := AnalyzerFor(lang)
	a := im.AnalyzerNamed(name)
	if a == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "analyzer %s unavailable", name)
	}
	return &Analyzer{name: name, analyzer: a}, nil
}

// Name returns the analyzer name recorded in build stats.
func (a *Analyzer) Name() string { return a.name }

// Tokens returns the analyzed terms of text in position order.
func (a *Analyzer) Tokens(text string) []string {
	stream := a.analyzer.Analyze([]byte(text))
	out := make([]string, 0, len(stream))
	for _, tok := range stream {
		out = append(out, string(tok.Term))
	}
	return out
}
