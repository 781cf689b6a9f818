// Package bleveidx stores verse indexes with Bleve, one index directory per
// language under a root directory.
package bleveidx

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/FocuswithJustin/versefinder/core/corpus"
	"github.com/FocuswithJustin/versefinder/core/errors"
	"github.com/FocuswithJustin/versefinder/core/fulltext"
)

// Name identifies this engine in config and build stats.
const Name = "bleve"

const (
	batchSize   = 1000
	manifestKey = "versefinder.manifest"
	metaFile    = "index_meta.json"
)

// Engine implements fulltext.Engine on Bleve.
type Engine struct {
	root string
}

var _ fulltext.Engine = (*Engine)(nil)

// New returns an engine storing indexes under root.
func New(root string) *Engine {
	return &Engine{root: root}
}

// Name returns "bleve".
func (e *Engine) Name() string { return Name }

// Path returns the index directory for lang.
func (e *Engine) Path(lang string) string {
	return filepath.Join(e.root, lang+".bleve")
}

// Exists reports whether an index was built for lang.
func (e *Engine) Exists(lang string) bool {
	if !fulltext.ValidNamespace(lang) {
		return false
	}
	_, err := os.Stat(filepath.Join(e.Path(lang), metaFile))
	return err == nil
}

// Build indexes every verse of c, replacing any index for lang.
func (e *Engine) Build(ctx context.Context, c *corpus.Corpus, lang string) (stats fulltext.BuildStats, err error) {
	if err := fulltext.CheckNamespace(lang); err != nil {
		return fulltext.BuildStats{}, err
	}
	start := time.Now()

	im, err := fulltext.NewIndexMapping(lang)
	if err != nil {
		return fulltext.BuildStats{}, err
	}
	path := e.Path(lang)
	if err := os.MkdirAll(e.root, 0755); err != nil {
		return fulltext.BuildStats{}, errors.NewIO("create", e.root, err)
	}
	if err := os.RemoveAll(path); err != nil {
		return fulltext.BuildStats{}, errors.NewIO("remove", path, err)
	}

	idx, err := bleve.New(path, im)
	if err != nil {
		return fulltext.BuildStats{}, errors.NewIO("create index", path, err)
	}
	defer func() {
		if cerr := idx.Close(); cerr != nil && err == nil {
			err = errors.NewIO("close index", path, cerr)
		}
		if err != nil {
			os.RemoveAll(path)
		}
	}()

	stats = fulltext.NewBuildStats(Name, c, lang, fulltext.AnalyzerFor(lang))
	batch := idx.NewBatch()
	for doc := range fulltext.Documents(c) {
		if err := batch.Index(doc.ID, record(doc)); err != nil {
			return fulltext.BuildStats{}, errors.Wrapf(err, "index %s", doc.ID)
		}
		stats.Documents++
		if batch.Size() >= batchSize {
			if err := ctx.Err(); err != nil {
				return fulltext.BuildStats{}, err
			}
			if err := idx.Batch(batch); err != nil {
				return fulltext.BuildStats{}, errors.Wrap(err, "write batch")
			}
			batch.Reset()
		}
	}
	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			return fulltext.BuildStats{}, errors.Wrap(err, "write batch")
		}
	}

	stats.Duration = time.Since(start)
	data, err := json.Marshal(stats)
	if err != nil {
		return fulltext.BuildStats{}, errors.Wrap(err, "encode manifest")
	}
	if err := idx.SetInternal([]byte(manifestKey), data); err != nil {
		return fulltext.BuildStats{}, errors.Wrap(err, "write manifest")
	}
	return stats, nil
}

func record(doc fulltext.IndexDocument) map[string]interface{} {
	return map[string]interface{}{
		fulltext.FieldContent: doc.Content,
		fulltext.FieldTags:    fulltext.SplitTags(doc.Tags),
		fulltext.FieldTagLine: doc.Tags,
		fulltext.FieldText:    doc.Content,
		fulltext.FieldBook:    doc.Ref.Book,
		fulltext.FieldChapter: doc.Ref.Chapter,
		fulltext.FieldVerse:   doc.Ref.Verse,
	}
}

func (e *Engine) open(lang string) (bleve.Index, error) {
	path := e.Path(lang)
	if !e.Exists(lang) {
		return nil, errors.NewIndexNotFound(lang, path)
	}
	idx, err := bleve.OpenUsing(path, map[string]interface{}{"read_only": true})
	if err != nil {
		return nil, errors.NewIO("open index", path, err)
	}
	return idx, nil
}

// Search runs q against the index for lang. Hits come back in Bleve's
// score order; ties are broken by document id.
func (e *Engine) Search(ctx context.Context, lang string, q fulltext.Query, limit int) ([]fulltext.IndexDocument, error) {
	idx, err := e.open(lang)
	if err != nil {
		return nil, err
	}
	defer idx.Close()

	analyzer, err := fulltext.NewAnalyzer(lang)
	if err != nil {
		return nil, err
	}
	main, filters := fulltext.SplitFilters(q)
	if main == nil {
		return nil, errors.NewQuerySyntax(q.String(), "query has no match clause")
	}
	bq, err := translate(main, analyzer)
	if err != nil {
		return nil, err
	}

	size := limit
	if limit <= 0 || len(filters) > 0 {
		n, err := idx.DocCount()
		if err != nil {
			return nil, errors.Wrap(err, "count documents")
		}
		size = int(n)
	}
	if size == 0 {
		return []fulltext.IndexDocument{}, nil
	}

	req := bleve.NewSearchRequestOptions(bq, size, 0, false)
	req.Fields = []string{fulltext.FieldText, fulltext.FieldTagLine, fulltext.FieldBook, fulltext.FieldChapter, fulltext.FieldVerse}
	req.SortBy([]string{"-_score", "_id"})

	res, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "search")
	}
	hits := make([]fulltext.IndexDocument, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, fromHit(h))
	}
	return fulltext.Filter(hits, filters, limit), nil
}

func fromHit(h *search.DocumentMatch) fulltext.IndexDocument {
	str := func(name string) string {
		s, _ := h.Fields[name].(string)
		return s
	}
	num := func(name string) int {
		f, _ := h.Fields[name].(float64)
		return int(f)
	}
	return fulltext.IndexDocument{
		ID:      h.ID,
		Content: str(fulltext.FieldText),
		Tags:    str(fulltext.FieldTagLine),
		Ref: corpus.VerseRef{
			Book:    str(fulltext.FieldBook),
			Chapter: num(fulltext.FieldChapter),
			Verse:   num(fulltext.FieldVerse),
		},
	}
}

// translate maps the query AST onto Bleve queries. Content values go
// through the index analyzer; a value that analyzes to several tokens
// (CJK bigrams, "don't") becomes a phrase.
func translate(q fulltext.Query, a *fulltext.Analyzer) (query.Query, error) {
	switch n := q.(type) {
	case fulltext.Term:
		if n.Field == fulltext.FieldTags {
			tq := bleve.NewTermQuery(n.Value)
			tq.SetField(fulltext.FieldTags)
			return tq, nil
		}
		return analyzed(n.Field, a.Tokens(n.Value)), nil
	case fulltext.Phrase:
		return analyzed(n.Field, a.Tokens(strings.Join(n.Tokens, " "))), nil
	case fulltext.And:
		subs := make([]query.Query, 0, len(n.Queries))
		for _, sub := range n.Queries {
			bq, err := translate(sub, a)
			if err != nil {
				return nil, err
			}
			subs = append(subs, bq)
		}
		return bleve.NewConjunctionQuery(subs...), nil
	default:
		return nil, errors.Wrapf(errors.ErrUnsupported, "query node %T", q)
	}
}

func analyzed(field string, tokens []string) query.Query {
	switch len(tokens) {
	case 0:
		return bleve.NewMatchNoneQuery()
	case 1:
		tq := bleve.NewTermQuery(tokens[0])
		tq.SetField(field)
		return tq
	default:
		return bleve.NewPhraseQuery(tokens, field)
	}
}

// Manifest returns the stats recorded when the index for lang was built.
func (e *Engine) Manifest(lang string) (fulltext.BuildStats, error) {
	idx, err := e.open(lang)
	if err != nil {
		return fulltext.BuildStats{}, err
	}
	defer idx.Close()

	data, err := idx.GetInternal([]byte(manifestKey))
	if err != nil {
		return fulltext.BuildStats{}, errors.Wrap(err, "read manifest")
	}
	if data == nil {
		return fulltext.BuildStats{}, errors.NewIndexNotFound(lang, e.Path(lang))
	}
	var stats fulltext.BuildStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return fulltext.BuildStats{}, errors.Wrap(err, "decode manifest")
	}
	return stats, nil
}
