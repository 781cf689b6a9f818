// Package ftsidx stores verse indexes in SQLite FTS5 tables, one database
// file per language under a root directory.
//
// Verse text is tokenized with the same analyzer the Bleve engine uses and
// stored space-joined in the content column, so FTS5's unicode61 tokenizer
// only ever sees pre-split, lowercased tokens. The original text is kept in
// an unindexed column.
package ftsidx

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/FocuswithJustin/versefinder/core/corpus"
	"github.com/FocuswithJustin/versefinder/core/errors"
	"github.com/FocuswithJustin/versefinder/core/fulltext"
	"github.com/FocuswithJustin/versefinder/core/sqlite"
)

// Name identifies this engine in config and build stats.
const Name = "fts5"

const schema = `
CREATE VIRTUAL TABLE verses USING fts5(
	id UNINDEXED,
	book UNINDEXED,
	chapter UNINDEXED,
	verse UNINDEXED,
	content,
	tags,
	tagline UNINDEXED,
	text UNINDEXED,
	tokenize = 'unicode61 remove_diacritics 0'
);
CREATE TABLE manifest (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const manifestKey = "build"

const insertVerse = `INSERT INTO verses
	(id, book, chapter, verse, content, tags, tagline, text)
	VALUES (:id, :book, :chapter, :verse, :content, :tags, :tagline, :text)`

// verseRow is one row of the verses table. Content and Tags hold
// space-joined tokens; TagLine and Text keep the document as built.
type verseRow struct {
	ID      string `db:"id"`
	Book    string `db:"book"`
	Chapter int    `db:"chapter"`
	Verse   int    `db:"verse"`
	Content string `db:"content"`
	Tags    string `db:"tags"`
	TagLine string `db:"tagline"`
	Text    string `db:"text"`
}

func (r verseRow) document() fulltext.IndexDocument {
	return fulltext.IndexDocument{
		ID:      r.ID,
		Content: r.Text,
		Tags:    r.TagLine,
		Ref:     corpus.VerseRef{Book: r.Book, Chapter: r.Chapter, Verse: r.Verse},
	}
}

func init() {
	sqlx.BindDriver(sqlite.DriverName(), sqlx.QUESTION)
}

// Engine implements fulltext.Engine on SQLite FTS5.
type Engine struct {
	root string
}

var _ fulltext.Engine = (*Engine)(nil)

// New returns an engine storing index databases under root.
func New(root string) *Engine {
	return &Engine{root: root}
}

// Name returns "fts5".
func (e *Engine) Name() string { return Name }

// Path returns the database file for lang.
func (e *Engine) Path(lang string) string {
	return filepath.Join(e.root, lang+".fts.db")
}

// Exists reports whether an index was built for lang.
func (e *Engine) Exists(lang string) bool {
	if !fulltext.ValidNamespace(lang) {
		return false
	}
	info, err := os.Stat(e.Path(lang))
	return err == nil && info.Mode().IsRegular()
}

// Build indexes every verse of c, replacing any index for lang. The
// database is written to a temporary file and renamed into place.
func (e *Engine) Build(ctx context.Context, c *corpus.Corpus, lang string) (fulltext.BuildStats, error) {
	if err := fulltext.CheckNamespace(lang); err != nil {
		return fulltext.BuildStats{}, err
	}
	start := time.Now()

	analyzer, err := fulltext.NewAnalyzer(lang)
	if err != nil {
		return fulltext.BuildStats{}, err
	}
	if err := os.MkdirAll(e.root, 0755); err != nil {
		return fulltext.BuildStats{}, errors.NewIO("create", e.root, err)
	}

	path := e.Path(lang)
	tmp := path + ".tmp"
	os.Remove(tmp)

	stats := fulltext.NewBuildStats(Name, c, lang, analyzer.Name())
	if err := e.write(ctx, tmp, c, analyzer, &stats, start); err != nil {
		os.Remove(tmp)
		return fulltext.BuildStats{}, err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fulltext.BuildStats{}, errors.NewIO("rename", path, err)
	}
	return stats, nil
}

func (e *Engine) write(ctx context.Context, path string, c *corpus.Corpus, a *fulltext.Analyzer, stats *fulltext.BuildStats, start time.Time) (err error) {
	raw, err := sqlite.Open(path)
	if err != nil {
		return errors.NewIO("open", path, err)
	}
	db := sqlx.NewDb(raw, sqlite.DriverName())
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = errors.NewIO("close", path, cerr)
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	if !sqlite.HasFTS5(ctx, raw) {
		return errors.Wrapf(errors.ErrUnsupported, "sqlite driver %s lacks FTS5", sqlite.DriverType())
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "create schema")
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, insertVerse)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	for doc := range fulltext.Documents(c) {
		_, err := stmt.ExecContext(ctx, verseRow{
			ID:      doc.ID,
			Book:    doc.Ref.Book,
			Chapter: doc.Ref.Chapter,
			Verse:   doc.Ref.Verse,
			Content: strings.Join(a.Tokens(doc.Content), " "),
			Tags:    strings.Join(fulltext.SplitTags(doc.Tags), " "),
			TagLine: doc.Tags,
			Text:    doc.Content,
		})
		if err != nil {
			return errors.Wrapf(err, "index %s", doc.ID)
		}
		stats.Documents++
	}

	stats.Duration = time.Since(start)
	data, err := json.Marshal(stats)
	if err != nil {
		return errors.Wrap(err, "encode manifest")
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO manifest (key, value) VALUES (?, ?)`, manifestKey, string(data)); err != nil {
		return errors.Wrap(err, "write manifest")
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}

func (e *Engine) open(lang string) (*sqlx.DB, error) {
	path := e.Path(lang)
	if !e.Exists(lang) {
		return nil, errors.NewIndexNotFound(lang, path)
	}
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, errors.NewIO("open index", path, err)
	}
	return sqlx.NewDb(db, sqlite.DriverName()), nil
}

// Search runs q against the index for lang, ordered by FTS5 rank and then
// by insertion order.
func (e *Engine) Search(ctx context.Context, lang string, q fulltext.Query, limit int) ([]fulltext.IndexDocument, error) {
	db, err := e.open(lang)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	analyzer, err := fulltext.NewAnalyzer(lang)
	if err != nil {
		return nil, err
	}
	main, filters := fulltext.SplitFilters(q)
	if main == nil {
		return nil, errors.NewQuerySyntax(q.String(), "query has no match clause")
	}
	expr, ok, err := matchExpr(main, analyzer)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []fulltext.IndexDocument{}, nil
	}

	sqlText := `SELECT id, book, chapter, verse, tagline, text FROM verses
		WHERE verses MATCH ? ORDER BY rank, rowid`
	args := []any{expr}
	if limit > 0 && len(filters) == 0 {
		sqlText += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []verseRow
	if err := db.SelectContext(ctx, &rows, sqlText, args...); err != nil {
		return nil, errors.Wrap(err, "search")
	}

	hits := make([]fulltext.IndexDocument, 0, len(rows))
	for _, r := range rows {
		hits = append(hits, r.document())
	}
	return fulltext.Filter(hits, filters, limit), nil
}

// matchExpr renders q as an FTS5 MATCH expression. ok is false when a
// content value analyzes to no tokens, which matches nothing.
func matchExpr(q fulltext.Query, a *fulltext.Analyzer) (string, bool, error) {
	switch n := q.(type) {
	case fulltext.Term:
		if n.Field == fulltext.FieldTags {
			return column(n.Field, []string{n.Value}), true, nil
		}
		tokens := a.Tokens(n.Value)
		return column(n.Field, tokens), len(tokens) > 0, nil
	case fulltext.Phrase:
		tokens := a.Tokens(strings.Join(n.Tokens, " "))
		return column(n.Field, tokens), len(tokens) > 0, nil
	case fulltext.And:
		parts := make([]string, 0, len(n.Queries))
		for _, sub := range n.Queries {
			expr, ok, err := matchExpr(sub, a)
			if err != nil || !ok {
				return "", ok, err
			}
			parts = append(parts, "("+expr+")")
		}
		return strings.Join(parts, " AND "), true, nil
	default:
		return "", false, errors.Wrapf(errors.ErrUnsupported, "query node %T", q)
	}
}

// column renders tokens as a quoted FTS5 phrase restricted to one column.
func column(field string, tokens []string) string {
	quoted := strings.ReplaceAll(strings.Join(tokens, " "), `"`, `""`)
	return field + ` : "` + quoted + `"`
}

// Manifest returns the stats recorded when the index for lang was built.
func (e *Engine) Manifest(lang string) (fulltext.BuildStats, error) {
	db, err := e.open(lang)
	if err != nil {
		return fulltext.BuildStats{}, err
	}
	defer db.Close()

	var data string
	err = db.Get(&data, `SELECT value FROM manifest WHERE key = ?`, manifestKey)
	if err == sql.ErrNoRows {
		return fulltext.BuildStats{}, errors.NewIndexNotFound(lang, e.Path(lang))
	}
	if err != nil {
		return fulltext.BuildStats{}, errors.Wrap(err, "read manifest")
	}
	var stats fulltext.BuildStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return fulltext.BuildStats{}, errors.Wrap(err, "decode manifest")
	}
	return stats, nil
}
