// Command bible looks up and searches verses in two parallel translations.
// It provides commands for reading, exact scan search, full-text indexed
// search and manual verse correction.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/versefinder/core/corpus"
	"github.com/FocuswithJustin/versefinder/core/errors"
	"github.com/FocuswithJustin/versefinder/core/fulltext"
	"github.com/FocuswithJustin/versefinder/core/fulltext/ftsidx"
	"github.com/FocuswithJustin/versefinder/core/pager"
	"github.com/FocuswithJustin/versefinder/core/search"
	"github.com/FocuswithJustin/versefinder/core/sqlite"
	"github.com/FocuswithJustin/versefinder/internal/logging"
	"github.com/FocuswithJustin/versefinder/internal/validation"
)

const version = "0.4.0"

// CLI defines the command-line interface for bible.
var CLI struct {
	Globals

	Books   BooksCmd   `cmd:"" help:"List the Old and New Testament books"`
	Show    ShowCmd    `cmd:"" help:"Show a verse, chapter or book in every translation"`
	Random  RandomCmd  `cmd:"" help:"Show a random verse"`
	Search  SearchCmd  `cmd:"" help:"Scan every verse for a pattern"`
	Index   IndexGroup `cmd:"" help:"Full-text index operations"`
	Query   QueryCmd   `cmd:"" help:"Search the full-text index"`
	Fix     FixCmd     `cmd:"" help:"Correct the text of one verse and save a snapshot"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// IndexGroup contains full-text index operations.
type IndexGroup struct {
	Build IndexBuildCmd `cmd:"" help:"Build (or rebuild) the full-text index of each translation"`
	Info  IndexInfoCmd  `cmd:"" help:"Show what each index was built from"`
}

// BooksCmd lists the books.
type BooksCmd struct{}

func (c *BooksCmd) Run(g *Globals) error {
	a, err := g.load()
	if err != nil {
		return err
	}
	a.view.Books()
	return nil
}

// ShowCmd displays a reference. An invalid book, chapter or verse falls
// back to a random verse.
type ShowCmd struct {
	Ref string `arg:"" help:"Reference such as 'John', 'John 3' or 'John 3:16'"`
}

func (c *ShowCmd) Run(g *Globals) error {
	a, err := g.load()
	if err != nil {
		return err
	}
	return a.show(c.Ref)
}

func (a *app) show(input string) error {
	ref, err := corpus.ParseReference(input)
	if err != nil {
		return a.fallback(err, "")
	}
	book, ok := a.lib.Index.Canonical(ref.Book)
	if !ok {
		return a.fallback(errors.NewUnknownBook(ref.Book), "")
	}
	ref.Book = book

	switch {
	case ref.Chapter == 0:
		err = a.view.Book(book)
	case ref.Verse == 0:
		err = a.view.Chapter(book, ref.Chapter)
	default:
		err = a.view.Verse(ref.Ref())
	}
	if err != nil {
		return a.fallback(err, book)
	}
	return nil
}

// fallback explains why input was rejected and shows a random verse,
// drawn from book when the book itself was valid.
func (a *app) fallback(reason error, book string) error {
	fmt.Fprintf(a.errOut, "%v; showing a random verse instead\n", reason)
	return a.random(book)
}

func (a *app) random(book string) error {
	ref, _, err := corpus.RandomVerse(a.lib.Primary, a.rng, book)
	if err != nil {
		return err
	}
	return a.view.Verse(ref)
}

// RandomCmd shows a random verse.
type RandomCmd struct {
	Book string `arg:"" optional:"" help:"Draw from this book only"`
}

func (c *RandomCmd) Run(g *Globals) error {
	a, err := g.load()
	if err != nil {
		return err
	}
	book := ""
	if c.Book != "" {
		var ok bool
		if book, ok = a.lib.Index.Canonical(c.Book); !ok {
			a.report("random", c.Book, errors.NewUnknownBook(c.Book))
			return nil
		}
	}
	return a.random(book)
}

// SearchCmd runs the exact scan search.
type SearchCmd struct {
	Keyword     string `arg:"" help:"Case-insensitive regular expression"`
	Scope       string `short:"s" help:"o (Old Testament), n (New Testament), a (all) or a book name" default:"a"`
	Translation string `short:"t" help:"Translation name or language to search (default: primary)"`
	Page        int    `short:"p" help:"Print only this page"`
}

func (c *SearchCmd) Run(g *Globals) error {
	a, err := g.load()
	if err != nil {
		return err
	}
	c.run(a)
	return nil
}

func (c *SearchCmd) run(a *app) {
	scope, err := a.scope(c.Scope)
	if err != nil {
		a.report("scan", c.Keyword, err)
		return
	}
	tr, err := a.translation(c.Translation)
	if err != nil {
		a.report("scan", c.Keyword, err)
		return
	}

	start := time.Now()
	results, err := search.Search(tr, a.lib.Index, scope, c.Keyword)
	if err != nil {
		a.report("scan", c.Keyword, err)
		return
	}
	refs := search.Flatten(results)
	logging.QueryRun(a.ctx, "scan", tr.Language, c.Keyword, scope.String(), len(refs), time.Since(start),
		"chapters", len(results))

	if len(refs) == 0 {
		a.view.NoMatches(c.Keyword, scope)
		return
	}
	p, err := pager.FromSlice(refs, a.cfg.PageSize)
	if err != nil {
		a.report("scan", c.Keyword, err)
		return
	}
	printPages(a, p, c.Page, func(page pager.Page[corpus.VerseRef]) {
		a.view.SearchPage(page, p.Total())
	})
}

// printPages renders every page, or only page number only when it is set.
func printPages[T any](a *app, p *pager.Pager[T], only int, render func(pager.Page[T])) {
	defer p.Stop()
	if only < 0 || (only > 0 && p.Pages() >= 0 && only > p.Pages()) {
		fmt.Fprintf(a.errOut, "Error: page %d does not exist (%d pages)\n", only, p.Pages())
		return
	}
	for page := range p.All() {
		if only > 0 && page.Number != only {
			continue
		}
		render(page)
		if only > 0 {
			return
		}
		if !page.Last {
			fmt.Fprintln(a.out)
		}
	}
}

// IndexBuildCmd builds the full-text indexes.
type IndexBuildCmd struct {
	Translation string `short:"t" help:"Only index this translation (name or language)"`
}

func (c *IndexBuildCmd) Run(g *Globals) error {
	a, err := g.load()
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}

	corpora := a.lib.Translations()
	if c.Translation != "" {
		tr, err := a.translation(c.Translation)
		if err != nil {
			return err
		}
		corpora = []*corpus.Corpus{tr}
	}

	for _, tr := range corpora {
		stats, err := svc.Build(a.ctx, tr)
		if err != nil {
			return fmt.Errorf("indexing %s: %w", tr.Translation, err)
		}
		logging.IndexBuilt(a.ctx, stats.Engine, stats.Language, stats.BuildID, stats.Documents, stats.Duration,
			"analyzer", stats.Analyzer)
		fmt.Fprintf(a.out, "Indexed %d verses of %s (%s) with %s in %s\n",
			stats.Documents, tr.Translation, stats.Language, stats.Engine, stats.Duration.Round(time.Millisecond))
	}
	return nil
}

// IndexInfoCmd prints each index manifest.
type IndexInfoCmd struct{}

func (c *IndexInfoCmd) Run(g *Globals) error {
	a, err := g.load()
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Engine: %s", svc.Engine().Name())
	if svc.Engine().Name() == ftsidx.Name {
		fmt.Fprintf(a.out, " (sqlite driver %s, %s)", sqlite.DriverName(), sqlite.DriverType())
	}
	fmt.Fprintln(a.out)

	for _, tr := range a.lib.Translations() {
		lang := fulltext.NormalizeLanguage(tr.Language)
		m, err := svc.Engine().Manifest(lang)
		if err != nil {
			fmt.Fprintf(a.out, "%-10s %-8s %v\n", tr.Translation, lang, err)
			continue
		}
		state := "current"
		if stale, err := svc.Stale(tr); err == nil && stale {
			state = "stale"
		}
		fmt.Fprintf(a.out, "%-10s %-8s %d verses, analyzer %s, built %s, %s\n",
			tr.Translation, lang, m.Documents, m.Analyzer, m.BuiltAt.Format(time.RFC3339), state)
		fmt.Fprintf(a.out, "%-19s build %s, fingerprint %s\n", "", m.BuildID, m.Fingerprint)
	}
	return nil
}

// QueryCmd searches the full-text index of one translation.
type QueryCmd struct {
	Text        string `arg:"" help:"Words to find; quote a phrase"`
	Scope       string `short:"s" help:"o (Old Testament), n (New Testament), a (all) or a book name" default:"a"`
	Translation string `short:"t" help:"Translation name or language to search (default: primary)"`
	Limit       int    `short:"l" help:"Stop after this many hits (0 for all)"`
	Page        int    `short:"p" help:"Print only this page"`
}

func (c *QueryCmd) Run(g *Globals) error {
	a, err := g.load()
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}
	c.run(a, svc)
	return nil
}

func (c *QueryCmd) run(a *app, svc *fulltext.Service) {
	mode := svc.Engine().Name()
	scope, err := a.scope(c.Scope)
	if err != nil {
		a.report(mode, c.Text, err)
		return
	}
	tr, err := a.translation(c.Translation)
	if err != nil {
		a.report(mode, c.Text, err)
		return
	}

	if stale, err := svc.Stale(tr); err == nil && stale {
		fmt.Fprintf(a.errOut, "Warning: the %s index was built from different text; run 'bible index build'\n", tr.Translation)
	}

	start := time.Now()
	docs, err := svc.Query(a.ctx, tr.Language, c.Text, scope.Tag(), c.Limit)
	if err != nil {
		if errors.Is(err, errors.ErrIndexNotFound) {
			err = fmt.Errorf("%w with 'bible index build'", err)
		}
		a.report(mode, c.Text, err)
		return
	}
	logging.QueryRun(a.ctx, mode, tr.Language, c.Text, scope.String(), len(docs), time.Since(start))

	if len(docs) == 0 {
		a.view.NoMatches(c.Text, scope)
		return
	}
	p, err := pager.FromSlice(docs, a.cfg.PageSize)
	if err != nil {
		a.report(mode, c.Text, err)
		return
	}
	printPages(a, p, c.Page, func(page pager.Page[fulltext.IndexDocument]) {
		a.view.Hits(page, p.Total(), tr)
	})
}

// FixCmd replaces the text of one verse and persists the translation as a
// snapshot.
type FixCmd struct {
	Ref         string `arg:"" help:"Full reference such as 'John 3:16'"`
	Text        string `arg:"" help:"Corrected verse text"`
	Translation string `short:"t" help:"Translation name or language to correct (default: primary)"`
	Out         string `short:"o" help:"Snapshot file to write (default: the source, when it is a snapshot)" type:"path"`
}

func (c *FixCmd) Run(g *Globals) error {
	a, err := g.load()
	if err != nil {
		return err
	}
	return c.run(a)
}

func (c *FixCmd) run(a *app) error {
	if err := validation.ValidateVerseText(c.Text); err != nil {
		return errors.NewValidation("text", err.Error())
	}
	ref, err := corpus.ParseReference(c.Ref)
	if err != nil {
		return err
	}
	if ref.Chapter == 0 || ref.Verse == 0 {
		return errors.NewValidation("ref", fmt.Sprintf("%q does not name a single verse", c.Ref))
	}
	book, ok := a.lib.Index.Canonical(ref.Book)
	if !ok {
		return errors.NewUnknownBook(ref.Book)
	}
	ref.Book = book

	tr, err := a.translation(c.Translation)
	if err != nil {
		return err
	}
	out, err := a.snapshotPath(tr, c.Out)
	if err != nil {
		return err
	}

	old, err := tr.VerseText(ref.Book, ref.Chapter, ref.Verse)
	if err != nil {
		return err
	}
	if err := tr.MutateVerse(ref.Book, ref.Chapter, ref.Verse, c.Text); err != nil {
		return err
	}
	if err := corpus.SaveSnapshot(out, tr); err != nil {
		return err
	}
	logging.VerseCorrected(a.ctx, tr.Translation, ref.String(), "path", out)

	fmt.Fprintf(a.out, "Corrected %s in %s\n  was: %s\n  now: %s\nSaved %s\n", ref, tr.Translation, old, c.Text, out)
	fmt.Fprintln(a.out, "Run 'bible index build' to refresh the full-text index.")
	return nil
}

// snapshotPath picks where a corrected translation is written.
func (a *app) snapshotPath(tr *corpus.Corpus, out string) (string, error) {
	if out != "" {
		if err := validation.ValidatePath(out); err != nil {
			return "", errors.NewValidation("out", err.Error())
		}
		return out, nil
	}
	t := a.cfg.Primary
	if tr != a.lib.Primary {
		t = a.cfg.Secondary
	}
	path := a.cfg.Resolve(t.Path)
	format := corpus.Format(t.Format)
	if format == "" {
		format = corpus.DetectFormat(path)
	}
	if format != corpus.FormatSnapshot {
		return "", errors.NewValidation("out", fmt.Sprintf("%s is a %s source; pass --out to write a snapshot", path, format))
	}
	return path, nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Fprintf(g.stdout(), "bible version %s\n", version)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	CLI.ctx = ctx

	k := kong.Parse(&CLI,
		kong.Name("bible"),
		kong.Description("Verse lookup and search over two parallel translations"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Bind(&CLI.Globals),
	)
	err := k.Run()
	k.FatalIfErrorf(err)
}
