package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/versefinder/core/corpus"
	"github.com/FocuswithJustin/versefinder/core/errors"
	"github.com/FocuswithJustin/versefinder/core/fulltext"
	"github.com/FocuswithJustin/versefinder/core/fulltext/bleveidx"
	"github.com/FocuswithJustin/versefinder/core/fulltext/ftsidx"
	"github.com/FocuswithJustin/versefinder/internal/config"
	"github.com/FocuswithJustin/versefinder/internal/display"
	"github.com/FocuswithJustin/versefinder/internal/logging"
	"github.com/FocuswithJustin/versefinder/internal/validation"
)

// Globals are the flags shared by every command. Flags that are set
// override the config file.
type Globals struct {
	Config        string `short:"c" help:"Path to the YAML config file (default: ./versefinder.yaml if present)" type:"path"`
	Primary       string `help:"Primary translation source file" type:"path"`
	PrimaryLang   string `name:"primary-lang" help:"Language tag of the primary translation (default: en)"`
	Secondary     string `help:"Secondary translation source file" type:"path"`
	SecondaryLang string `name:"secondary-lang" help:"Language tag of the secondary translation (default: zh-TW)"`
	Engine        string `short:"e" help:"Full-text engine (bleve or fts5)"`
	IndexRoot     string `name:"index-root" help:"Directory holding the full-text indexes" type:"path"`
	PageSize      int    `name:"page-size" short:"n" help:"Matches per page"`
	LogLevel      string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat     string `name:"log-format" help:"Log format (text, json)"`

	ctx    context.Context
	out    io.Writer
	errOut io.Writer
	rng    *rand.Rand
}

// Languages assumed for translations named only on the command line.
const (
	defaultPrimaryLang   = "en"
	defaultSecondaryLang = "zh-TW"
)

// app is the loaded state one command runs against.
type app struct {
	ctx    context.Context
	cfg    *config.Config
	lib    *corpus.Library
	out    io.Writer
	errOut io.Writer
	view   *display.Renderer
	rng    *rand.Rand
}

func (g *Globals) stdout() io.Writer {
	if g.out != nil {
		return g.out
	}
	return os.Stdout
}

func (g *Globals) stderr() io.Writer {
	if g.errOut != nil {
		return g.errOut
	}
	return os.Stderr
}

// loadConfig reads the config file and applies flag overrides.
func (g *Globals) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case g.Config != "":
		c, err := config.Load(g.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		if _, err := os.Stat(config.DefaultFileName); err == nil {
			c, err := config.Load(config.DefaultFileName)
			if err != nil {
				return nil, err
			}
			cfg = c
		} else {
			cfg = config.DefaultConfig()
		}
	}

	if err := overrideTranslation(&cfg.Primary, "primary", g.Primary, g.PrimaryLang, defaultPrimaryLang); err != nil {
		return nil, err
	}
	if err := overrideTranslation(&cfg.Secondary, "secondary", g.Secondary, g.SecondaryLang, defaultSecondaryLang); err != nil {
		return nil, err
	}
	if g.Engine != "" {
		cfg.Engine = strings.ToLower(g.Engine)
	}
	if g.IndexRoot != "" {
		cfg.IndexRoot = g.IndexRoot
	}
	if g.PageSize != 0 {
		cfg.PageSize = g.PageSize
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Primary.IsZero() {
		return nil, errors.NewValidation("primary", "no primary translation configured; pass --primary or set primary.path in "+config.DefaultFileName)
	}
	return cfg, nil
}

// overrideTranslation applies the path and language flags to t. Other
// configured fields are kept. fallback fills in the language when neither
// the flag nor the config names one.
func overrideTranslation(t *config.Translation, field, path, lang, fallback string) error {
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("invalid %s path: %w", field, err)
		}
		t.Path = abs
	}
	if lang != "" {
		t.Language = lang
	}
	if t.Language == "" && !t.IsZero() {
		t.Language = fallback
	}
	return nil
}

// load reads the config, initializes logging and loads both translations.
// Any failure here is fatal for the command.
func (g *Globals) load() (*app, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := initLogging(cfg.Log); err != nil {
		return nil, err
	}

	base := g.ctx
	if base == nil {
		base = context.Background()
	}
	ctx := logging.WithSessionID(base, uuid.NewString())

	primary, err := loadTranslation(ctx, cfg, cfg.Primary)
	if err != nil {
		return nil, err
	}
	var secondary *corpus.Corpus
	if !cfg.Secondary.IsZero() {
		if secondary, err = loadTranslation(ctx, cfg, cfg.Secondary); err != nil {
			return nil, err
		}
	}

	lib, diverged, err := corpus.NewLibrary(primary, secondary)
	if err != nil {
		return nil, err
	}
	for _, d := range diverged {
		logging.ChapterDivergence(ctx, d.Book, d.PrimaryChapters, d.SecondaryChapters)
	}

	out := g.stdout()
	return &app{
		ctx:    ctx,
		cfg:    cfg,
		lib:    lib,
		out:    out,
		errOut: g.stderr(),
		view:   display.New(out, lib),
		rng:    g.rng,
	}, nil
}

func initLogging(c config.LogConfig) error {
	level, err := logging.ParseLevel(c.Level)
	if err != nil {
		return errors.NewValidation("log.level", err.Error())
	}
	format, err := logging.ParseFormat(c.Format)
	if err != nil {
		return errors.NewValidation("log.format", err.Error())
	}
	logging.InitLogger(level, format)
	return nil
}

func loadTranslation(ctx context.Context, cfg *config.Config, t config.Translation) (*corpus.Corpus, error) {
	src, err := cfg.Source(t)
	if err != nil {
		return nil, err
	}
	if src.Format == "" {
		if src.Format, err = sniffFormat(src.Path); err != nil {
			return nil, err
		}
	}
	start := time.Now()
	c, err := corpus.Load(src)
	if err != nil {
		return nil, err
	}
	logging.CorpusLoaded(ctx, c.Translation, c.Language, src.Path, c.BookCount(), c.VerseTotal(), time.Since(start))
	return c, nil
}

// sniffFormat detects the format of a source whose config names none.
func sniffFormat(path string) (corpus.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.NewCorpusLoad(path, "open failed", err)
	}
	defer f.Close()
	format, err := validation.SniffFormat(f, path)
	if err != nil {
		return "", errors.NewCorpusLoad(path, "", err)
	}
	return format, nil
}

// translation selects a corpus by name or language; empty means primary.
func (a *app) translation(name string) (*corpus.Corpus, error) {
	if name == "" {
		return a.lib.Primary, nil
	}
	c, ok := a.lib.Select(name)
	if !ok {
		return nil, errors.NewValidation("translation", fmt.Sprintf("no loaded translation named %q", name))
	}
	return c, nil
}

// scope parses a scope flag and canonicalizes a book name.
func (a *app) scope(s string) (corpus.Scope, error) {
	scope := corpus.ParseScope(s)
	if scope.Kind != corpus.ScopeBook {
		return scope, nil
	}
	book, ok := a.lib.Index.Canonical(scope.Book)
	if !ok {
		return scope, errors.NewUnknownBook(scope.Book)
	}
	return corpus.SingleBook(book), nil
}

// service returns the full-text service for the configured engine.
func (a *app) service() (*fulltext.Service, error) {
	engine, err := newEngine(a.cfg.Engine, a.cfg.Resolve(a.cfg.IndexRoot))
	if err != nil {
		return nil, err
	}
	return fulltext.NewService(engine), nil
}

func newEngine(name, root string) (fulltext.Engine, error) {
	switch name {
	case bleveidx.Name:
		return bleveidx.New(root), nil
	case ftsidx.Name:
		return ftsidx.New(root), nil
	}
	return nil, errors.NewValidation("engine", fmt.Sprintf("unknown engine %q", name))
}

// report prints a per-query error. The command still succeeds.
func (a *app) report(mode, query string, err error) {
	logging.QueryError(a.ctx, mode, query, err)
	fmt.Fprintf(a.errOut, "Error: %v\n", err)
}
