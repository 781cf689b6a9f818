// Package config loads the YAML configuration file.
//
// A minimal file names the primary translation only:
//
//	primary:
//	  path: data/kjv.json
//	  language: en
//
// Relative paths are resolved against the directory of the config file.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/versefinder/core/corpus"
	"github.com/FocuswithJustin/versefinder/core/errors"
)

// Defaults.
const (
	DefaultFileName  = "versefinder.yaml"
	DefaultIndexRoot = "index"
	DefaultEngine    = "bleve"
	DefaultPageSize  = 10
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Engines lists the accepted engine names.
var Engines = []string{"bleve", "fts5"}

// Translation describes one corpus source.
type Translation struct {
	Name     string `yaml:"name"`
	Language string `yaml:"language"`
	Path     string `yaml:"path"`
	Format   string `yaml:"format"`
	// BookCodes and BookNames are comma-separated lists used by the
	// "lines" format to map short codes to book names.
	BookCodes string `yaml:"book_codes"`
	BookNames string `yaml:"book_names"`
}

// IsZero reports whether no source was configured.
func (t Translation) IsZero() bool {
	return t.Path == ""
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the whole configuration file.
type Config struct {
	Primary   Translation `yaml:"primary"`
	Secondary Translation `yaml:"secondary"`
	IndexRoot string      `yaml:"index_root"`
	Engine    string      `yaml:"engine"`
	PageSize  int         `yaml:"page_size"`
	Log       LogConfig   `yaml:"log"`

	// dir is the directory relative paths are resolved against.
	dir string
}

// DefaultConfig returns a configuration with every default applied and no
// translations.
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	c, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	c.dir = filepath.Dir(path)
	return c, nil
}

// Parse decodes and validates a configuration. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, &errors.ValidationError{Field: "yaml", Message: err.Error()}
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.IndexRoot == "" {
		c.IndexRoot = DefaultIndexRoot
	}
	if c.Engine == "" {
		c.Engine = DefaultEngine
	}
	c.Engine = strings.ToLower(c.Engine)
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if !slices.Contains(Engines, c.Engine) {
		return errors.NewValidation("engine", fmt.Sprintf("%q is not one of %s", c.Engine, strings.Join(Engines, ", ")))
	}
	if c.PageSize < 1 {
		return errors.NewValidation("page_size", fmt.Sprintf("must be positive, got %d", c.PageSize))
	}
	for _, t := range []struct {
		field string
		tr    Translation
	}{{"primary", c.Primary}, {"secondary", c.Secondary}} {
		if t.tr.IsZero() {
			continue
		}
		switch corpus.Format(t.tr.Format) {
		case "", corpus.FormatJSON, corpus.FormatLines, corpus.FormatZefania, corpus.FormatSnapshot:
		default:
			return errors.NewValidation(t.field+".format", fmt.Sprintf("unknown format %q", t.tr.Format))
		}
		if (t.tr.BookCodes == "") != (t.tr.BookNames == "") {
			return errors.NewValidation(t.field, "book_codes and book_names must be set together")
		}
	}
	if c.Primary.IsZero() && !c.Secondary.IsZero() {
		return errors.NewValidation("primary", "secondary translation configured without a primary")
	}
	return nil
}

// Resolve returns path relative to the config file's directory. Absolute
// paths and configs that were not loaded from a file are returned as is.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}

// Source converts t into a corpus source, reading the book code lists when
// present.
func (c *Config) Source(t Translation) (corpus.Source, error) {
	src := corpus.Source{
		Path:        c.Resolve(t.Path),
		Format:      corpus.Format(t.Format),
		Translation: t.Name,
		Language:    t.Language,
	}
	if t.BookCodes == "" {
		return src, nil
	}
	codes, err := corpus.ReadBookCodes(strings.NewReader(t.BookCodes), strings.NewReader(t.BookNames))
	if err != nil {
		return corpus.Source{}, err
	}
	src.BookCodes = codes
	return src, nil
}
