package corpus

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/versefinder/core/errors"
)

// Format names a corpus source layout.
type Format string

const (
	FormatJSON     Format = "json"     // nested book/chapter/verse object
	FormatLines    Format = "lines"    // "<code> <chapter>:<verse> <text>" per line
	FormatZefania  Format = "zefania"  // Zefania XML
	FormatSnapshot Format = "snapshot" // xz-compressed FormatJSON
)

// Source describes where and how to load one translation.
type Source struct {
	Path        string
	Format      Format // detected from the extension when empty
	Translation string
	Language    string
	BookCodes   map[string]string // FormatLines only
}

// DetectFormat guesses the format from a file name.
func DetectFormat(path string) Format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".json.xz"), strings.HasSuffix(lower, ".xz"):
		return FormatSnapshot
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	case strings.HasSuffix(lower, ".xml"):
		return FormatZefania
	default:
		return FormatLines
	}
}

// Load opens src.Path and reads it. Every failure, including a missing
// file, is a *errors.CorpusLoadError.
func Load(src Source) (*Corpus, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, errors.NewCorpusLoad(src.Path, "open failed", err)
	}
	defer f.Close()

	format := src.Format
	if format == "" {
		format = DetectFormat(src.Path)
	}
	translation := src.Translation
	if translation == "" {
		translation = strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	}

	switch format {
	case FormatJSON:
		return ReadJSON(f, translation, src.Language)
	case FormatLines:
		return ReadLines(f, translation, src.Language, src.BookCodes)
	case FormatZefania:
		// biblename wins over the file name when the source names no translation.
		c, err := ReadZefania(f, src.Translation, src.Language)
		if err == nil && c.Translation == "" {
			c.Translation = translation
		}
		return c, err
	case FormatSnapshot:
		return ReadSnapshot(f, translation, src.Language)
	}
	return nil, errors.NewCorpusLoad(src.Path, fmt.Sprintf("unknown format %q", format), nil)
}

// ReadSnapshot reads an xz-compressed JSON corpus written by WriteSnapshot.
func ReadSnapshot(r io.Reader, translation, language string) (*Corpus, error) {
	zr, err := xz.NewReader(r)
	if err != nil {
		return nil, errors.NewCorpusLoad(translation, "xz header", err)
	}
	return ReadJSON(zr, translation, language)
}

// WriteSnapshot writes c as xz-compressed JSON.
func WriteSnapshot(w io.Writer, c *Corpus) error {
	zw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating xz writer: %w", err)
	}
	if err := WriteJSON(zw, c); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// SaveSnapshot writes c to path atomically (temp file + rename). This is the
// persistence step that follows a MutateVerse correction.
func SaveSnapshot(path string, c *Corpus) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return errors.NewIO("create temp file in", dir, err)
	}
	tmpPath := tmp.Name()

	if err := WriteSnapshot(tmp, c); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.NewIO("write", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.NewIO("close", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.NewIO("rename", path, err)
	}
	return nil
}
