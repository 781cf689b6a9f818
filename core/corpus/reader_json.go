package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/FocuswithJustin/versefinder/core/errors"
)

// ReadJSON reads the nested-object form
//
//	{"Genesis": {"1": {"1": "In the beginning ...", "2": "..."}, "2": {...}}, ...}
//
// Book order is the order of keys in the document. Chapter and verse keys may
// appear in any order but must be exactly 1..n.
func ReadJSON(r io.Reader, translation, language string) (*Corpus, error) {
	dec := json.NewDecoder(r)
	c := New(translation, language)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, loadErr(translation, "top level", err)
	}
	for dec.More() {
		name, err := stringKey(dec)
		if err != nil {
			return nil, loadErr(translation, "book name", err)
		}
		chapters, err := readNumbered(dec, func(dec *json.Decoder) ([]string, error) {
			return readNumbered(dec, func(dec *json.Decoder) (string, error) {
				var text string
				err := dec.Decode(&text)
				return text, err
			})
		})
		if err != nil {
			return nil, loadErr(translation, name, err)
		}
		if err := c.AddBook(name, chapters); err != nil {
			return nil, loadErr(translation, name, err)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, loadErr(translation, "top level", err)
	}
	if c.BookCount() == 0 {
		return nil, errors.NewCorpusLoad(translation, "no books", nil)
	}
	return c, nil
}

func loadErr(source, where string, err error) error {
	return errors.NewCorpusLoad(source, fmt.Sprintf("%s: %v", where, err), err)
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func stringKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

// readNumbered reads an object keyed "1".."n" into a slice, rejecting gaps,
// duplicates and non-numeric keys.
func readNumbered[T any](dec *json.Decoder, value func(*json.Decoder) (T, error)) ([]T, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	byNum := make(map[int]T)
	for dec.More() {
		key, err := stringKey(dec)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("key %q is not a positive number", key)
		}
		if _, dup := byNum[n]; dup {
			return nil, fmt.Errorf("duplicate key %d", n)
		}
		v, err := value(dec)
		if err != nil {
			return nil, fmt.Errorf("%d: %w", n, err)
		}
		byNum[n] = v
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	out := make([]T, len(byNum))
	for i := range out {
		v, ok := byNum[i+1]
		if !ok {
			return nil, fmt.Errorf("numbering has a gap at %d", i+1)
		}
		out[i] = v
	}
	return out, nil
}

// WriteJSON writes c in the form ReadJSON reads, preserving canonical order.
func WriteJSON(w io.Writer, c *Corpus) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("{")
	for bi, b := range c.books {
		if bi > 0 {
			bw.WriteString(",")
		}
		writeJSONString(bw, b.Name)
		bw.WriteString(":{")
		for ci, ch := range b.Chapters {
			if ci > 0 {
				bw.WriteString(",")
			}
			fmt.Fprintf(bw, "\n%q:{", strconv.Itoa(ci+1))
			for vi, text := range ch {
				if vi > 0 {
					bw.WriteString(",")
				}
				fmt.Fprintf(bw, "%q:", strconv.Itoa(vi+1))
				writeJSONString(bw, text)
			}
			bw.WriteString("}")
		}
		bw.WriteString("}")
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

func writeJSONString(w *bufio.Writer, s string) {
	data, _ := json.Marshal(s)
	w.Write(data)
}
