package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/versefinder/core/errors"
)

// ReadLines reads the one-verse-per-line text form
//
//	Gen 1:1 In the beginning God created the heaven and the earth.
//
// where the first field is a book code. codes maps a code to its canonical
// book name; a nil map uses the code itself. Lines must run in canonical
// order with chapters and verses counting up from 1.
func ReadLines(r io.Reader, translation, language string, codes map[string]string) (*Corpus, error) {
	c := New(translation, language)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var (
		book     string
		chapters [][]string
		lineNo   int
	)
	flush := func() error {
		if book == "" {
			return nil
		}
		return c.AddBook(book, chapters)
	}

	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, " ", 3)
		if len(fields) < 2 {
			return nil, lineErr(translation, lineNo, "expected \"<book> <chapter>:<verse> <text>\"")
		}
		name := fields[0]
		if codes != nil {
			mapped, ok := codes[name]
			if !ok {
				return nil, lineErr(translation, lineNo, fmt.Sprintf("unknown book code %q", name))
			}
			name = mapped
		}
		chapter, verse, err := splitChapterVerse(fields[1])
		if err != nil {
			return nil, lineErr(translation, lineNo, err.Error())
		}
		text := ""
		if len(fields) == 3 {
			text = fields[2]
		}

		if name != book {
			if err := flush(); err != nil {
				return nil, lineErr(translation, lineNo, err.Error())
			}
			book, chapters = name, nil
		}
		switch {
		case verse == 1 && chapter == len(chapters)+1:
			chapters = append(chapters, []string{text})
		case len(chapters) > 0 && chapter == len(chapters) && verse == len(chapters[chapter-1])+1:
			chapters[chapter-1] = append(chapters[chapter-1], text)
		default:
			return nil, lineErr(translation, lineNo, fmt.Sprintf("%s %d:%d is out of sequence", name, chapter, verse))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.NewCorpusLoad(translation, "read failed", err)
	}
	if err := flush(); err != nil {
		return nil, lineErr(translation, lineNo, err.Error())
	}
	if c.BookCount() == 0 {
		return nil, errors.NewCorpusLoad(translation, "no verses", nil)
	}
	return c, nil
}

func lineErr(source string, line int, msg string) error {
	return errors.NewCorpusLoad(source, fmt.Sprintf("line %d: %s", line, msg), nil)
}

func splitChapterVerse(s string) (int, int, error) {
	cs, vs, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%q is not chapter:verse", s)
	}
	chapter, err := strconv.Atoi(cs)
	if err != nil || chapter < 1 {
		return 0, 0, fmt.Errorf("bad chapter in %q", s)
	}
	verse, err := strconv.Atoi(vs)
	if err != nil || verse < 1 {
		return 0, 0, fmt.Errorf("bad verse in %q", s)
	}
	return chapter, verse, nil
}

// ReadBookCodes zips two comma-separated lists (codes and canonical names)
// into a code -> name mapping. Line breaks inside the lists are ignored.
func ReadBookCodes(codes, names io.Reader) (map[string]string, error) {
	cs, err := readCommaList(codes)
	if err != nil {
		return nil, err
	}
	ns, err := readCommaList(names)
	if err != nil {
		return nil, err
	}
	if len(cs) != len(ns) {
		return nil, errors.NewValidation("book codes", fmt.Sprintf("%d codes but %d names", len(cs), len(ns)))
	}
	m := make(map[string]string, len(cs))
	for i, code := range cs {
		m[code] = ns[i]
	}
	return m, nil
}

func readCommaList(r io.Reader) ([]string, error) {
	var sb strings.Builder
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		sb.WriteString(strings.TrimRight(sc.Text(), " \t\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	var out []string
	for _, item := range strings.Split(sb.String(), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}
