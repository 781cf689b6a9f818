package corpus

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/FocuswithJustin/versefinder/core/errors"
)

const sampleJSON = `{
  "Genesis": {"1": {"1": "In the beginning God created the heaven and the earth.", "2": "And the earth was without form."},
              "2": {"1": "Thus the heavens and the earth were finished."}},
  "John": {"3": {"1": "There was a man of the Pharisees."},
           "1": {"2": "The same was in the beginning with God.", "1": "In the beginning was the Word."},
           "2": {"1": "And the third day there was a marriage."}}
}`

func TestReadJSON(t *testing.T) {
	c, err := ReadJSON(strings.NewReader(sampleJSON), "KJV", "en")
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if !slices.Equal(c.Books(), []string{"Genesis", "John"}) {
		t.Errorf("Books() = %v, want document order", c.Books())
	}
	if n, _ := c.ChapterCount("John"); n != 3 {
		t.Errorf("ChapterCount(John) = %d, want 3", n)
	}
	if got, _ := c.VerseText("John", 1, 1); got != "In the beginning was the Word." {
		t.Errorf("John 1:1 = %q (keys out of order must still map by number)", got)
	}
	if c.Translation != "KJV" || c.Language != "en" {
		t.Errorf("Translation/Language = %q/%q", c.Translation, c.Language)
	}
}

func TestReadJSONRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not an object", `["Genesis"]`},
		{"verse gap", `{"Jude": {"1": {"1": "a", "3": "c"}}}`},
		{"chapter gap", `{"Jude": {"2": {"1": "a"}}}`},
		{"non numeric key", `{"Jude": {"one": {"1": "a"}}}`},
		{"zero key", `{"Jude": {"1": {"0": "a"}}}`},
		{"duplicate key", `{"Jude": {"1": {"1": "a", "1": "b"}}}`},
		{"verse not a string", `{"Jude": {"1": {"1": 5}}}`},
		{"empty chapter", `{"Jude": {"1": {}}}`},
		{"empty corpus", `{}`},
		{"truncated", `{"Jude": {"1": {"1": "a"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input), "bad", "en")
			if !errors.Is(err, errors.ErrCorpusLoad) {
				t.Errorf("ReadJSON() error = %v, want CorpusLoadError", err)
			}
		})
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	c := newTestCorpus(t)
	var buf bytes.Buffer
	if err := WriteJSON(&buf, c); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	back, err := ReadJSON(&buf, "KJV", "en")
	if err != nil {
		t.Fatalf("ReadJSON(WriteJSON()) failed: %v", err)
	}
	assertSameCorpus(t, c, back)
}

func assertSameCorpus(t *testing.T, want, got *Corpus) {
	t.Helper()
	if !slices.Equal(want.Books(), got.Books()) {
		t.Fatalf("Books() = %v, want %v", got.Books(), want.Books())
	}
	for ref, text := range want.Verses() {
		other, err := got.Lookup(ref)
		if err != nil {
			t.Fatalf("%v missing: %v", ref, err)
		}
		if other != text {
			t.Errorf("%v = %q, want %q", ref, other, text)
		}
	}
	if want.VerseTotal() != got.VerseTotal() {
		t.Errorf("VerseTotal() = %d, want %d", got.VerseTotal(), want.VerseTotal())
	}
}

func TestReadLines(t *testing.T) {
	input := "創 1:1 起初，神創造天地。\n" +
		"創 1:2 地是空虛混沌，淵面黑暗。\r\n" +
		"創 2:1 天地萬物都造齊了。\n" +
		"\n" +
		"約 1:1 太初有道，道與神同在，道就是神。\n"
	codes := map[string]string{"創": "Genesis", "約": "John"}

	c, err := ReadLines(strings.NewReader(input), "CUV", "zh-TW", codes)
	if err != nil {
		t.Fatalf("ReadLines failed: %v", err)
	}
	if !slices.Equal(c.Books(), []string{"Genesis", "John"}) {
		t.Errorf("Books() = %v", c.Books())
	}
	if got, _ := c.VerseText("Genesis", 1, 2); got != "地是空虛混沌，淵面黑暗。" {
		t.Errorf("Genesis 1:2 = %q", got)
	}
	if n, _ := c.VerseCount("Genesis", 2); n != 1 {
		t.Errorf("VerseCount(Genesis 2) = %d", n)
	}
}

func TestReadLinesWithoutCodes(t *testing.T) {
	c, err := ReadLines(strings.NewReader("Jude 1:1 Jude, the servant.\nJude 1:2 Mercy unto you.\n"), "KJV", "en", nil)
	if err != nil {
		t.Fatalf("ReadLines failed: %v", err)
	}
	if n, _ := c.VerseCount("Jude", 1); n != 2 {
		t.Errorf("VerseCount = %d", n)
	}
}

func TestReadLinesRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		codes map[string]string
	}{
		{"missing reference", "Jude\n", nil},
		{"bad reference", "Jude 1-1 text\n", nil},
		{"verse gap", "Jude 1:1 a\nJude 1:3 c\n", nil},
		{"chapter gap", "Jude 1:1 a\nJude 3:1 c\n", nil},
		{"starts at verse 2", "Jude 1:2 a\n", nil},
		{"unknown code", "X 1:1 a\n", map[string]string{"Y": "Jude"}},
		{"book repeats", "Jude 1:1 a\nRev 1:1 b\nJude 1:2 c\n", nil},
		{"empty", "\n\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLines(strings.NewReader(tt.input), "bad", "en", tt.codes)
			if !errors.Is(err, errors.ErrCorpusLoad) {
				t.Errorf("ReadLines() error = %v, want CorpusLoadError", err)
			}
		})
	}
}

func TestReadBookCodes(t *testing.T) {
	codes := strings.NewReader("創, 出,\n 約\n")
	names := strings.NewReader("Genesis, Exodus,\nJohn")
	m, err := ReadBookCodes(codes, names)
	if err != nil {
		t.Fatalf("ReadBookCodes failed: %v", err)
	}
	if len(m) != 3 || m["創"] != "Genesis" || m["約"] != "John" {
		t.Errorf("ReadBookCodes() = %v", m)
	}

	if _, err := ReadBookCodes(strings.NewReader("a,b"), strings.NewReader("A")); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("length mismatch error = %v", err)
	}
}

const sampleZefania = `<?xml version="1.0" encoding="utf-8"?>
<XMLBIBLE biblename="King James Version">
  <BIBLEBOOK bnumber="1" bname="Genesis">
    <CHAPTER cnumber="1">
      <VERS vnumber="1">In the beginning God created the heaven and the earth.</VERS>
      <VERS vnumber="2">And the earth was without form, and void.</VERS>
    </CHAPTER>
  </BIBLEBOOK>
  <BIBLEBOOK bnumber="62" bname="1 John">
    <CHAPTER cnumber="2"><VERS vnumber="1">My little children.</VERS></CHAPTER>
    <CHAPTER cnumber="1"><VERS vnumber="1">That which was from the beginning.</VERS></CHAPTER>
  </BIBLEBOOK>
</XMLBIBLE>`

func TestReadZefania(t *testing.T) {
	c, err := ReadZefania(strings.NewReader(sampleZefania), "", "en")
	if err != nil {
		t.Fatalf("ReadZefania failed: %v", err)
	}
	if c.Translation != "King James Version" {
		t.Errorf("Translation = %q, want biblename", c.Translation)
	}
	if !slices.Equal(c.Books(), []string{"Genesis", "1 John"}) {
		t.Errorf("Books() = %v", c.Books())
	}
	if got, _ := c.VerseText("1 John", 2, 1); got != "My little children." {
		t.Errorf("1 John 2:1 = %q", got)
	}
	if got, _ := c.VerseText("Genesis", 1, 2); got != "And the earth was without form, and void." {
		t.Errorf("Genesis 1:2 = %q", got)
	}
}

func TestLoadZefaniaTranslationName(t *testing.T) {
	unnamed := strings.Replace(sampleZefania, ` biblename="King James Version"`, "", 1)
	tests := []struct {
		name    string
		content string
		src     string
		want    string
	}{
		{name: "config name", content: sampleZefania, src: "KJV", want: "KJV"},
		{name: "biblename", content: sampleZefania, want: "King James Version"},
		{name: "file stem", content: unnamed, want: "kjv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "kjv.xml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			c, err := Load(Source{Path: path, Translation: tt.src, Language: "en"})
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			if c.Translation != tt.want {
				t.Errorf("Translation = %q, want %q", c.Translation, tt.want)
			}
		})
	}
}

func TestReadZefaniaRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not xml", "<XMLBIBLE><BIBLEBOOK"},
		{"no books", "<XMLBIBLE></XMLBIBLE>"},
		{"missing bname", `<XMLBIBLE><BIBLEBOOK bnumber="1"><CHAPTER cnumber="1"><VERS vnumber="1">a</VERS></CHAPTER></BIBLEBOOK></XMLBIBLE>`},
		{"verse gap", `<XMLBIBLE><BIBLEBOOK bname="Jude"><CHAPTER cnumber="1"><VERS vnumber="1">a</VERS><VERS vnumber="3">c</VERS></CHAPTER></BIBLEBOOK></XMLBIBLE>`},
		{"duplicate chapter", `<XMLBIBLE><BIBLEBOOK bname="Jude"><CHAPTER cnumber="1"><VERS vnumber="1">a</VERS></CHAPTER><CHAPTER cnumber="1"><VERS vnumber="1">b</VERS></CHAPTER></BIBLEBOOK></XMLBIBLE>`},
		{"empty chapter", `<XMLBIBLE><BIBLEBOOK bname="Jude"><CHAPTER cnumber="1"></CHAPTER></BIBLEBOOK></XMLBIBLE>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadZefania(strings.NewReader(tt.input), "bad", "en")
			if !errors.Is(err, errors.ErrCorpusLoad) {
				t.Errorf("ReadZefania() error = %v, want CorpusLoadError", err)
			}
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := newTestCorpus(t)
	if err := c.MutateVerse("John", 3, 16, "corrected text"); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "kjv.json.xz")
	if err := SaveSnapshot(path, c); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	back, err := Load(Source{Path: path, Translation: "KJV", Language: "en"})
	if err != nil {
		t.Fatalf("Load(snapshot) failed: %v", err)
	}
	assertSameCorpus(t, c, back)
	if got, _ := back.VerseText("John", 3, 16); got != "corrected text" {
		t.Errorf("John 3:16 = %q after snapshot reload", got)
	}
}

func TestLoadDispatch(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "kjv.json")
	if err := os.WriteFile(jsonPath, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	xmlPath := filepath.Join(dir, "kjv.xml")
	if err := os.WriteFile(xmlPath, []byte(sampleZefania), 0o644); err != nil {
		t.Fatal(err)
	}
	txtPath := filepath.Join(dir, "jude.txt")
	if err := os.WriteFile(txtPath, []byte("Jude 1:1 Jude, the servant.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(Source{Path: jsonPath, Language: "en"})
	if err != nil {
		t.Fatalf("Load(json) failed: %v", err)
	}
	if c.Translation != "kjv" {
		t.Errorf("Translation defaulted to %q, want file stem", c.Translation)
	}
	if _, err := Load(Source{Path: xmlPath, Translation: "KJV"}); err != nil {
		t.Errorf("Load(xml) failed: %v", err)
	}
	if _, err := Load(Source{Path: txtPath, Format: FormatLines}); err != nil {
		t.Errorf("Load(lines) failed: %v", err)
	}

	if _, err := Load(Source{Path: filepath.Join(dir, "missing.json")}); !errors.Is(err, errors.ErrCorpusLoad) {
		t.Errorf("Load(missing) error = %v, want CorpusLoadError", err)
	}
	if _, err := Load(Source{Path: jsonPath, Format: "pickle"}); !errors.Is(err, errors.ErrCorpusLoad) {
		t.Errorf("Load(unknown format) error = %v, want CorpusLoadError", err)
	}
	if _, err := Load(Source{Path: jsonPath, Format: FormatSnapshot}); !errors.Is(err, errors.ErrCorpusLoad) {
		t.Errorf("Load(json as snapshot) error = %v, want CorpusLoadError", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"kjv.json":    FormatJSON,
		"kjv.JSON":    FormatJSON,
		"kjv.json.xz": FormatSnapshot,
		"cuv.xml":     FormatZefania,
		"hohoutf8":    FormatLines,
		"cuv.txt":     FormatLines,
	}
	for path, want := range tests {
		if got := DetectFormat(path); got != want {
			t.Errorf("DetectFormat(%q) = %q, want %q", path, got, want)
		}
	}
}
