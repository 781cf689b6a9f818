// Package enginetest holds fixtures and a conformance suite shared by the
// fulltext engine packages.
package enginetest

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"testing"

	"github.com/FocuswithJustin/versefinder/core/corpus"
	"github.com/FocuswithJustin/versefinder/core/errors"
	"github.com/FocuswithJustin/versefinder/core/fulltext"
)

// English returns a 41-book English corpus: Genesis, 37 filler books and
// Song of Solomon form the Old Testament; John and 1 John the New.
func English(t testing.TB) *corpus.Corpus {
	t.Helper()
	c := corpus.New("KJV", "en")
	add := func(name string, chapters ...[]string) {
		if err := c.AddBook(name, chapters); err != nil {
			t.Fatal(err)
		}
	}
	add("Genesis", []string{
		"In the beginning God created the heaven and the earth.",
		"And the earth was without form, and void.",
	})
	for i := 2; i <= 38; i++ {
		add(fmt.Sprintf("Filler %02d", i), []string{fmt.Sprintf("And the LORD spake unto prophet number %d.", i)})
	}
	add("Song of Solomon", []string{"I am the rose of Sharon, and the lily of the valleys."})
	add("John",
		[]string{"In the beginning was the Word, and the Word was with God."},
		[]string{
			"There was a man of the Pharisees, named Nicodemus.",
			"For God so loved the world, that he gave his only begotten Son.",
		},
	)
	add("1 John", []string{"He that loveth not knoweth not God; for God is love."})
	return c
}

// Chinese returns a zh-TW corpus with the same book list as English.
func Chinese(t testing.TB) *corpus.Corpus {
	t.Helper()
	c := corpus.New("CUV", "zh-TW")
	add := func(name string, chapters ...[]string) {
		if err := c.AddBook(name, chapters); err != nil {
			t.Fatal(err)
		}
	}
	add("Genesis", []string{"起初，神創造天地。", "地是空虛混沌，淵面黑暗。"})
	for i := 2; i <= 38; i++ {
		add(fmt.Sprintf("Filler %02d", i), []string{fmt.Sprintf("耶和華曉諭先知第%d號。", i)})
	}
	add("Song of Solomon", []string{"我是沙崙的玫瑰花，是谷中的百合花。"})
	add("John",
		[]string{"太初有道，道與神同在，道就是神。"},
		[]string{
			"有一個法利賽人，名叫尼哥底母。",
			"神愛世人，甚至將他的獨生子賜給他們。",
		},
	)
	add("1 John", []string{"沒有愛心的，就不認識神，因為神就是愛。"})
	return c
}

// IDs returns the sorted ids of docs.
func IDs(docs []fulltext.IndexDocument) []string {
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	sort.Strings(ids)
	return ids
}

// Run exercises an engine against the behaviour every engine shares.
// newEngine must return an engine rooted at the given directory.
func Run(t *testing.T, newEngine func(root string) fulltext.Engine) {
	ctx := context.Background()

	build := func(t *testing.T, svc *fulltext.Service, c *corpus.Corpus) fulltext.BuildStats {
		t.Helper()
		stats, err := svc.Build(ctx, c)
		if errors.Is(err, errors.ErrUnsupported) {
			t.Skipf("engine unavailable: %v", err)
		}
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		return stats
	}
	query := func(t *testing.T, svc *fulltext.Service, lang, text, tag string) []string {
		t.Helper()
		docs, err := svc.Query(ctx, lang, text, tag, 0)
		if err != nil {
			t.Fatalf("Query(%q, %q) failed: %v", text, tag, err)
		}
		return IDs(docs)
	}

	t.Run("MissingIndex", func(t *testing.T) {
		e := newEngine(t.TempDir())
		svc := fulltext.NewService(e)
		if e.Exists("en") {
			t.Error("Exists before build")
		}
		_, err := svc.Query(ctx, "en", "god", corpus.TagAllBooks, 0)
		var nf *errors.IndexNotFoundError
		if !errors.As(err, &nf) || nf.Language != "en" {
			t.Errorf("Query before build error = %v, want IndexNotFoundError", err)
		}
		if _, err := e.Manifest("en"); !errors.Is(err, errors.ErrIndexNotFound) {
			t.Errorf("Manifest before build error = %v", err)
		}
		if e.Exists("../en") {
			t.Error("Exists must reject path-like namespaces")
		}
	})

	t.Run("Latin", func(t *testing.T) {
		e := newEngine(t.TempDir())
		svc := fulltext.NewService(e)
		c := English(t)
		stats := build(t, svc, c)

		if stats.Documents != c.VerseTotal() || stats.Language != "en" || stats.BuildID == "" {
			t.Errorf("stats = %+v", stats)
		}
		if !e.Exists("en") || e.Exists("zh-tw") {
			t.Error("Exists mismatch after build")
		}

		tests := []struct {
			text, tag string
			want      []string
		}{
			{"God", corpus.TagAllBooks, []string{"1John 1:1", "Genesis 1:1", "John 1:1", "John 2:2"}},
			{"GOD", corpus.TagAllBooks, []string{"1John 1:1", "Genesis 1:1", "John 1:1", "John 2:2"}},
			{"god", corpus.TagOldTestament, []string{"Genesis 1:1"}},
			{"god", corpus.TagNewTestament, []string{"1John 1:1", "John 1:1", "John 2:2"}},
			{"god", "John", []string{"John 1:1", "John 2:2"}},
			{"god", "1 John", []string{"1John 1:1"}},
			{"so loved the world", corpus.TagAllBooks, []string{"John 2:2"}},
			{"the world so loved", corpus.TagAllBooks, []string{}},
			{`"the beginning"`, corpus.TagAllBooks, []string{"Genesis 1:1", "John 1:1"}},
			{"rose of Sharon", "Song of Solomon", []string{"SongofSolomon 1:1"}},
			{"rose of Sharon", corpus.TagNewTestament, []string{}},
			{"leviathan", corpus.TagAllBooks, []string{}},
			{"lov", corpus.TagAllBooks, []string{}},
		}
		for _, tt := range tests {
			got := query(t, svc, "en", tt.text, tt.tag)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Query(%q, %q) = %v, want %v", tt.text, tt.tag, got, tt.want)
			}
		}

		docs, err := svc.Query(ctx, "en", "god", corpus.TagAllBooks, 2)
		if err != nil || len(docs) != 2 {
			t.Errorf("limit 2 returned %d docs, err %v", len(docs), err)
		}
		docs, err = svc.Query(ctx, "en", "loved", "John", 0)
		if err != nil || len(docs) != 1 {
			t.Fatalf("Query(loved) = %v, %v", docs, err)
		}
		want := fulltext.IndexDocument{
			ID:      "John 2:2",
			Content: "For God so loved the world, that he gave his only begotten Son.",
			Tags:    "John, NewTestament, AllBooks",
			Ref:     corpus.VerseRef{Book: "John", Chapter: 2, Verse: 2},
		}
		if docs[0] != want {
			t.Errorf("hit = %+v, want %+v", docs[0], want)
		}

		if _, err := svc.Query(ctx, "en", `"open`, corpus.TagAllBooks, 0); !errors.Is(err, errors.ErrQuerySyntax) {
			t.Errorf("bad query error = %v", err)
		}
	})

	t.Run("Segmented", func(t *testing.T) {
		e := newEngine(t.TempDir())
		svc := fulltext.NewService(e)
		c := Chinese(t)
		stats := build(t, svc, c)
		if stats.Language != "zh-tw" || stats.Analyzer != fulltext.AnalyzerSegmented {
			t.Errorf("stats = %+v", stats)
		}

		tests := []struct {
			text, tag string
			want      []string
		}{
			{"神愛世人", corpus.TagAllBooks, []string{"John 2:2"}},
			{"世人", corpus.TagNewTestament, []string{"John 2:2"}},
			{"世人", corpus.TagOldTestament, []string{}},
			{"就是", corpus.TagAllBooks, []string{"1John 1:1", "John 1:1"}},
			{"就是", "John", []string{"John 1:1"}},
			{"創造天地", corpus.TagOldTestament, []string{"Genesis 1:1"}},
			{"天地創造", corpus.TagAllBooks, []string{}},
			{"玫瑰花", "Song of Solomon", []string{"SongofSolomon 1:1"}},
			{"神", corpus.TagAllBooks, []string{"1John 1:1", "Genesis 1:1", "John 1:1", "John 2:2"}},
			{"神", corpus.TagOldTestament, []string{"Genesis 1:1"}},
			{"愛", corpus.TagAllBooks, []string{"1John 1:1", "John 2:2"}},
			{"道", "John", []string{"John 1:1"}},
			{"道", corpus.TagOldTestament, []string{}},
			{"初，神", corpus.TagAllBooks, []string{"Genesis 1:1"}},
			{"愛神", corpus.TagAllBooks, []string{}},
		}
		for _, tt := range tests {
			got := query(t, svc, "zh-TW", tt.text, tt.tag)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Query(%q, %q) = %v, want %v", tt.text, tt.tag, got, tt.want)
			}
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		e := newEngine(t.TempDir())
		svc := fulltext.NewService(e)
		for _, c := range []*corpus.Corpus{English(t), Chinese(t)} {
			build(t, svc, c)
			for doc := range fulltext.Documents(c) {
				docs, err := svc.Query(ctx, c.Language, `"`+doc.Content+`"`, doc.Ref.Book, 0)
				if err != nil {
					t.Fatalf("Query(%s) failed: %v", doc.ID, err)
				}
				if !slices.Contains(IDs(docs), doc.ID) {
					t.Errorf("%s: exact-content phrase query did not return the verse (got %v)", doc.ID, IDs(docs))
				}
			}
		}
	})

	t.Run("RebuildAndStale", func(t *testing.T) {
		e := newEngine(t.TempDir())
		svc := fulltext.NewService(e)
		c := English(t)
		first := build(t, svc, c)

		stale, err := svc.Stale(c)
		if err != nil || stale {
			t.Fatalf("Stale() after build = %v, %v", stale, err)
		}
		m, err := e.Manifest("en")
		if err != nil || m.BuildID != first.BuildID || m.Fingerprint != first.Fingerprint {
			t.Errorf("Manifest() = %+v, %v", m, err)
		}

		if err := c.MutateVerse("Song of Solomon", 1, 1, "I am the leviathan of Sharon"); err != nil {
			t.Fatal(err)
		}
		if stale, _ := svc.Stale(c); !stale {
			t.Error("Stale() should report a corrected corpus")
		}
		if got := query(t, svc, "en", "leviathan", corpus.TagAllBooks); len(got) != 0 {
			t.Errorf("index must not update itself: %v", got)
		}

		second := build(t, svc, c)
		if second.BuildID == first.BuildID {
			t.Error("rebuild should get a new build id")
		}
		if got := query(t, svc, "en", "leviathan", corpus.TagAllBooks); !slices.Equal(got, []string{"SongofSolomon 1:1"}) {
			t.Errorf("after rebuild = %v", got)
		}
		if got := query(t, svc, "en", "rose", corpus.TagAllBooks); len(got) != 0 {
			t.Errorf("old text still indexed: %v", got)
		}
		if stale, _ := svc.Stale(c); stale {
			t.Error("Stale() after rebuild")
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		e := newEngine(t.TempDir())
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		big := corpus.New("Big", "en")
		chapter := make([]string, 2500)
		for i := range chapter {
			chapter[i] = "verse"
		}
		if err := big.AddBook("Psalms", [][]string{chapter}); err != nil {
			t.Fatal(err)
		}
		if _, err := e.Build(cctx, big, "en"); err == nil {
			t.Error("Build with cancelled context should fail")
		}
		if e.Exists("en") {
			t.Error("failed build must not leave an index behind")
		}
	})
}
