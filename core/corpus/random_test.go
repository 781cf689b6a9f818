package corpus

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/FocuswithJustin/versefinder/core/errors"
)

// TestRandomVerseBookWeighting checks that a 1-verse book and a 1000-verse
// book are drawn equally often: the draw is per level, not over all verses.
func TestRandomVerseBookWeighting(t *testing.T) {
	c := New("KJV", "en")
	if err := c.AddBook("Obadiah", [][]string{{"The vision of Obadiah."}}); err != nil {
		t.Fatal(err)
	}
	long := make([][]string, 100)
	for i := range long {
		long[i] = make([]string, 10)
		for j := range long[i] {
			long[i][j] = "psalm"
		}
	}
	if err := c.AddBook("Psalms", long); err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewPCG(1, 2))
	const trials = 20000
	counts := map[string]int{}
	chapters := map[int]int{}
	for i := 0; i < trials; i++ {
		ref, text, err := RandomVerse(c, rng, "")
		if err != nil {
			t.Fatalf("RandomVerse failed: %v", err)
		}
		want, _ := c.Lookup(ref)
		if text != want {
			t.Fatalf("RandomVerse text %q does not match %v", text, ref)
		}
		counts[ref.Book]++
		if ref.Book == "Psalms" {
			chapters[ref.Chapter]++
		}
	}

	share := float64(counts["Obadiah"]) / trials
	if math.Abs(share-0.5) > 0.03 {
		t.Errorf("Obadiah drawn %.3f of the time, want about 0.5 (flattened draw would give 0.001)", share)
	}
	if len(chapters) < 90 {
		t.Errorf("only %d of 100 Psalms chapters drawn", len(chapters))
	}
}

func TestRandomVerseInBook(t *testing.T) {
	c := newTestCorpus(t)
	rng := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 200; i++ {
		ref, _, err := RandomVerse(c, rng, "John")
		if err != nil {
			t.Fatalf("RandomVerse failed: %v", err)
		}
		if ref.Book != "John" {
			t.Fatalf("RandomVerse(John) returned %v", ref)
		}
	}

	if _, _, err := RandomVerse(c, rng, "Enoch"); !errors.Is(err, errors.ErrUnknownBook) {
		t.Errorf("RandomVerse(unknown) error = %v", err)
	}
	if _, _, err := RandomVerse(New("x", "en"), rng, ""); err == nil {
		t.Error("RandomVerse on empty corpus should fail")
	}
	if _, _, err := RandomVerse(c, nil, ""); err != nil {
		t.Errorf("RandomVerse with global source failed: %v", err)
	}
}
