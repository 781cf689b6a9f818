package cas

import (
	"encoding/hex"
	"testing"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/versefinder/core/corpus"
)

func sample(t *testing.T, translation string) *corpus.Corpus {
	t.Helper()
	c := corpus.New(translation, "en")
	if err := c.AddBook("John", [][]string{{"In the beginning", "was the Word"}, {"And the third day"}}); err != nil {
		t.Fatal(err)
	}
	if err := c.AddBook("Jude", [][]string{{"Jude, the servant"}}); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestBlake3Hash(t *testing.T) {
	data := []byte("BLAKE3 test data")
	h := blake3.Sum256(data)
	if got, want := Blake3Hash(data), hex.EncodeToString(h[:]); got != want {
		t.Errorf("Blake3Hash() = %s, want %s", got, want)
	}
	if !IsValidHash(Blake3Hash(nil)) {
		t.Error("Blake3Hash(nil) should be a valid hash")
	}
}

func TestIsValidHash(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"abc", false},
		{"ABCDEF0123456789abcdef0123456789abcdef0123456789abcdef0123456789", false},
		{"abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789", true},
		{"gbcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789", false},
	}
	for _, tt := range tests {
		if got := IsValidHash(tt.in); got != tt.want {
			t.Errorf("IsValidHash(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFingerprint(t *testing.T) {
	a := sample(t, "KJV")
	b := sample(t, "Other name")

	fa := Fingerprint(a)
	if !IsValidHash(fa) {
		t.Fatalf("Fingerprint() = %q, not a hash", fa)
	}
	if fa != Fingerprint(a) {
		t.Error("Fingerprint is not deterministic")
	}
	if fa != Fingerprint(b) {
		t.Error("translation name should not affect the fingerprint")
	}

	if err := b.MutateVerse("John", 1, 2, "was the word"); err != nil {
		t.Fatal(err)
	}
	if fa == Fingerprint(b) {
		t.Error("a corrected verse should change the fingerprint")
	}
}

func TestFingerprintFraming(t *testing.T) {
	a := corpus.New("A", "en")
	if err := a.AddBook("John", [][]string{{"ab", "c"}}); err != nil {
		t.Fatal(err)
	}
	b := corpus.New("B", "en")
	if err := b.AddBook("John", [][]string{{"a", "bc"}}); err != nil {
		t.Fatal(err)
	}
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("verse boundaries must be part of the fingerprint")
	}
}
