// Package cas computes content hashes for corpora.
// A full-text index records the fingerprint of the corpus it was built
// from so a later run can tell whether the index is stale.
package cas

import (
	"encoding/binary"
	"encoding/hex"
	"regexp"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/versefinder/core/corpus"
)

// hashPattern matches a lowercase 256-bit hex digest.
var hashPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// IsValidHash reports whether s looks like a digest produced by this package.
func IsValidHash(s string) bool {
	return hashPattern.MatchString(s)
}

// Blake3Hash computes the BLAKE3 hash of the given data.
func Blake3Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Fingerprint hashes every verse of c in canonical order together with its
// coordinates. Two corpora share a fingerprint only if they hold the same
// books, chapters and verse text; the translation name is not included.
func Fingerprint(c *corpus.Corpus) string {
	h := blake3.New()
	var buf [binary.MaxVarintLen64]byte

	// Length-prefix every field so "ab"+"c" and "a"+"bc" differ.
	field := func(s string) {
		n := binary.PutUvarint(buf[:], uint64(len(s)))
		h.Write(buf[:n])
		h.Write([]byte(s))
	}
	number := func(v int) {
		n := binary.PutUvarint(buf[:], uint64(v))
		h.Write(buf[:n])
	}

	for ref, text := range c.Verses() {
		field(ref.Book)
		number(ref.Chapter)
		number(ref.Verse)
		field(text)
	}
	return hex.EncodeToString(h.Sum(nil))
}
